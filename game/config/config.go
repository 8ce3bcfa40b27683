package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/wricardo/memory-match/game/engine"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// NgrokConfig controls the optional public tunnel
type NgrokConfig struct {
	Enabled   bool   `json:"enabled"`
	AuthToken string `json:"auth_token,omitempty"`
	Domain    string `json:"domain,omitempty"`
}

// Config is the runtime configuration of the server and its engines
type Config struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	LogLevel string `json:"log_level"`
	Debug    bool   `json:"debug"`

	Difficulty    engine.Difficulty `json:"difficulty"`
	MismatchDelay time.Duration     `json:"-"`
	TickInterval  time.Duration     `json:"-"`
	Seed          uint64            `json:"seed,omitempty"`
	// Symbols replaces the built-in catalog; it needs at least 12 distinct entries
	Symbols []string `json:"symbols,omitempty"`

	SessionTTL      time.Duration `json:"-"`
	CleanupInterval time.Duration `json:"-"`

	StaticDir string      `json:"static_dir"`
	Ngrok     NgrokConfig `json:"ngrok"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Host:            "localhost",
		Port:            8080,
		LogLevel:        "info",
		Difficulty:      engine.DefaultDifficulty,
		MismatchDelay:   engine.DefaultMismatchDelay,
		TickInterval:    engine.DefaultTickInterval,
		SessionTTL:      24 * time.Hour,
		CleanupInterval: 10 * time.Minute,
		StaticDir:       "static",
	}
}

// Validate checks every field, wrapping ErrInvalidConfig
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port must be between 1 and 65535, got %d", ErrInvalidConfig, c.Port)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q: %v", ErrInvalidConfig, c.LogLevel, err)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("%w: session ttl must not be negative", ErrInvalidConfig)
	}
	if c.CleanupInterval < 0 {
		return fmt.Errorf("%w: cleanup interval must not be negative", ErrInvalidConfig)
	}
	if c.Ngrok.Enabled && c.Ngrok.AuthToken == "" {
		return fmt.Errorf("%w: ngrok enabled without an auth token", ErrInvalidConfig)
	}
	if err := engine.ValidateGameConfig(c.GameConfig()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// GameConfig maps the game settings onto an engine configuration
func (c *Config) GameConfig() *engine.GameConfig {
	gc := engine.DefaultGameConfig()
	gc.Difficulty = engine.ParseDifficulty(string(c.Difficulty))
	gc.MismatchDelay = c.MismatchDelay
	gc.TickInterval = c.TickInterval
	gc.Seed = c.Seed
	if len(c.Symbols) > 0 {
		gc.Symbols = c.Symbols
	}
	return gc
}

// Addr returns host:port for the HTTP listener
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Level returns the parsed log level, info when unparseable
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	if c.Debug && level > zerolog.DebugLevel {
		return zerolog.DebugLevel
	}
	return level
}

// fileConfig is the on-disk shape; durations are Go duration strings
type fileConfig struct {
	Config
	MismatchDelay   string `json:"mismatch_delay,omitempty"`
	TickInterval    string `json:"tick_interval,omitempty"`
	SessionTTL      string `json:"session_ttl,omitempty"`
	CleanupInterval string `json:"cleanup_interval,omitempty"`
}

// Load reads a JSON configuration file on top of Default and validates it
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	fc := fileConfig{Config: *Default()}
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := fc.Config
	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"mismatch_delay", fc.MismatchDelay, &cfg.MismatchDelay},
		{"tick_interval", fc.TickInterval, &cfg.TickInterval},
		{"session_ttl", fc.SessionTTL, &cfg.SessionTTL},
		{"cleanup_interval", fc.CleanupInterval, &cfg.CleanupInterval},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, d.name, err)
		}
		*d.dst = parsed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
