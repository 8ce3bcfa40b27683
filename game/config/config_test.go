package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wricardo/memory-match/game/engine"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}
	if cfg.MismatchDelay != time.Second {
		t.Errorf("Expected 1s mismatch delay, got %s", cfg.MismatchDelay)
	}
	if cfg.Addr() != "localhost:8080" {
		t.Errorf("Expected localhost:8080, got %s", cfg.Addr())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Port = 0 }, wantErr: true},
		{name: "port too large", mutate: func(c *Config) { c.Port = 70000 }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "chatty" }, wantErr: true},
		{name: "negative ttl", mutate: func(c *Config) { c.SessionTTL = -time.Second }, wantErr: true},
		{name: "zero ttl disables expiry", mutate: func(c *Config) { c.SessionTTL = 0 }},
		{name: "zero mismatch delay", mutate: func(c *Config) { c.MismatchDelay = 0 }, wantErr: true},
		{name: "ngrok without token", mutate: func(c *Config) { c.Ngrok.Enabled = true }, wantErr: true},
		{name: "short symbol catalog", mutate: func(c *Config) { c.Symbols = []string{"A", "B", "C"} }, wantErr: true},
		{name: "duplicate symbols", mutate: func(c *Config) {
			c.Symbols = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "A"}
		}, wantErr: true},
		{name: "ngrok with token", mutate: func(c *Config) {
			c.Ngrok.Enabled = true
			c.Ngrok.AuthToken = "tok"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected error to wrap ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestGameConfig(t *testing.T) {
	cfg := Default()
	cfg.Difficulty = "HARD"
	cfg.MismatchDelay = 250 * time.Millisecond
	cfg.Seed = 9

	gc := cfg.GameConfig()
	if gc.Difficulty != engine.Hard {
		t.Errorf("Expected hard, got %s", gc.Difficulty)
	}
	if gc.MismatchDelay != 250*time.Millisecond || gc.Seed != 9 {
		t.Errorf("Game settings not carried over: %+v", gc)
	}
	if err := engine.ValidateGameConfig(gc); err != nil {
		t.Errorf("Mapped config should be valid: %v", err)
	}
	if len(gc.Symbols) != len(engine.DefaultSymbols) {
		t.Errorf("Expected default catalog, got %d symbols", len(gc.Symbols))
	}

	custom := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}
	cfg.Symbols = custom
	if gc := cfg.GameConfig(); len(gc.Symbols) != len(custom) || gc.Symbols[0] != "A" {
		t.Errorf("Expected custom catalog, got %v", gc.Symbols)
	}
}

func TestLevel(t *testing.T) {
	cfg := Default()
	if cfg.Level() != zerolog.InfoLevel {
		t.Errorf("Expected info, got %s", cfg.Level())
	}

	cfg.Debug = true
	if cfg.Level() != zerolog.DebugLevel {
		t.Errorf("Debug flag should lower the level to debug, got %s", cfg.Level())
	}

	cfg.LogLevel = "trace"
	if cfg.Level() != zerolog.TraceLevel {
		t.Errorf("Debug flag should not raise trace, got %s", cfg.Level())
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
		return path
	}

	t.Run("overrides defaults", func(t *testing.T) {
		path := write("ok.json", `{"port": 9090, "difficulty": "easy", "mismatch_delay": "750ms", "session_ttl": "2h"}`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Port != 9090 || cfg.Difficulty != engine.Easy {
			t.Errorf("Unexpected values: port=%d difficulty=%s", cfg.Port, cfg.Difficulty)
		}
		if cfg.MismatchDelay != 750*time.Millisecond || cfg.SessionTTL != 2*time.Hour {
			t.Errorf("Durations not parsed: %s %s", cfg.MismatchDelay, cfg.SessionTTL)
		}
		if cfg.TickInterval != time.Second {
			t.Errorf("Unset duration should keep its default, got %s", cfg.TickInterval)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.json"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := Load(write("dur.json", `{"tick_interval": "soon"}`))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		if _, err := Load(write("bad.json", `{`)); err == nil {
			t.Error("Expected parse error")
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(write("port.json", `{"port": -1}`))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})
}
