package engine

import (
	"fmt"
	"time"
)

// GameConfig holds the tunables of an engine
type GameConfig struct {
	Difficulty    Difficulty    `json:"difficulty"`
	MismatchDelay time.Duration `json:"mismatch_delay"`
	TickInterval  time.Duration `json:"tick_interval"`
	Symbols       []string      `json:"symbols,omitempty"`
	// Seed fixes the shuffle order; zero picks a random seed
	Seed uint64 `json:"seed,omitempty"`
}

// DefaultGameConfig returns the standard rules: medium board, 1s mismatch delay, 1s ticks
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Difficulty:    DefaultDifficulty,
		MismatchDelay: DefaultMismatchDelay,
		TickInterval:  DefaultTickInterval,
		Symbols:       DefaultSymbols,
	}
}

// ValidateGameConfig checks that a configuration can produce every board
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is required")
	}

	if config.MismatchDelay <= 0 {
		return fmt.Errorf("config validation: mismatch_delay must be positive, got %s", config.MismatchDelay)
	}
	if config.TickInterval <= 0 {
		return fmt.Errorf("config validation: tick_interval must be positive, got %s", config.TickInterval)
	}

	symbols := config.Symbols
	if len(symbols) == 0 {
		symbols = DefaultSymbols
	}
	if len(symbols) < MaxBoardSize/2 {
		return fmt.Errorf("config validation: symbol catalog needs at least %d entries, got %d", MaxBoardSize/2, len(symbols))
	}

	seen := make(map[string]bool, len(symbols))
	for i, s := range symbols[:MaxBoardSize/2] {
		if s == "" {
			return fmt.Errorf("config validation: symbol %d is empty", i)
		}
		if seen[s] {
			return fmt.Errorf("config validation: symbol %q appears more than once", s)
		}
		seen[s] = true
	}

	return nil
}

// withDefaults fills unset fields without touching the caller's value
func (c *GameConfig) withDefaults() *GameConfig {
	out := *c
	if len(out.Symbols) == 0 {
		out.Symbols = DefaultSymbols
	}
	out.Difficulty = ParseDifficulty(string(out.Difficulty))
	return &out
}
