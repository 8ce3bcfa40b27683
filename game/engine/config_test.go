package engine

import (
	"slices"
	"testing"
)

func TestValidateGameConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *GameConfig)
		wantErr bool
	}{
		{name: "default", mutate: func(c *GameConfig) {}},
		{name: "nil symbols use catalog", mutate: func(c *GameConfig) { c.Symbols = nil }},
		{name: "empty symbols use catalog", mutate: func(c *GameConfig) { c.Symbols = []string{} }},
		{name: "zero delay", mutate: func(c *GameConfig) { c.MismatchDelay = 0 }, wantErr: true},
		{name: "negative tick", mutate: func(c *GameConfig) { c.TickInterval = -1 }, wantErr: true},
		{name: "short catalog", mutate: func(c *GameConfig) { c.Symbols = []string{"a", "b"} }, wantErr: true},
		{name: "duplicate symbol", mutate: func(c *GameConfig) {
			c.Symbols = slices.Clone(DefaultSymbols)
			c.Symbols[3] = c.Symbols[0]
		}, wantErr: true},
		{name: "empty symbol", mutate: func(c *GameConfig) {
			c.Symbols = slices.Clone(DefaultSymbols)
			c.Symbols[5] = ""
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultGameConfig()
			tt.mutate(c)
			err := ValidateGameConfig(c)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGameConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if err := ValidateGameConfig(nil); err == nil {
		t.Error("Expected error for nil config")
	}
}

func TestNewEngine_EmptySymbols(t *testing.T) {
	config := DefaultGameConfig()
	config.Symbols = []string{}
	config.Seed = 42

	e, err := NewEngine(config, nil, NewManualScheduler())
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	defer e.Close()

	if len(e.deck) != 16 {
		t.Fatalf("Expected 16 tiles, got %d", len(e.deck))
	}
	if !e.deck.IsPairBalanced() {
		t.Errorf("Deck is not pair balanced: %v", e.deck.Counts())
	}
	for _, s := range e.deck {
		if !slices.Contains(DefaultSymbols, s) {
			t.Errorf("Symbol %q is not from the default catalog", s)
		}
	}
	if config.Symbols == nil || len(config.Symbols) != 0 {
		t.Errorf("Caller's config was modified: %v", config.Symbols)
	}
}

func TestWithDefaults(t *testing.T) {
	config := &GameConfig{Difficulty: "HARD", MismatchDelay: DefaultMismatchDelay, TickInterval: DefaultTickInterval}

	out := config.withDefaults()
	if out.Difficulty != Hard {
		t.Errorf("Expected difficulty hard, got %s", out.Difficulty)
	}
	if len(out.Symbols) != len(DefaultSymbols) {
		t.Errorf("Expected default catalog, got %d symbols", len(out.Symbols))
	}
	if config.Symbols != nil || config.Difficulty != "HARD" {
		t.Errorf("Caller's config was modified: %+v", config)
	}
}
