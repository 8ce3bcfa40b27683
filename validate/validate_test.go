package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test_config.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestValidateConfig_ValidConfig(t *testing.T) {
	path := writeConfig(t, `{
		"host": "0.0.0.0",
		"port": 9090,
		"log_level": "debug",
		"difficulty": "hard",
		"mismatch_delay": "1500ms",
		"session_ttl": "1h"
	}`)

	result := validateConfig(path)
	if !result.Valid {
		t.Fatalf("Expected valid config, but got errors: %v", result.Errors)
	}

	if result.File != "test_config.json" {
		t.Errorf("Expected file name test_config.json, got %s", result.File)
	}

	info := strings.Join(result.Info, "\n")
	for _, want := range []string{"0.0.0.0:9090", "Default difficulty: hard", "Mismatch delay: 1.5s", "hard board: 6x4, 12 pairs"} {
		if !strings.Contains(info, want) {
			t.Errorf("Expected %q in info, got:\n%s", want, info)
		}
	}
}

func TestValidateConfig_CustomSymbols(t *testing.T) {
	path := writeConfig(t, `{
		"symbols": ["A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"]
	}`)

	result := validateConfig(path)
	if !result.Valid {
		t.Fatalf("Expected valid config, but got errors: %v", result.Errors)
	}
	if !strings.Contains(strings.Join(result.Info, "\n"), "Symbol catalog: 12 symbols") {
		t.Errorf("Expected catalog size in info, got %v", result.Info)
	}
}

func TestValidateConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"invalid JSON", `{"port": 8080, invalid json}`, "failed to parse config"},
		{"bad port", `{"port": 0}`, "port must be between"},
		{"bad duration", `{"mismatch_delay": "soon"}`, "mismatch_delay"},
		{"zero delay", `{"mismatch_delay": "0s"}`, "mismatch_delay must be positive"},
		{"short catalog", `{"symbols": ["A", "B"]}`, "symbol catalog needs at least 12"},
		{"duplicate symbol", `{"symbols": ["A","B","C","D","E","F","G","H","I","J","K","K"]}`, "appears more than once"},
		{"ngrok without token", `{"ngrok": {"enabled": true}}`, "ngrok enabled without an auth token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateConfig(writeConfig(t, tt.content))
			if result.Valid {
				t.Fatal("Expected invalid config")
			}
			if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], tt.errPart) {
				t.Errorf("Expected error containing %q, got %v", tt.errPart, result.Errors)
			}
		})
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	result := validateConfig("/non/existent/file.json")

	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}
	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], "configuration not found") {
		t.Errorf("Expected not found error, got %v", result.Errors)
	}
}
