// Command validate checks server configuration JSON files. It checks:
//   - JSON structure and duration strings
//   - Port, log level, session expiry and ngrok settings
//   - Mismatch delay and clock resolution
//   - The symbol catalog can fill the largest board with distinct pairs
//
// With no arguments it validates every *.json file in ../configs.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/memory-match/game/config"
	"github.com/wricardo/memory-match/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Info holds a summary of a valid file; Errors holds what made it invalid.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

// validateConfig loads and validates a single configuration JSON file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	cfg, err := config.Load(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	gc := cfg.GameConfig()
	result.Info = append(result.Info,
		fmt.Sprintf("✓ Listens on %s", cfg.Addr()),
		fmt.Sprintf("✓ Default difficulty: %s", gc.Difficulty),
		fmt.Sprintf("✓ Mismatch delay: %s, tick: %s", gc.MismatchDelay, gc.TickInterval),
		fmt.Sprintf("✓ Symbol catalog: %d symbols", len(gc.Symbols)),
	)

	// Deal one board per difficulty to prove the catalog fills it
	for _, d := range engine.Difficulties() {
		layout := engine.LayoutFor(d)
		deck := engine.GenerateDeck(layout.BoardSize, gc.Symbols, engine.NewRand(1))
		if len(deck) != layout.BoardSize || !deck.IsPairBalanced() {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s board cannot be dealt from the symbol catalog", d))
			continue
		}
		result.Info = append(result.Info, fmt.Sprintf("✓ %s board: %dx%d, %d pairs", d, layout.Columns, layout.Rows, layout.Pairs()))
	}

	if cfg.SessionTTL == 0 {
		result.Info = append(result.Info, "✓ Sessions never expire")
	}

	return result
}

// main validates the files named on the command line, or every *.json file in
// ../configs, and exits with non-zero status if any are invalid.
func main() {
	files := os.Args[1:]
	if len(files) == 0 {
		var err error
		files, err = filepath.Glob(filepath.Join("..", "configs", "*.json"))
		if err != nil {
			fmt.Printf("Error finding config files: %v\n", err)
			os.Exit(1)
		}
	}

	if len(files) == 0 {
		fmt.Println("No configuration files found")
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Info {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Println("  ❌ " + err)
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
