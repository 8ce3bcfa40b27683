package main

import (
	"fmt"
	"testing"
	"time"

	"github.com/wricardo/memory-match/game/engine"
)

func TestSimulate(t *testing.T) {
	for _, d := range engine.Difficulties() {
		t.Run(string(d), func(t *testing.T) {
			layout := engine.LayoutFor(d)

			result, err := simulate(d, 42, 500*time.Millisecond)
			if err != nil {
				t.Fatalf("simulate failed: %v", err)
			}

			if result.Moves < layout.Pairs() {
				t.Errorf("Expected at least %d moves, got %d", layout.Pairs(), result.Moves)
			}
			if result.Moves >= layout.BoardSize {
				t.Errorf("Perfect memory should need fewer than %d moves, got %d", layout.BoardSize, result.Moves)
			}

			expected := fmt.Sprintf(engine.WinMessageFormat, result.Moves, result.Seconds)
			if result.Message != expected {
				t.Errorf("Expected message %q, got %q", expected, result.Message)
			}
		})
	}
}

func TestSimulate_Deterministic(t *testing.T) {
	first, err := simulate(engine.Medium, 7, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	second, err := simulate(engine.Medium, 7, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	if *first != *second {
		t.Errorf("Expected identical results for the same seed, got %+v and %+v", first, second)
	}
}

func TestSimulate_ClockFollowsSelectTime(t *testing.T) {
	fast, err := simulate(engine.Easy, 3, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	slow, err := simulate(engine.Easy, 3, 2*time.Second)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	if fast.Moves != slow.Moves {
		t.Errorf("Select time should not change the moves: %d vs %d", fast.Moves, slow.Moves)
	}
	if slow.Seconds <= fast.Seconds {
		t.Errorf("Expected slower player to take longer: %ds vs %ds", slow.Seconds, fast.Seconds)
	}
}

func TestAnalyze(t *testing.T) {
	summary, err := analyze(engine.Easy, 50, 1, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if summary.Games != 50 {
		t.Errorf("Expected 50 games, got %d", summary.Games)
	}
	if float64(summary.MinMoves) > summary.AvgMoves || summary.AvgMoves > float64(summary.MaxMoves) {
		t.Errorf("Expected min <= avg <= max moves, got %d/%.2f/%d", summary.MinMoves, summary.AvgMoves, summary.MaxMoves)
	}
	if float64(summary.MinSeconds) > summary.AvgSeconds || summary.AvgSeconds > float64(summary.MaxSeconds) {
		t.Errorf("Expected min <= avg <= max seconds, got %d/%.2f/%d", summary.MinSeconds, summary.AvgSeconds, summary.MaxSeconds)
	}
}

func TestAnalyze_InvalidGames(t *testing.T) {
	if _, err := analyze(engine.Easy, 0, 1, time.Second); err == nil {
		t.Error("Expected error for zero games")
	}
}

func TestPlayer(t *testing.T) {
	p := newPlayer(4)

	p.see(0, "🐶")
	p.see(1, "🐱")
	if got := p.nextUnseen(); got != 2 {
		t.Errorf("Expected next unseen tile 2, got %d", got)
	}
	if _, _, ok := p.knownPair(); ok {
		t.Error("Expected no known pair yet")
	}

	p.see(2, "🐶")
	partner, ok := p.partnerOf(2, "🐶")
	if !ok || partner != 0 {
		t.Errorf("Expected partner 0, got %d (%v)", partner, ok)
	}

	// Seeing a tile twice does not duplicate it
	p.see(0, "🐶")
	a, b, ok := p.knownPair()
	if !ok || a != 0 || b != 2 {
		t.Errorf("Expected known pair 0,2, got %d,%d (%v)", a, b, ok)
	}

	p.matched(0, 2)
	if _, _, ok := p.knownPair(); ok {
		t.Error("Expected matched pair to be forgotten")
	}
	if _, ok := p.partnerOf(1, "🐱"); ok {
		t.Error("Expected no partner for a single sighting")
	}
}
