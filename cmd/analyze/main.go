// Command analyze plays simulated games with a perfect-memory player on every
// difficulty and prints how many moves and simulated seconds each board takes.
// Games run on a virtual clock, so thousands of them finish in well under a second.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/memory-match/game/engine"
)

// Summary aggregates the results of several games on one difficulty
type Summary struct {
	Difficulty engine.Difficulty
	Games      int
	MinMoves   int
	MaxMoves   int
	AvgMoves   float64
	MinSeconds int
	MaxSeconds int
	AvgSeconds float64
}

// Result is the outcome of one simulated game
type Result struct {
	Moves   int
	Seconds int
	Message string
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "Simulate perfect-memory games on every difficulty",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "games", Value: 1000, Usage: "Games per difficulty"},
			&cli.Uint64Flag{Name: "seed", Value: 1, Usage: "Seed of the first game; each game adds one"},
			&cli.DurationFlag{Name: "select-time", Value: 500 * time.Millisecond, Usage: "Simulated time the player takes per selection"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			for _, d := range engine.Difficulties() {
				summary, err := analyze(d, cmd.Int("games"), cmd.Uint64("seed"), cmd.Duration("select-time"))
				if err != nil {
					return err
				}
				printSummary(summary)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func analyze(difficulty engine.Difficulty, games int, seed uint64, selectTime time.Duration) (*Summary, error) {
	if games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", games)
	}

	summary := &Summary{Difficulty: difficulty, Games: games}
	totalMoves, totalSeconds := 0, 0

	for i := 0; i < games; i++ {
		result, err := simulate(difficulty, seed+uint64(i), selectTime)
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", i, err)
		}

		if i == 0 || result.Moves < summary.MinMoves {
			summary.MinMoves = result.Moves
		}
		if result.Moves > summary.MaxMoves {
			summary.MaxMoves = result.Moves
		}
		if i == 0 || result.Seconds < summary.MinSeconds {
			summary.MinSeconds = result.Seconds
		}
		if result.Seconds > summary.MaxSeconds {
			summary.MaxSeconds = result.Seconds
		}
		totalMoves += result.Moves
		totalSeconds += result.Seconds
	}

	summary.AvgMoves = float64(totalMoves) / float64(games)
	summary.AvgSeconds = float64(totalSeconds) / float64(games)
	return summary, nil
}

// simulate plays one game to the end. The player remembers every symbol it has
// seen and never repeats a mismatch it could have avoided.
func simulate(difficulty engine.Difficulty, seed uint64, selectTime time.Duration) (*Result, error) {
	scheduler := engine.NewManualScheduler()
	config := engine.DefaultGameConfig()
	config.Difficulty = difficulty
	config.Seed = seed

	eng, err := engine.NewEngine(config, engine.NopRenderer{}, scheduler)
	if err != nil {
		return nil, err
	}
	defer eng.Close()

	layout := eng.GetLayout()
	p := newPlayer(layout.BoardSize)

	reveal := func(index int) (string, error) {
		scheduler.Advance(selectTime)
		if !eng.SelectTile(index) {
			return "", fmt.Errorf("selection of tile %d was rejected", index)
		}
		symbol := eng.GetState().Tiles[index].Symbol
		p.see(index, symbol)
		return symbol, nil
	}

	// every move matches or reveals at least one unseen tile
	for turn := 0; !eng.IsWon(); turn++ {
		if turn > layout.BoardSize {
			return nil, fmt.Errorf("no win after %d moves", turn)
		}

		var first, second int
		if a, b, ok := p.knownPair(); ok {
			first, second = a, b
			if _, err := reveal(first); err != nil {
				return nil, err
			}
		} else {
			first = p.nextUnseen()
			symbol, err := reveal(first)
			if err != nil {
				return nil, err
			}
			if partner, ok := p.partnerOf(first, symbol); ok {
				second = partner
			} else {
				second = p.nextUnseen()
			}
		}

		if _, err := reveal(second); err != nil {
			return nil, err
		}

		state := eng.GetState()
		if state.Tiles[first].State == engine.Matched {
			p.matched(first, second)
		} else {
			scheduler.Advance(config.MismatchDelay)
		}
	}

	state := eng.GetState()
	return &Result{Moves: state.Moves, Seconds: state.ElapsedSeconds, Message: state.Message}, nil
}

// player tracks which tiles have been seen and which symbols they hold
type player struct {
	unseen []int
	seen   map[string][]int
}

func newPlayer(boardSize int) *player {
	unseen := make([]int, boardSize)
	for i := range unseen {
		unseen[i] = i
	}
	return &player{unseen: unseen, seen: make(map[string][]int)}
}

func (p *player) see(index int, symbol string) {
	for i, u := range p.unseen {
		if u == index {
			p.unseen = append(p.unseen[:i], p.unseen[i+1:]...)
			break
		}
	}
	for _, idx := range p.seen[symbol] {
		if idx == index {
			return
		}
	}
	p.seen[symbol] = append(p.seen[symbol], index)
}

func (p *player) nextUnseen() int {
	return p.unseen[0]
}

// knownPair returns two seen tiles with the same symbol
func (p *player) knownPair() (int, int, bool) {
	for _, indices := range p.seen {
		if len(indices) == 2 {
			return indices[0], indices[1], true
		}
	}
	return 0, 0, false
}

func (p *player) partnerOf(index int, symbol string) (int, bool) {
	for _, idx := range p.seen[symbol] {
		if idx != index {
			return idx, true
		}
	}
	return 0, false
}

func (p *player) matched(first, second int) {
	for symbol, indices := range p.seen {
		if len(indices) == 2 && (indices[0] == first || indices[0] == second) {
			delete(p.seen, symbol)
			return
		}
	}
}

func printSummary(s *Summary) {
	layout := engine.LayoutFor(s.Difficulty)
	fmt.Printf("\n=== %s (%dx%d, %d pairs) ===\n", s.Difficulty, layout.Columns, layout.Rows, layout.Pairs())
	fmt.Printf("Games: %d\n", s.Games)
	fmt.Printf("Moves:   min %d, avg %.2f, max %d\n", s.MinMoves, s.AvgMoves, s.MaxMoves)
	fmt.Printf("Seconds: min %d, avg %.2f, max %d\n", s.MinSeconds, s.AvgSeconds, s.MaxSeconds)
}
