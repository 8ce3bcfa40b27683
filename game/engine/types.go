package engine

import (
	"strings"
	"time"
)

// Difficulty selects the board layout
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"

	// DefaultDifficulty is used when no difficulty or an unknown one is given
	DefaultDifficulty = Medium
)

// TileState is the visibility state of a tile
type TileState string

const (
	Hidden   TileState = "hidden"
	Revealed TileState = "revealed"
	Matched  TileState = "matched"
)

// Status is the coarse lifecycle of a game
type Status string

const (
	NotStarted Status = "not_started"
	InProgress Status = "in_progress"
	Won        Status = "won"
)

const (
	DefaultMismatchDelay = 1000 * time.Millisecond
	DefaultTickInterval  = time.Second

	// MaxBoardSize is the largest board any difficulty produces
	MaxBoardSize = 24

	WinMessageFormat = "Congratulations! You won in %d moves and %d seconds!"
)

// Layout describes the board for a difficulty
type Layout struct {
	Difficulty Difficulty `json:"difficulty"`
	BoardSize  int        `json:"board_size"`
	Columns    int        `json:"columns"`
	Rows       int        `json:"rows"`
}

// Pairs returns the number of pairs on the board
func (l Layout) Pairs() int {
	return l.BoardSize / 2
}

var layouts = map[Difficulty]Layout{
	Easy:   {Difficulty: Easy, BoardSize: 12, Columns: 4, Rows: 3},
	Medium: {Difficulty: Medium, BoardSize: 16, Columns: 4, Rows: 4},
	Hard:   {Difficulty: Hard, BoardSize: 24, Columns: 6, Rows: 4},
}

// Difficulties lists the supported difficulties from smallest to largest board
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// ParseDifficulty maps user input onto a difficulty, falling back to DefaultDifficulty
func ParseDifficulty(s string) Difficulty {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := layouts[d]; ok {
		return d
	}
	return DefaultDifficulty
}

// LayoutFor returns the layout of a difficulty; unknown values get the default layout
func LayoutFor(d Difficulty) Layout {
	if l, ok := layouts[d]; ok {
		return l
	}
	return layouts[DefaultDifficulty]
}

// Tile is a single board cell as exposed in snapshots.
// Symbol is only set once the tile has been revealed.
type Tile struct {
	Index  int       `json:"index"`
	State  TileState `json:"state"`
	Symbol string    `json:"symbol,omitempty"`
}

// GameState is a read-only snapshot of a game
type GameState struct {
	GameID          string     `json:"game_id"`
	Difficulty      Difficulty `json:"difficulty"`
	BoardSize       int        `json:"board_size"`
	Columns         int        `json:"columns"`
	Rows            int        `json:"rows"`
	Tiles           []Tile     `json:"tiles"`
	Moves           int        `json:"moves"`
	MatchedPairs    int        `json:"matched_pairs"`
	TotalPairs      int        `json:"total_pairs"`
	ElapsedSeconds  int        `json:"elapsed_seconds"`
	Status          Status     `json:"status"`
	PendingMismatch bool       `json:"pending_mismatch"`
	Message         string     `json:"message,omitempty"`
}

// MoveHistoryEntry records one completed pair of selections
type MoveHistoryEntry struct {
	MoveNumber     int    `json:"move_number"`
	First          int    `json:"first"`
	Second         int    `json:"second"`
	FirstSymbol    string `json:"first_symbol"`
	SecondSymbol   string `json:"second_symbol"`
	Matched        bool   `json:"matched"`
	ElapsedSeconds int    `json:"elapsed_seconds"`
	Timestamp      int64  `json:"timestamp"`
}
