package engine

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game lifecycle
	Initialize(difficulty Difficulty) *GameState
	Reset() *GameState
	Close()

	// Input
	SelectTile(index int) bool

	// Game state
	GetState() *GameState
	GetDifficulty() Difficulty
	GetLayout() Layout
	GetMoves() int
	GetElapsed() int
	IsWon() bool

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface.
// All mutations, including scheduled callbacks, run under mu.
type GameEngine struct {
	mu        sync.Mutex
	config    *GameConfig
	renderer  Renderer
	scheduler Scheduler
	rng       *rand.Rand

	gameID    uuid.UUID
	layout    Layout
	deck      Deck
	tiles     []TileState
	selection []int
	moves     int
	matched   int
	elapsed   int
	started   bool
	won       bool
	message   string
	history   []MoveHistoryEntry

	tick    Timer
	resolve Timer
	closed  bool
}

// NewEngine creates an engine and starts a game at config.Difficulty.
// A nil renderer discards output; a nil scheduler uses the wall clock.
func NewEngine(config *GameConfig, renderer Renderer, scheduler Scheduler) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if renderer == nil {
		renderer = NopRenderer{}
	}
	if scheduler == nil {
		scheduler = RealScheduler{}
	}

	cfg := config.withDefaults()
	e := &GameEngine{
		config:    cfg,
		renderer:  renderer,
		scheduler: scheduler,
		rng:       NewRand(cfg.Seed),
	}
	e.Initialize(cfg.Difficulty)

	return e, nil
}

// NewEngineWithDefaults creates an engine with the default configuration and no renderer
func NewEngineWithDefaults() *GameEngine {
	e, _ := NewEngine(DefaultGameConfig(), nil, nil)
	return e
}

// Initialize discards the current game and deals a new board.
// Unknown difficulties fall back to DefaultDifficulty.
func (e *GameEngine) Initialize(difficulty Difficulty) *GameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.initializeLocked(difficulty)
}

// Reset starts a new game at the current difficulty
func (e *GameEngine) Reset() *GameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.initializeLocked(e.layout.Difficulty)
}

// initializeLocked deals a new board; e.mu must be held
func (e *GameEngine) initializeLocked(difficulty Difficulty) *GameState {
	if e.closed {
		return e.snapshot()
	}

	e.stopTimers()

	e.gameID = uuid.New()
	e.layout = LayoutFor(ParseDifficulty(string(difficulty)))
	e.deck = GenerateDeck(e.layout.BoardSize, e.config.Symbols, e.rng)
	e.tiles = make([]TileState, e.layout.BoardSize)
	for i := range e.tiles {
		e.tiles[i] = Hidden
	}
	e.selection = make([]int, 0, 2)
	e.moves = 0
	e.matched = 0
	e.elapsed = 0
	e.started = false
	e.won = false
	e.message = ""
	e.history = nil

	symbols := make([]string, len(e.deck))
	copy(symbols, e.deck)
	e.renderer.DrawBoard(e.layout, symbols)
	e.renderer.ShowMoves(0)
	e.renderer.ShowTime(0)
	e.renderer.ShowMessage("")

	return e.snapshot()
}

// Close cancels all pending callbacks; the engine ignores input afterwards
func (e *GameEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopTimers()
	e.closed = true
}

// SelectTile reveals the tile at index and resolves the pair once two tiles are up.
// It returns false when the selection was ignored: index out of range, tile
// already revealed or matched, a mismatched pair still waiting to flip back,
// or the game already won.
func (e *GameEngine) SelectTile(index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.won {
		return false
	}
	if index < 0 || index >= len(e.tiles) {
		return false
	}
	if e.tiles[index] != Hidden {
		return false
	}
	if len(e.selection) >= 2 {
		return false
	}

	if !e.started {
		e.started = true
		e.scheduleTick()
	}

	e.tiles[index] = Revealed
	e.selection = append(e.selection, index)
	e.renderer.SetTileState(index, Revealed)

	if len(e.selection) < 2 {
		return true
	}

	e.moves++
	e.renderer.ShowMoves(e.moves)

	first, second := e.selection[0], e.selection[1]
	matched := e.deck[first] == e.deck[second]
	e.addMoveToHistory(first, second, matched)

	if !matched {
		id := e.gameID
		e.resolve = e.scheduler.AfterFunc(e.config.MismatchDelay, func() {
			e.resolveMismatch(id)
		})
		return true
	}

	e.tiles[first] = Matched
	e.tiles[second] = Matched
	e.renderer.SetTileState(first, Matched)
	e.renderer.SetTileState(second, Matched)
	e.selection = e.selection[:0]
	e.matched++

	if e.matched == e.layout.Pairs() {
		e.endSession()
	}

	return true
}

// GetState returns a snapshot of the current game
func (e *GameEngine) GetState() *GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// GetDifficulty returns the difficulty of the current game
func (e *GameEngine) GetDifficulty() Difficulty {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layout.Difficulty
}

// GetLayout returns the board layout of the current game
func (e *GameEngine) GetLayout() Layout {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layout
}

// GetMoves returns the number of completed moves
func (e *GameEngine) GetMoves() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.moves
}

// GetElapsed returns the elapsed seconds of the current game
func (e *GameEngine) GetElapsed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elapsed
}

// IsWon reports whether every pair has been found
func (e *GameEngine) IsWon() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.won
}

// GetMoveHistory returns a copy of the moves of the current game
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	history := make([]MoveHistoryEntry, len(e.history))
	copy(history, e.history)
	return history
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.history) == 0 {
		return nil
	}
	last := e.history[len(e.history)-1]
	return &last
}

// resolveMismatch flips a pending mismatched pair back to hidden
func (e *GameEngine) resolveMismatch(id uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || id != e.gameID || len(e.selection) != 2 {
		return
	}

	for _, idx := range e.selection {
		e.tiles[idx] = Hidden
		e.renderer.SetTileState(idx, Hidden)
	}
	e.selection = e.selection[:0]
	e.resolve = nil
}

// onTick advances the game clock by one second and re-arms the timer
func (e *GameEngine) onTick(id uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || id != e.gameID || !e.started || e.won {
		return
	}

	e.elapsed++
	e.renderer.ShowTime(e.elapsed)
	e.scheduleTick()
}

// scheduleTick arms the next clock tick. Callers hold e.mu.
func (e *GameEngine) scheduleTick() {
	id := e.gameID
	e.tick = e.scheduler.AfterFunc(e.config.TickInterval, func() {
		e.onTick(id)
	})
}

// endSession stops the clock and announces the win. Callers hold e.mu.
func (e *GameEngine) endSession() {
	if e.tick != nil {
		e.tick.Stop()
		e.tick = nil
	}
	e.won = true
	e.message = fmt.Sprintf(WinMessageFormat, e.moves, e.elapsed)
	e.renderer.ShowMessage(e.message)
}

// stopTimers cancels the clock and any pending mismatch. Callers hold e.mu.
func (e *GameEngine) stopTimers() {
	if e.tick != nil {
		e.tick.Stop()
		e.tick = nil
	}
	if e.resolve != nil {
		e.resolve.Stop()
		e.resolve = nil
	}
}

// addMoveToHistory records a completed move. Callers hold e.mu.
func (e *GameEngine) addMoveToHistory(first, second int, matched bool) {
	e.history = append(e.history, MoveHistoryEntry{
		MoveNumber:     e.moves,
		First:          first,
		Second:         second,
		FirstSymbol:    e.deck[first],
		SecondSymbol:   e.deck[second],
		Matched:        matched,
		ElapsedSeconds: e.elapsed,
		Timestamp:      time.Now().Unix(),
	})
}

// snapshot builds a GameState. Callers hold e.mu.
func (e *GameEngine) snapshot() *GameState {
	tiles := make([]Tile, len(e.tiles))
	for i, st := range e.tiles {
		tiles[i] = Tile{Index: i, State: st}
		if st != Hidden {
			tiles[i].Symbol = e.deck[i]
		}
	}

	status := NotStarted
	switch {
	case e.won:
		status = Won
	case e.started:
		status = InProgress
	}

	return &GameState{
		GameID:          e.gameID.String(),
		Difficulty:      e.layout.Difficulty,
		BoardSize:       e.layout.BoardSize,
		Columns:         e.layout.Columns,
		Rows:            e.layout.Rows,
		Tiles:           tiles,
		Moves:           e.moves,
		MatchedPairs:    e.matched,
		TotalPairs:      e.layout.Pairs(),
		ElapsedSeconds:  e.elapsed,
		Status:          status,
		PendingMismatch: len(e.selection) == 2,
		Message:         e.message,
	}
}
