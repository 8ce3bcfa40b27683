package service

import (
	"time"

	"github.com/wricardo/memory-match/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	Difficulty     engine.Difficulty `json:"difficulty"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

// SelectResult contains the result of a tile selection
type SelectResult struct {
	Accepted  bool                     `json:"accepted"`
	Index     int                      `json:"index"`
	GameState *engine.GameState        `json:"game_state"`
	Message   string                   `json:"message"`
	Events    []GameEvent              `json:"events,omitempty"`
	Move      *engine.MoveHistoryEntry `json:"move,omitempty"`
}

// Event types reported by SelectTile and NewGame
const (
	EventReveal   = "reveal"
	EventMatch    = "match"
	EventMismatch = "mismatch"
	EventVictory  = "victory"
	EventIgnored  = "ignored"
	EventNewGame  = "new_game"
)

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // "reveal", "match", "mismatch", "victory", "ignored", "new_game"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Tiles     []int     `json:"tiles,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// DifficultyInfo describes a selectable difficulty
type DifficultyInfo struct {
	Difficulty  engine.Difficulty `json:"difficulty"`
	BoardSize   int               `json:"board_size"`
	Columns     int               `json:"columns"`
	Rows        int               `json:"rows"`
	Pairs       int               `json:"pairs"`
	Default     bool              `json:"default"`
	Description string            `json:"description"`
}
