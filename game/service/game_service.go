package service

import (
	"context"
	"time"

	"github.com/wricardo/memory-match/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, difficulty string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	SelectTile(ctx context.Context, sessionID string, index int) (*SelectResult, error)
	NewGame(ctx context.Context, sessionID, difficulty string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Difficulties
	ListDifficulties(ctx context.Context) ([]*DifficultyInfo, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, difficulty engine.Difficulty) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, difficulty engine.Difficulty) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
