package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/memory-match/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
	}
}

// CreateSession creates a new game session.
// Empty or unknown difficulties start a medium game.
func (s *gameServiceImpl) CreateSession(ctx context.Context, difficulty string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := engine.ParseDifficulty(difficulty)

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", d)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Debug().Str("session", session.ID).Str("difficulty", string(d)).Msg("session created")

	return toSessionInfo(session), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return toSessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, toSessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session and stops its timers
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	log.Debug().Str("session", sessionID).Msg("session deleted")
	return nil
}

// SelectTile forwards a tile click to the session's engine and reports what it caused
func (s *gameServiceImpl) SelectTile(ctx context.Context, sessionID string, index int) (*SelectResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	prev := sess.Engine.GetState()
	accepted := sess.Engine.SelectTile(index)
	state := sess.Engine.GetState()

	result := &SelectResult{
		Accepted:  accepted,
		Index:     index,
		GameState: state,
	}

	if !accepted {
		result.Events = []GameEvent{{
			Type:      EventIgnored,
			Message:   ignoreReason(prev, index),
			Timestamp: time.Now(),
			Tiles:     []int{index},
		}}
		result.Message = result.Events[0].Message
		return result, nil
	}

	result.Events = s.extractSelectEvents(sess, prev, state, index)
	if state.Message != "" {
		result.Message = state.Message
	} else {
		result.Message = result.Events[len(result.Events)-1].Message
	}
	if state.Moves > prev.Moves {
		result.Move = sess.Engine.GetLastMove()
	}

	log.Debug().
		Str("session", sessionID).
		Int("index", index).
		Str("event", result.Events[len(result.Events)-1].Type).
		Msg("tile selected")

	return result, nil
}

// NewGame restarts a session. An empty difficulty keeps the current one.
func (s *gameServiceImpl) NewGame(ctx context.Context, sessionID, difficulty string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	var state *engine.GameState
	if strings.TrimSpace(difficulty) == "" {
		state = sess.Engine.Reset()
	} else {
		state = sess.Engine.Initialize(engine.ParseDifficulty(difficulty))
	}

	log.Debug().Str("session", sessionID).Str("difficulty", string(state.Difficulty)).Msg("new game")

	return state, nil
}

// GetGameState returns the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = history[start:end]
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListDifficulties returns the supported board layouts
func (s *gameServiceImpl) ListDifficulties(ctx context.Context) ([]*DifficultyInfo, error) {
	out := make([]*DifficultyInfo, 0, 3)
	for _, d := range engine.Difficulties() {
		l := engine.LayoutFor(d)
		out = append(out, &DifficultyInfo{
			Difficulty:  d,
			BoardSize:   l.BoardSize,
			Columns:     l.Columns,
			Rows:        l.Rows,
			Pairs:       l.Pairs(),
			Default:     d == engine.DefaultDifficulty,
			Description: fmt.Sprintf("%d tiles in a %dx%d grid, %d pairs", l.BoardSize, l.Columns, l.Rows, l.Pairs()),
		})
	}
	return out, nil
}

// extractSelectEvents describes an accepted selection
func (s *gameServiceImpl) extractSelectEvents(sess *Session, prev, state *engine.GameState, index int) []GameEvent {
	now := time.Now()
	symbol := ""
	if index >= 0 && index < len(state.Tiles) {
		symbol = state.Tiles[index].Symbol
	}

	events := []GameEvent{{
		Type:      EventReveal,
		Message:   fmt.Sprintf("Revealed tile %d: %s", index, symbol),
		Timestamp: now,
		Tiles:     []int{index},
	}}

	if state.Moves == prev.Moves {
		return events
	}

	last := sess.Engine.GetLastMove()
	if last == nil {
		return events
	}
	pair := []int{last.First, last.Second}

	if last.Matched {
		events = append(events, GameEvent{
			Type:      EventMatch,
			Message:   fmt.Sprintf("Match! %s found (%d/%d pairs)", last.FirstSymbol, state.MatchedPairs, state.TotalPairs),
			Timestamp: now,
			Tiles:     pair,
		})
	} else {
		events = append(events, GameEvent{
			Type:      EventMismatch,
			Message:   fmt.Sprintf("No match: %s and %s flip back shortly", last.FirstSymbol, last.SecondSymbol),
			Timestamp: now,
			Tiles:     pair,
		})
	}

	if state.Status == engine.Won && prev.Status != engine.Won {
		events = append(events, GameEvent{
			Type:      EventVictory,
			Message:   state.Message,
			Timestamp: now,
		})
	}

	return events
}

// ignoreReason explains why the engine refused a selection, judged on the state before the call
func ignoreReason(prev *engine.GameState, index int) string {
	switch {
	case prev.Status == engine.Won:
		return "Game already won; start a new game"
	case index < 0 || index >= len(prev.Tiles):
		return fmt.Sprintf("Tile %d is off the board (0-%d)", index, len(prev.Tiles)-1)
	case prev.Tiles[index].State == engine.Matched:
		return fmt.Sprintf("Tile %d is already matched", index)
	case prev.Tiles[index].State == engine.Revealed:
		return fmt.Sprintf("Tile %d is already revealed", index)
	case prev.PendingMismatch:
		return "Wait for the mismatched pair to flip back"
	default:
		return fmt.Sprintf("Tile %d cannot be selected right now", index)
	}
}

func toSessionInfo(sess *Session) *SessionInfo {
	state := sess.Engine.GetState()
	return &SessionInfo{
		ID:             sess.ID,
		Difficulty:     state.Difficulty,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      state,
	}
}
