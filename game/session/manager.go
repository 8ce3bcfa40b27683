package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/memory-match/game/engine"
	"github.com/wricardo/memory-match/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// CanonicalID is the form a session id is stored and broadcast under; ids
// match case-insensitively
func CanonicalID(id string) string {
	return strings.ToLower(id)
}

// RendererFactory returns the renderer a new session's engine draws to
type RendererFactory func(sessionID string) engine.Renderer

// Manager handles game session lifecycle
type Manager struct {
	sessions  map[string]*service.Session
	base      *engine.GameConfig
	renderers RendererFactory
	scheduler engine.Scheduler
	mu        sync.RWMutex
}

// NewManager creates a new session manager. Engines are built from base
// (engine defaults when nil) and draw to the renderer returned by renderers
// (nothing when nil).
func NewManager(base *engine.GameConfig, renderers RendererFactory) *Manager {
	if base == nil {
		base = engine.DefaultGameConfig()
	}
	return &Manager{
		sessions:  make(map[string]*service.Session),
		base:      base,
		renderers: renderers,
	}
}

// NewManagerWithScheduler creates a session manager whose engines run their
// timers on scheduler instead of the wall clock
func NewManagerWithScheduler(base *engine.GameConfig, renderers RendererFactory, scheduler engine.Scheduler) *Manager {
	m := NewManager(base, renderers)
	m.scheduler = scheduler
	return m
}

// Create creates a new session with the given ID and difficulty
func (m *Manager) Create(id string, difficulty engine.Difficulty) (*service.Session, error) {
	if id == "" {
		id = m.generateSessionID()
	}
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidSessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := CanonicalID(id)
	if _, exists := m.sessions[key]; exists {
		return nil, ErrSessionAlreadyExists
	}

	config := *m.base
	config.Difficulty = difficulty

	var renderer engine.Renderer
	if m.renderers != nil {
		renderer = m.renderers(key)
	}

	eng, err := engine.NewEngine(&config, renderer, m.scheduler)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	session := &service.Session{
		ID:             key,
		Engine:         eng,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[key] = session

	return session, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[CanonicalID(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// GetOrCreate gets an existing session or creates a new one
func (m *Manager) GetOrCreate(id string, difficulty engine.Difficulty) (*service.Session, error) {
	session, err := m.Get(id)
	if err == nil {
		return session, nil
	}

	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, difficulty)
	}

	return nil, err
}

// List returns all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}

	return result
}

// Delete removes a session and stops its engine
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := CanonicalID(id)
	session, exists := m.sessions[key]
	if !exists {
		return ErrSessionNotFound
	}

	delete(m.sessions, key)
	session.Engine.Close()

	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[CanonicalID(id)]
	if !exists {
		return ErrSessionNotFound
	}

	session.LastAccessedAt = time.Now()
	return nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the given duration
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			session.Engine.Close()
			delete(m.sessions, id)
			removed++
		}
	}

	return removed
}

// StartCleanup expires idle sessions every interval until ctx is cancelled
func (m *Manager) StartCleanup(ctx context.Context, interval, maxAge time.Duration) {
	if interval <= 0 || maxAge <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.CleanupExpiredSessions(maxAge); n > 0 {
					log.Info().Int("removed", n).Dur("max_age", maxAge).Msg("expired idle sessions")
				}
			}
		}
	}()
}

// CloseAll stops every engine and empties the manager
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, session := range m.sessions {
		session.Engine.Close()
		delete(m.sessions, id)
	}
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID generates a random 4-character session ID not yet in use
func (m *Manager) generateSessionID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bytes := make([]byte, 2)
	for {
		rand.Read(bytes)
		id := hex.EncodeToString(bytes)
		if _, exists := m.sessions[id]; !exists {
			return id
		}
	}
}
