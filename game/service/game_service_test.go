package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/wricardo/memory-match/game/engine"
	"github.com/wricardo/memory-match/game/service"
)

const testSeed = 42

var errNotFound = errors.New("session not found")

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	clock    *engine.ManualScheduler
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
		clock:    engine.NewManualScheduler(),
	}
}

func (m *MockSessionManager) Create(id string, difficulty engine.Difficulty) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	config := engine.DefaultGameConfig()
	config.Difficulty = difficulty
	config.Seed = testSeed

	eng, err := engine.NewEngine(config, nil, m.clock)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errNotFound
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id string, difficulty engine.Difficulty) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, difficulty)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	session, exists := m.sessions[id]
	if !exists {
		return errNotFound
	}
	session.Engine.Close()
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errNotFound
}

// testDeck reproduces the first deck dealt by an engine seeded with testSeed
func testDeck(d engine.Difficulty) engine.Deck {
	return engine.GenerateDeck(engine.LayoutFor(d).BoardSize, engine.DefaultSymbols, engine.NewRand(testSeed))
}

func pairsOf(deck engine.Deck) [][2]int {
	seen := make(map[string]int)
	var out [][2]int
	for i, s := range deck {
		if first, ok := seen[s]; ok {
			out = append(out, [2]int{first, i})
			continue
		}
		seen[s] = i
	}
	return out
}

func mismatchOf(deck engine.Deck) (int, int) {
	for j := 1; j < len(deck); j++ {
		if deck[j] != deck[0] {
			return 0, j
		}
	}
	return 0, 1
}

func eventTypes(events []service.GameEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager())

	tests := []struct {
		name       string
		difficulty string
		want       engine.Difficulty
		size       int
	}{
		{name: "default difficulty", difficulty: "", want: engine.Medium, size: 16},
		{name: "easy", difficulty: "easy", want: engine.Easy, size: 12},
		{name: "hard", difficulty: "hard", want: engine.Hard, size: 24},
		{name: "unknown falls back", difficulty: "brutal", want: engine.Medium, size: 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := svc.CreateSession(ctx, tt.difficulty)
			if err != nil {
				t.Fatalf("CreateSession() error = %v", err)
			}
			if info.Difficulty != tt.want {
				t.Errorf("Expected difficulty %s, got %s", tt.want, info.Difficulty)
			}
			if info.GameState.BoardSize != tt.size {
				t.Errorf("Expected %d tiles, got %d", tt.size, info.GameState.BoardSize)
			}
		})
	}
}

func TestGameService_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	sessions := NewMockSessionManager()
	svc := service.NewGameService(sessions)

	info, err := svc.CreateSession(ctx, "easy")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	got, err := svc.GetSession(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got.ID != info.ID {
		t.Errorf("Expected session %s, got %s", info.ID, got.ID)
	}

	list, _ := svc.ListSessions(ctx)
	if len(list) != 1 {
		t.Errorf("Expected 1 session, got %d", len(list))
	}

	if err := svc.DeleteSession(ctx, info.ID); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}

	_, err = svc.GetSession(ctx, info.ID)
	if !errors.Is(err, errNotFound) {
		t.Errorf("Expected wrapped not found error, got %v", err)
	}
	if err := svc.DeleteSession(ctx, info.ID); err == nil {
		t.Error("Expected error deleting a missing session")
	}
}

func TestGameService_SelectTile(t *testing.T) {
	ctx := context.Background()
	sessions := NewMockSessionManager()
	svc := service.NewGameService(sessions)

	info, err := svc.CreateSession(ctx, "medium")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	deck := testDeck(engine.Medium)

	t.Run("reveal", func(t *testing.T) {
		res, err := svc.SelectTile(ctx, info.ID, 0)
		if err != nil {
			t.Fatalf("SelectTile() error = %v", err)
		}
		if !res.Accepted {
			t.Fatal("Expected selection to be accepted")
		}
		if res.Events[0].Type != service.EventReveal {
			t.Errorf("Expected reveal event, got %v", eventTypes(res.Events))
		}
		if res.GameState.Tiles[0].Symbol != deck[0] {
			t.Errorf("Expected symbol %s, got %s", deck[0], res.GameState.Tiles[0].Symbol)
		}
	})

	t.Run("already revealed", func(t *testing.T) {
		res, err := svc.SelectTile(ctx, info.ID, 0)
		if err != nil {
			t.Fatalf("SelectTile() error = %v", err)
		}
		if res.Accepted || res.Events[0].Type != service.EventIgnored {
			t.Errorf("Expected ignored selection, got %+v", res)
		}
	})

	t.Run("mismatch", func(t *testing.T) {
		_, j := mismatchOf(deck)
		res, err := svc.SelectTile(ctx, info.ID, j)
		if err != nil {
			t.Fatalf("SelectTile() error = %v", err)
		}
		types := eventTypes(res.Events)
		if len(types) != 2 || types[1] != service.EventMismatch {
			t.Errorf("Expected reveal+mismatch, got %v", types)
		}
		if res.Move == nil || res.Move.Matched {
			t.Errorf("Expected an unmatched move, got %+v", res.Move)
		}
		if res.GameState.Moves != 1 {
			t.Errorf("Expected 1 move, got %d", res.GameState.Moves)
		}
	})

	t.Run("blocked while pending", func(t *testing.T) {
		res, _ := svc.SelectTile(ctx, info.ID, 15)
		if res.Accepted {
			t.Error("Expected selection to be rejected during the mismatch window")
		}
		if res.Message != "Wait for the mismatched pair to flip back" {
			t.Errorf("Unexpected reason: %s", res.Message)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		sessions.clock.Advance(engine.DefaultMismatchDelay)
		res, _ := svc.SelectTile(ctx, info.ID, 99)
		if res.Accepted {
			t.Error("Expected out of range selection to be ignored")
		}
	})

	t.Run("invalid session", func(t *testing.T) {
		if _, err := svc.SelectTile(ctx, "nope", 0); err == nil {
			t.Error("Expected error for missing session")
		}
	})
}

func TestGameService_PlayToVictory(t *testing.T) {
	ctx := context.Background()
	sessions := NewMockSessionManager()
	svc := service.NewGameService(sessions)

	info, _ := svc.CreateSession(ctx, "easy")
	all := pairsOf(testDeck(engine.Easy))

	var last *service.SelectResult
	for i, p := range all {
		svc.SelectTile(ctx, info.ID, p[0])
		if i == 0 {
			sessions.clock.Advance(3 * time.Second)
		}
		res, err := svc.SelectTile(ctx, info.ID, p[1])
		if err != nil {
			t.Fatalf("SelectTile() error = %v", err)
		}
		last = res
	}

	types := eventTypes(last.Events)
	if types[len(types)-1] != service.EventVictory {
		t.Fatalf("Expected victory event, got %v", types)
	}

	want := fmt.Sprintf(engine.WinMessageFormat, 6, 3)
	if last.Message != want {
		t.Errorf("Expected %q, got %q", want, last.Message)
	}
	if last.GameState.Status != engine.Won {
		t.Errorf("Expected status won, got %s", last.GameState.Status)
	}

	res, _ := svc.SelectTile(ctx, info.ID, 0)
	if res.Accepted {
		t.Error("Selections after victory should be ignored")
	}
}

func TestGameService_NewGame(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager())

	info, _ := svc.CreateSession(ctx, "easy")
	svc.SelectTile(ctx, info.ID, 0)

	state, err := svc.NewGame(ctx, info.ID, "")
	if err != nil {
		t.Fatalf("NewGame() error = %v", err)
	}
	if state.Difficulty != engine.Easy || state.Status != engine.NotStarted {
		t.Errorf("Restart should keep easy and reset status, got %s/%s", state.Difficulty, state.Status)
	}

	state, err = svc.NewGame(ctx, info.ID, "HARD")
	if err != nil {
		t.Fatalf("NewGame() error = %v", err)
	}
	if state.BoardSize != 24 || state.Columns != 6 {
		t.Errorf("Expected a 6x4 hard board, got %d tiles in %d columns", state.BoardSize, state.Columns)
	}

	if _, err := svc.NewGame(ctx, "missing", "easy"); err == nil {
		t.Error("Expected error for missing session")
	}
}

func TestGameService_GetMoveHistory(t *testing.T) {
	ctx := context.Background()
	sessions := NewMockSessionManager()
	svc := service.NewGameService(sessions)

	info, _ := svc.CreateSession(ctx, "hard")
	all := pairsOf(testDeck(engine.Hard))

	for _, p := range all[:5] {
		svc.SelectTile(ctx, info.ID, p[0])
		svc.SelectTile(ctx, info.ID, p[1])
	}

	tests := []struct {
		name      string
		opts      service.HistoryOptions
		wantCount int
		wantFirst int
		wantNext  bool
	}{
		{name: "defaults newest first", opts: service.HistoryOptions{}, wantCount: 5, wantFirst: 5},
		{name: "ascending", opts: service.HistoryOptions{Order: "asc"}, wantCount: 5, wantFirst: 1},
		{name: "paged", opts: service.HistoryOptions{Limit: 2, Order: "asc"}, wantCount: 2, wantFirst: 1, wantNext: true},
		{name: "second page desc", opts: service.HistoryOptions{Page: 2, Limit: 2}, wantCount: 2, wantFirst: 3, wantNext: true},
		{name: "past the end", opts: service.HistoryOptions{Page: 9, Limit: 2, Order: "asc"}, wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.GetMoveHistory(ctx, info.ID, tt.opts)
			if err != nil {
				t.Fatalf("GetMoveHistory() error = %v", err)
			}
			if resp.TotalMoves != 5 {
				t.Errorf("Expected 5 total moves, got %d", resp.TotalMoves)
			}
			if len(resp.Moves) != tt.wantCount {
				t.Fatalf("Expected %d moves, got %d", tt.wantCount, len(resp.Moves))
			}
			if tt.wantCount > 0 && resp.Moves[0].MoveNumber != tt.wantFirst {
				t.Errorf("Expected first move %d, got %d", tt.wantFirst, resp.Moves[0].MoveNumber)
			}
			if resp.HasNext != tt.wantNext {
				t.Errorf("Expected HasNext=%v, got %v", tt.wantNext, resp.HasNext)
			}
		})
	}
}

func TestGameService_ListDifficulties(t *testing.T) {
	svc := service.NewGameService(NewMockSessionManager())

	list, err := svc.ListDifficulties(context.Background())
	if err != nil {
		t.Fatalf("ListDifficulties() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("Expected 3 difficulties, got %d", len(list))
	}

	defaults := 0
	for _, d := range list {
		if d.Columns*d.Rows != d.BoardSize {
			t.Errorf("%s: %dx%d does not hold %d tiles", d.Difficulty, d.Columns, d.Rows, d.BoardSize)
		}
		if d.Default {
			defaults++
			if d.Difficulty != engine.Medium {
				t.Errorf("Expected medium as default, got %s", d.Difficulty)
			}
		}
	}
	if defaults != 1 {
		t.Errorf("Expected exactly one default, got %d", defaults)
	}
}
