package websocket

import (
	"sync"

	"github.com/wricardo/memory-match/game/engine"
)

// sessionRenderer turns engine render commands into hub events for one session
type sessionRenderer struct {
	hub       *Hub
	sessionID string

	mu      sync.Mutex
	symbols []string
}

// Renderer returns an engine.Renderer that broadcasts to the clients of sessionID
func (h *Hub) Renderer(sessionID string) engine.Renderer {
	return &sessionRenderer{hub: h, sessionID: sessionID}
}

func (r *sessionRenderer) DrawBoard(layout engine.Layout, symbols []string) {
	r.mu.Lock()
	r.symbols = symbols
	r.mu.Unlock()

	r.hub.BroadcastEvent(r.sessionID, EventDrawBoard, BoardData{
		Difficulty: layout.Difficulty,
		BoardSize:  layout.BoardSize,
		Columns:    layout.Columns,
		Rows:       layout.Rows,
	})
}

func (r *sessionRenderer) SetTileState(index int, state engine.TileState) {
	data := TileData{Index: index, State: state}
	if state != engine.Hidden {
		r.mu.Lock()
		if index >= 0 && index < len(r.symbols) {
			data.Symbol = r.symbols[index]
		}
		r.mu.Unlock()
	}
	r.hub.BroadcastEvent(r.sessionID, EventTileState, data)
}

func (r *sessionRenderer) ShowMoves(moves int) {
	r.hub.BroadcastEvent(r.sessionID, EventMoves, map[string]int{"moves": moves})
}

func (r *sessionRenderer) ShowTime(seconds int) {
	r.hub.BroadcastEvent(r.sessionID, EventTimer, map[string]int{"seconds": seconds})
}

func (r *sessionRenderer) ShowMessage(text string) {
	r.hub.BroadcastEvent(r.sessionID, EventMessage, map[string]string{"text": text})
}
