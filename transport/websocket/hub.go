package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/memory-match/game/engine"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Pending outbound messages before the engine side starts dropping them.
	broadcastBuffer = 1024
)

// Outbound event names
const (
	EventStateUpdate = "state_update"
	EventDrawBoard   = "draw_board"
	EventTileState   = "tile_state"
	EventMoves       = "moves"
	EventTimer       = "timer"
	EventMessage     = "message"
	EventError       = "error"
)

// Inbound actions
const (
	ActionSelect  = "select"
	ActionNewGame = "new_game"
	ActionRestart = "restart"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		return true
	},
}

// Message represents a WebSocket message
type Message struct {
	SessionID string            `json:"session_id"`
	GameState *engine.GameState `json:"game_state,omitempty"`
	Event     string            `json:"event,omitempty"`
	Data      interface{}       `json:"data,omitempty"`

	// target restricts delivery to one client
	target *Client
}

// InputMessage is an action sent by a browser
type InputMessage struct {
	Action     string `json:"action"`
	Index      *int   `json:"index,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

// InputHandler receives client actions for a session
type InputHandler interface {
	HandleInput(ctx context.Context, sessionID string, msg *InputMessage) error
}

// BoardData is the payload of draw_board. Symbols are withheld until a tile is revealed.
type BoardData struct {
	Difficulty engine.Difficulty `json:"difficulty"`
	BoardSize  int               `json:"board_size"`
	Columns    int               `json:"columns"`
	Rows       int               `json:"rows"`
}

// TileData is the payload of tile_state
type TileData struct {
	Index  int              `json:"index"`
	State  engine.TileState `json:"state"`
	Symbol string           `json:"symbol,omitempty"`
}

// Client represents a WebSocket client
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

type countRequest struct {
	sessionID string
	reply     chan int
}

// Hub maintains the set of active clients and broadcasts messages.
// The sessions map is only touched by the Run goroutine.
type Hub struct {
	// Registered clients by session ID
	sessions map[string]map[*Client]bool

	// Outbound messages for clients
	broadcast chan *Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	counts chan countRequest

	inputMu sync.RWMutex
	input   InputHandler
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		counts:     make(chan countRequest),
	}
}

// SetInputHandler routes client actions to h
func (h *Hub) SetInputHandler(handler InputHandler) {
	h.inputMu.Lock()
	defer h.inputMu.Unlock()
	h.input = handler
}

func (h *Hub) inputHandler() InputHandler {
	h.inputMu.RLock()
	defer h.inputMu.RUnlock()
	return h.input
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case req := <-h.counts:
			req.reply <- len(h.sessions[req.sessionID])
		}
	}
}

// ClientCount returns the number of clients watching a session. Requires Run.
func (h *Hub) ClientCount(sessionID string) int {
	reply := make(chan int, 1)
	h.counts <- countRequest{sessionID: sessionID, reply: reply}
	return <-reply
}

// ServeWS handles WebSocket requests from clients
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
	}

	client.hub.register <- client

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

// BroadcastToSession sends a game state update to all clients in a session
func (h *Hub) BroadcastToSession(sessionID string, state *engine.GameState) {
	h.enqueue(&Message{
		SessionID: sessionID,
		GameState: state,
		Event:     EventStateUpdate,
	})
}

// BroadcastEvent sends a custom event to all clients in a session
func (h *Hub) BroadcastEvent(sessionID string, event string, data interface{}) {
	h.enqueue(&Message{
		SessionID: sessionID,
		Event:     event,
		Data:      data,
	})
}

// enqueue never blocks: render commands arrive while an engine holds its lock
func (h *Hub) enqueue(message *Message) {
	select {
	case h.broadcast <- message:
	default:
		log.Warn().Str("session", message.SessionID).Str("event", message.Event).Msg("websocket broadcast queue full, dropping message")
	}
}

// registerClient adds a client to a session
func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	log.Debug().
		Str("session", client.sessionID).
		Int("clients", len(h.sessions[client.sessionID])).
		Msg("websocket client registered")
}

// unregisterClient removes a client from a session
func (h *Hub) unregisterClient(client *Client) {
	if clients, ok := h.sessions[client.sessionID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)

			// Clean up empty sessions
			if len(clients) == 0 {
				delete(h.sessions, client.sessionID)
			}

			log.Debug().
				Str("session", client.sessionID).
				Int("clients", len(clients)).
				Msg("websocket client unregistered")
		}
	}
}

// broadcastMessage sends a message to all clients in a session, or to its target
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Str("event", message.Event).Msg("failed to marshal websocket message")
		return
	}

	clients, ok := h.sessions[message.SessionID]
	if !ok {
		return
	}

	for client := range clients {
		if message.target != nil && client != message.target {
			continue
		}
		select {
		case client.send <- data:
		default:
			// Client's send channel is full, close it
			h.unregisterClient(client)
		}
	}
}

// handleInput decodes one client frame and hands it to the input handler
func (c *Client) handleInput(data []byte) {
	var msg InputMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.replyError("malformed message: " + err.Error())
		return
	}

	switch msg.Action {
	case ActionSelect:
		if msg.Index == nil {
			c.replyError("select requires an index")
			return
		}
	case ActionNewGame, ActionRestart:
	default:
		c.replyError("unknown action: " + msg.Action)
		return
	}

	handler := c.hub.inputHandler()
	if handler == nil {
		c.replyError("input is not accepted on this server")
		return
	}

	if err := handler.HandleInput(context.Background(), c.sessionID, &msg); err != nil {
		c.replyError(err.Error())
	}
}

func (c *Client) replyError(text string) {
	c.hub.enqueue(&Message{
		SessionID: c.sessionID,
		Event:     EventError,
		Data:      map[string]string{"error": text},
		target:    c,
	})
}

// readPump pumps messages from the WebSocket connection to the input handler
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("session", c.sessionID).Msg("websocket read error")
			}
			break
		}
		c.handleInput(data)
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
// Each message goes out as its own frame.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
