// Package websocket provides WebSocket transport for the memory match game.
//
// The websocket package implements:
//   - Real-time bidirectional communication
//   - Session-aware WebSocket connections
//   - An engine.Renderer per session that streams render commands
//   - Client actions (tile clicks, new game, restart) routed to an InputHandler
//   - Connection lifecycle management
//   - Message routing and handling
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// goroutine that manages reading, writing, and cleanup.
//
// Message Protocol:
//
// Messages are JSON-encoded with the following structure:
//   - Incoming: {"action": "select", "index": 5}, {"action": "new_game", "difficulty": "hard"}, {"action": "restart"}
//   - Outgoing: {"session_id": "ab12", "event": "tile_state", "data": {"index": 5, "state": "revealed", "symbol": "🐱"}}
//
// Outgoing events are draw_board, tile_state, moves, timer and message (one per
// engine render command), state_update (a full snapshot after each REST call)
// and error (sent only to the client whose action failed). Symbols are never
// sent for hidden tiles.
//
// Session Integration:
//
// WebSocket connections are session-aware. Clients specify their session ID
// via query parameter (?session=abc1) when establishing the connection.
// State updates are broadcast only to clients connected to the same session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	manager := session.NewManager(cfg.GameConfig(), hub.Renderer)
//	hub.SetInputHandler(apiServer)
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Connection Lifecycle:
//
// 1. Client connects with session ID
// 2. Connection registered with hub
// 3. Initial state sent to client by the API layer
// 4. Client sends actions, receives state updates
// 5. Disconnection triggers cleanup
//
// Concurrency:
//
// Only the Run goroutine touches the client map. Broadcasts are queued and
// never block the caller, because engines render while holding their lock;
// when the queue is full the message is dropped and a warning logged.
package websocket
