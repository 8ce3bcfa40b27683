// Package api provides HTTP REST API handlers for the memory match game.
//
// The api package implements:
//   - RESTful endpoints for game operations
//   - Session management endpoints
//   - WebSocket upgrade handling and websocket client actions
//   - Static file serving
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"difficulty": "easy|medium|hard"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=n)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete a session and stop its timers
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current board snapshot
//   - POST /api/sessions/{id}/select - Reveal a tile ({"index": 5})
//   - POST /api/sessions/{id}/new-game - Restart, optionally at another difficulty
//   - GET /api/sessions/{id}/history - Move history (?page&limit&order)
//   - GET /api/difficulties - Board layouts
//   - GET /health - Liveness and session count
//
// Select Response:
//
//	{
//	  "accepted": true,
//	  "index": 5,
//	  "message": "No match: 🐶 and 🐱 flip back shortly",
//	  "events": [{"type": "reveal", ...}, {"type": "mismatch", "tiles": [2, 5], ...}],
//	  "move": {"move_number": 3, "first": 2, "second": 5, "matched": false, ...},
//	  "game_state": {...}
//	}
//
// A rejected selection (tile already up, pair waiting to flip back, game won,
// index off the board) returns 200 with "accepted": false and an "ignored" event.
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{"error": "session not found"}
//
// Unknown sessions map to 404, malformed bodies to 400, everything else to 500.
// Every request carries a request ID (go-chi middleware) and is logged with zerolog.
package api
