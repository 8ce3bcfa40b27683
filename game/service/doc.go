// Package service provides the business logic layer for the memory match game.
//
// The service package implements:
//   - Multi-session game management
//   - Tile selection with per-call event reporting
//   - Restart and difficulty changes
//   - Paginated move history
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP/TUI)
// and the game engine. Each session owns its own engine instance; the engine
// keeps running its timers between calls, so two reads of the same session can
// differ in elapsed time or in a mismatched pair having flipped back.
//
// Usage:
//
//	sessionMgr := session.NewManager(engine.DefaultGameConfig(), hub.Renderer)
//	gameService := service.NewGameService(sessionMgr)
//
//	info, err := gameService.CreateSession(ctx, "hard")
//	if err != nil {
//		log.Fatal().Err(err).Msg("create session")
//	}
//
//	result, err := gameService.SelectTile(ctx, info.ID, 5)
//
// Sessions are identified by 4-character hex IDs and maintain independent
// game state.
package service
