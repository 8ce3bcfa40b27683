// Package mcp provides the Model Context Protocol server for the Memory Match Game.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions that proxy to the REST API
//   - Text rendering of boards, selections and move history
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_session: Create a new game session at a difficulty
//   - list_sessions: List all active sessions
//   - get_session: Get specific session details
//   - game_state: Get the current board as a grid of labelled tiles
//   - select_tile: Reveal one tile by index
//   - new_game: Deal a new board
//   - move_history: Retrieve completed moves with pagination
//   - list_difficulties: List board sizes
//   - game_instructions: Get the rules
//
// Board Rendering:
//
// Hidden tiles render as ??, revealed tiles as their symbol and matched tiles
// as [symbol]. Each cell is prefixed with its index so agents can address it.
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: the main binary forwards POST /mcp bodies to HandleMessage
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
