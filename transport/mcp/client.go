package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/memory-match/game/engine"
	"github.com/wricardo/memory-match/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Memory Match Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Memory Match Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Find every pair of matching symbols. Tiles start face down; reveal two per move.
A mismatched pair stays visible for one second and then flips back.

AVAILABLE TOOLS:
- create_session: Create a new game session (easy, medium or hard)
- list_sessions: List all active sessions
- get_session: Get session details
- game_state: Get the current board
- select_tile: Reveal one tile by index
- new_game: Deal a new board, optionally at another difficulty
- move_history: View completed moves
- list_difficulties: List board sizes
- game_instructions: Get the full rules`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func difficultyProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
		"enum":        []string{string(engine.Easy), string(engine.Medium), string(engine.Hard)},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with an optional difficulty",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"difficulty": difficultyProperty("Board difficulty (optional, defaults to medium)"),
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, moves and timer",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_tile",
		Description: "Reveal the tile at index. Two revealed tiles complete a move.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"index": map[string]interface{}{
					"type":        "number",
					"description": "Zero-based tile index, row by row from the top left",
					"minimum":     0,
				},
			},
			Required: []string{"session_id", "index"},
		},
	}, c.handleSelectTile)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Discard the current board and deal a new one",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"difficulty": difficultyProperty("Board difficulty (optional, keeps the current one)"),
			},
			Required: []string{"session_id"},
		},
	}, c.handleNewGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get the completed moves of the current game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "number",
					"description": "Page number (default: 1)",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Moves per page (default: 20)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"description": "Sort order (default: desc)",
					"enum":        []string{"asc", "desc"},
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_difficulties",
		Description: "List available difficulties and their board sizes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListDifficulties)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of the game and how to read the board",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	difficulty, _ := args["difficulty"].(string)

	body := map[string]string{}
	if difficulty != "" {
		body["difficulty"] = difficulty
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodPost, "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nDifficulty: %s\n\n%s",
		session.ID, session.Difficulty, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, http.MethodGet, "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := ""
		if s.GameState != nil {
			status = fmt.Sprintf(", %d/%d pairs", s.GameState.MatchedPairs, s.GameState.TotalPairs)
		}
		fmt.Fprintf(&b, "- %s (Difficulty: %s%s, Created: %s)\n",
			s.ID, s.Difficulty, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSessionID(request)
	if errResult != nil {
		return errResult, nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSessionID(request)
	if errResult != nil {
		return errResult, nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleSelectTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSessionID(request)
	if errResult != nil {
		return errResult, nil
	}

	// JSON numbers arrive as float64
	index, ok := request.GetArguments()["index"].(float64)
	if !ok {
		return mcp.NewToolResultError("index is required"), nil
	}

	body := map[string]int{"index": int(index)}

	var result service.SelectResult
	if err := c.apiCall(ctx, http.MethodPost, sessionPath(sessionID, "/select"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSelectResult(&result)), nil
}

func (c *Client) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSessionID(request)
	if errResult != nil {
		return errResult, nil
	}
	difficulty, _ := request.GetArguments()["difficulty"].(string)

	body := map[string]string{}
	if difficulty != "" {
		body["difficulty"] = difficulty
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, http.MethodPost, sessionPath(sessionID, "/new-game"), body, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSessionID(request)
	if errResult != nil {
		return errResult, nil
	}
	args := request.GetArguments()

	params := url.Values{}
	if page, ok := args["page"].(float64); ok {
		params.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		params.Set("limit", fmt.Sprintf("%d", int(limit)))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListDifficulties(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var difficulties []service.DifficultyInfo
	if err := c.apiCall(ctx, http.MethodGet, "/api/difficulties", nil, &difficulties); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Difficulties:\n\n")
	for _, d := range difficulties {
		marker := ""
		if d.Default {
			marker = " (default)"
		}
		fmt.Fprintf(&b, "• %s%s\n  %s\n  Board: %dx%d, %d tiles, %d pairs\n\n",
			d.Difficulty, marker, d.Description, d.Columns, d.Rows, d.BoardSize, d.Pairs)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Memory Match Game - Instructions

GAME OBJECTIVE:
Find every matching pair of symbols on the board in as few moves as possible.

DIFFICULTIES:
• easy   - 12 tiles, 4 columns x 3 rows, 6 pairs
• medium - 16 tiles, 4 columns x 4 rows, 8 pairs (default)
• hard   - 24 tiles, 6 columns x 4 rows, 12 pairs

GAME MECHANICS:
• Select one tile at a time with select_tile; it is revealed immediately
• Selecting a second tile completes a move and the move counter goes up by one
• Matching symbols stay face up for the rest of the game
• Mismatched symbols stay visible for one second and then flip face down
• While a mismatched pair is visible, further selections are ignored
• Selecting a tile that is already face up, or an index off the board, is ignored
• The timer starts with your first selection and stops when you win

BOARD LEGEND:
• ?? - hidden tile
• 🐶 - revealed tile (the symbol itself)
• [🐶] - matched tile
Tiles are numbered from 0, left to right and top to bottom.

STRATEGY:
• Keep a map of every symbol you have seen and its index
• When a revealed symbol is already in your map, select its partner next
• Otherwise reveal a tile you have never seen before
• After a mismatch, call game_state once the second has passed before selecting again

VICTORY:
When the last pair is matched the board freezes and the message reads
"Congratulations! You won in {moves} moves and {seconds} seconds!"
Use new_game to play again.`

	return mcp.NewToolResultText(instructions), nil
}

func requireSessionID(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	sessionID, _ := request.GetArguments()["session_id"].(string)
	if strings.TrimSpace(sessionID) == "" {
		return "", mcp.NewToolResultError("session_id is required")
	}
	return sessionID, nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nDifficulty: %s\nCreated: %s\n\n%s",
		session.ID, session.Difficulty,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func tileLabel(tile engine.Tile) string {
	switch tile.State {
	case engine.Revealed:
		return tile.Symbol
	case engine.Matched:
		return "[" + tile.Symbol + "]"
	default:
		return "??"
	}
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Difficulty: %s | Moves: %d | Pairs: %d/%d | Time: %ds | Status: %s\n\n",
		state.Difficulty, state.Moves, state.MatchedPairs, state.TotalPairs,
		state.ElapsedSeconds, state.Status)

	columns := state.Columns
	if columns <= 0 {
		columns = len(state.Tiles)
	}
	for i, tile := range state.Tiles {
		fmt.Fprintf(&b, "%2d:%-5s", tile.Index, tileLabel(tile))
		if (i+1)%columns == 0 || i == len(state.Tiles)-1 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}

	if state.PendingMismatch {
		b.WriteString("\nMismatch showing; tiles flip back shortly.")
	}
	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

func formatSelectResult(result *service.SelectResult) string {
	var b strings.Builder
	if result.Accepted {
		fmt.Fprintf(&b, "Selected tile %d\n", result.Index)
	} else {
		fmt.Fprintf(&b, "Selection of tile %d ignored\n", result.Index)
	}
	if result.Message != "" {
		fmt.Fprintf(&b, "%s\n", result.Message)
	}

	for _, event := range result.Events {
		fmt.Fprintf(&b, "• %s: %s\n", event.Type, event.Message)
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d) | Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	if len(history.Moves) == 0 {
		b.WriteString("(no moves yet)")
		return b.String()
	}

	for _, move := range history.Moves {
		status := "✓ match"
		if !move.Matched {
			status = "✗ mismatch"
		}
		fmt.Fprintf(&b, "%d. tiles %d,%d (%s %s) %s [%ds]\n",
			move.MoveNumber, move.First, move.Second,
			move.FirstSymbol, move.SecondSymbol, status, move.ElapsedSeconds)
	}

	return b.String()
}
