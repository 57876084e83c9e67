package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tile2048/slidegame/game/engine"
	"github.com/tile2048/slidegame/game/leaderboard"
	"github.com/tile2048/slidegame/game/service"
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
		baseURL: baseURL,
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
		"Sliding Tile Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Sliding Tile Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Slide tiles on the board (up/down/left/right). Equal adjacent tiles merge
into their sum and score points. Build the win-target tile to win before
the board fills up.

AVAILABLE TOOLS:
- game_state: Get current board, score and status
- move: Single move (up/down/left/right) - requires intent explanation
- bulk_move: Multiple moves at once - requires intent explanation
- reset_game: Reset to initial state
- move_history: View past moves
- create_session: Create new game session
- get_session: Get session details
- list_sessions: List all active sessions
- list_rules: List available rules files
- leaderboard: Show top finished games
- game_instructions: Get comprehensive game instructions and rules

NOTE: The 'intent' parameter on move/bulk_move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional rules selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"rules_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the rules file to use (optional)",
				},
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
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Slide all tiles in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to slide",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: "Execute multiple moves in sequence",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"up", "down", "left", "right"},
					},
					"description": "Array of moves",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to initial state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rules",
		Description: "List available game rules files",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRules)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "leaderboard",
		Description: "Show the top finished games",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Number of entries to show (default 10)",
				},
			},
		},
	}, c.handleLeaderboard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
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

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
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

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	rulesID, _ := args["rules_id"].(string)

	body := map[string]string{}
	if rulesID != "" {
		body["rules_id"] = rulesID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nRules: %s\n\n%s",
		session.ID, session.RulesName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		score := 0
		if s.GameState != nil {
			score = s.GameState.Score
		}
		result += fmt.Sprintf("- %s (Rules: %s, Score: %d, Created: %s)\n",
			s.ID, s.RulesName, score, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatGameState(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)
	intent, _ := args["intent"].(string)
	reset, _ := args["reset"].(bool)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]interface{}{
		"direction": direction,
		"reset":     reset,
	}

	var result service.MoveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/move", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatMoveResult(direction, &result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	movesRaw, _ := args["moves"].([]interface{})
	intent, _ := args["intent"].(string)
	reset, _ := args["reset"].(bool)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	// Convert moves to string array
	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if move, ok := m.(string); ok {
			moves = append(moves, move)
		}
	}

	body := map[string]interface{}{
		"moves": moves,
		"reset": reset,
	}

	var result service.BulkMoveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/bulk-move", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatBulkMoveResult(sessionID, &result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var history service.HistoryResponse
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/history%s", sessionID, params), nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatHistory(&history)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var rules []service.RulesInfo
	err := c.apiCall("GET", "/api/rules", nil, &rules)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Rules:\n\n"
	for _, r := range rules {
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Board: %dx%d, Win target: %d, Merge ceiling: %d\n\n",
			r.Name, r.RulesID, r.Description, r.Rows, r.Cols, r.WinTarget, r.MergeCeiling)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	path := "/api/leaderboard"
	if limit, ok := args["limit"].(float64); ok && limit > 0 {
		path += fmt.Sprintf("?limit=%d", int(limit))
	}

	var response struct {
		Count   int                 `json:"count"`
		Entries []leaderboard.Entry `json:"entries"`
	}
	err := c.apiCall("GET", path, nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Count == 0 {
		return mcp.NewToolResultText("Leaderboard is empty - no finished games yet."), nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Leaderboard (top %d):\n\n", response.Count))
	for i, e := range response.Entries {
		outcome := "game over"
		if e.Victory {
			outcome = "victory"
		}
		b.WriteString(fmt.Sprintf("%d. %d points — best tile %d, %d moves, %s (session %s, %s)\n",
			i+1, e.Score, e.BestTile, e.TotalMoves, outcome, e.SessionID, e.RulesName))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Sliding Tile Game - Complete Instructions

GAME OBJECTIVE:
Slide tiles to merge equal values and build the win-target tile before
the board locks up.

GAME MECHANICS:
• Movement: up/down/left/right slides every tile as far as it can go
• Merging: two equal tiles that collide merge into their sum
• Scoring: each merge scores the value of the merged tile
• No chains: a tile merged this move cannot merge again until next move
• Merge ceiling: merges that would exceed the configured ceiling simply
  do not happen - those tiles stay side by side
• Spawning: after every move that changes the board, one new tile
  appears in a random empty cell (usually the base value, occasionally
  double)
• Blocked moves: if nothing can slide in the chosen direction, the move
  does not count and no tile spawns

VICTORY AND DEFEAT:
• Victory: build a tile equal to the win target (128 in classic rules)
• Game over: no direction can change the board

STRATEGY HINTS FOR AI AGENTS:
• Keep your largest tile in a corner and build descending chains
  toward it
• Prefer two perpendicular directions (e.g. left and down) and avoid
  the opposite pair unless forced
• A blocked move wastes a turn but costs nothing else - use cheap probe
  moves sparingly
• Under classic rules the merge ceiling equals the win target, so the
  winning merge is the largest merge possible - plan for exactly one
  128 and no more
• Use bulk_move for efficiency, then check possible_moves in the result
  before planning the next batch

MOVEMENT COMMANDS:
- up, down, left, right - Single slides in cardinal directions
- Bulk moves - Execute multiple moves in sequence for efficiency
- Reset parameter available for fresh starts

RULES FILES:
- classic: 4x4 board, win at 128, merge ceiling 128
- Other rules vary board size, win target and spawn behavior
- Use list_rules to see everything available

SESSION MANAGEMENT:
- Multiple game sessions can run simultaneously
- Each session has unique 4-character ID
- Sessions maintain independent state and rules
- Use session-specific tools for multi-game management

Good luck sliding!`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nRules: %s\nCreated: %s\n\n%s",
		session.ID, session.RulesName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

// formatGameState renders the board as aligned text with scores and status
func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	// Header (include cumulative total moves)
	result.WriteString(fmt.Sprintf("Score: %d | Best tile: %d | Moves: %d\n\n",
		state.Score, state.BestTile, state.TotalMoves))

	result.WriteString(formatGrid(state.Grid))

	// Status
	if state.GameOver {
		if state.Victory {
			result.WriteString("\nVICTORY!")
		} else {
			result.WriteString("\nGAME OVER")
		}
	}

	if state.Message != "" {
		result.WriteString(fmt.Sprintf("\nMessage: %s", state.Message))
	}

	return result.String()
}

// formatGrid renders the grid with a fixed cell width so columns line up
func formatGrid(grid engine.Grid) string {
	// Cell width fits the largest tile on the board
	width := 1
	for _, row := range grid {
		for _, v := range row {
			if l := len(fmt.Sprintf("%d", v)); l > width {
				width = l
			}
		}
	}

	var b strings.Builder
	for _, row := range grid {
		for x, v := range row {
			if x > 0 {
				b.WriteString(" ")
			}
			if v == 0 {
				b.WriteString(strings.Repeat(" ", width-1) + ".")
			} else {
				b.WriteString(fmt.Sprintf("%*d", width, v))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatMoveResult(direction string, result *service.MoveResult) string {
	response := ""
	if result.Success {
		response = fmt.Sprintf("Moved %s", direction)
		if result.ScoreGained > 0 {
			response += fmt.Sprintf(" (+%d points)", result.ScoreGained)
		}
		response += "\n"
	} else {
		response = fmt.Sprintf("Move %s blocked - nothing slid\n", direction)
	}

	if len(result.Events) > 0 {
		response += "Events:\n"
		for _, event := range result.Events {
			response += fmt.Sprintf("- %s: %s\n", event.Type, event.Message)
		}
	}

	response += "\n" + formatGameState(result.GameState)
	return response
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	// Session header
	rulesName := ""
	if result.GameState != nil {
		rulesName = result.GameState.RulesName
	}
	b.WriteString(fmt.Sprintf("Session: %s • Rules: %s\n", sessionID, rulesName))

	// Bulk summary
	b.WriteString(fmt.Sprintf("Executed %d/%d moves (score %d → %d, +%d)\n",
		result.MovesExecuted, result.RequestedMoves,
		result.StartScore, result.EndScore, result.ScoreDelta))
	if result.Truncated {
		b.WriteString(fmt.Sprintf("Request truncated to %d moves\n", result.Limit))
	}
	if result.StoppedReason != "" {
		b.WriteString(fmt.Sprintf("Stopped: %s\n", result.StoppedReason))
	}

	// Per-step summary
	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, s := range result.Steps {
			line := fmt.Sprintf("%d. %s", s.Idx, s.Dir)
			if s.ScoreGained > 0 {
				line += fmt.Sprintf(" +%d", s.ScoreGained)
			}
			if s.Victory {
				line += " VICTORY"
			} else if s.GameOver {
				line += " game over"
			}
			b.WriteString(line + "\n")
		}
	}

	// Events
	if len(result.Events) > 0 {
		b.WriteString("\nEvents:\n")
		for _, event := range result.Events {
			b.WriteString(fmt.Sprintf("- %s: %s\n", event.Type, event.Message))
		}
	}

	// Decision aid from final state
	if len(result.PossibleMoves) > 0 {
		b.WriteString("\nPossible moves: ")
		b.WriteString(strings.Join(result.PossibleMoves, ","))
		b.WriteString("\n")
	}

	// Full state at the end
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Move History (Page %d/%d) — Total (cumulative): %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for i, move := range history.Moves {
		num := (history.Page-1)*history.PageSize + i + 1
		status := "moved"
		if !move.Moved {
			status = "blocked"
		}
		line := fmt.Sprintf("%d. %s %s", num, move.Direction, status)
		if move.ScoreGained > 0 {
			line += fmt.Sprintf(" +%d", move.ScoreGained)
		}
		line += fmt.Sprintf(" [Score: %d]", move.Score)
		result += line + "\n"
	}

	return result
}
