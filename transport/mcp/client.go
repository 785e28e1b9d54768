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

	"github.com/WyzeTalkAssignment/memory-game-dev/game/engine"
	"github.com/WyzeTalkAssignment/memory-game-dev/game/service"
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
		"Memory Pairs Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Memory Pairs Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Find all 8 matching pairs on a 4x4 board of face-down cards. Each move
reveals two cards; matching categories stay face up, mismatches turn back
over. Fewer attempts and faster completion give a higher leaderboard score.

AVAILABLE TOOLS:
- start_game: Start a new game session
- get_status: Get the current board and progress
- submit_move: Reveal two cards by grid position (e.g. A1, C3)
- get_move_history: View past moves with pagination
- get_leaderboard: Ranked completed games
- list_games: List all game sessions
- delete_game: Delete a game session
- game_instructions: Get comprehensive game rules and strategy

Positions are a row letter A-D plus a column digit 1-4. Track what each
revealed card showed: a perfect memory finishes in 8-12 attempts.`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Start a new memory game session with optional key and theme",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_key": map[string]interface{}{
					"type":        "string",
					"description": "Session key to use (optional, generated when omitted)",
				},
				"theme": map[string]interface{}{
					"type":        "string",
					"description": "Card theme name (optional, e.g. animals, fruits)",
				},
			},
		},
	}, c.handleStartGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List all game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListGames)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_game",
		Description: "Delete a game session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_key": map[string]interface{}{
					"type":        "string",
					"description": "Session key of the game to delete",
				},
			},
			Required: []string{"session_key"},
		},
	}, c.handleDeleteGame)

	// Game play
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_status",
		Description: "Get the current board, attempts and completion state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_key": map[string]interface{}{
					"type":        "string",
					"description": "Session key",
				},
			},
			Required: []string{"session_key"},
		},
	}, c.handleGetStatus)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "submit_move",
		Description: "Reveal two cards by their grid positions (e.g. A1 and C3)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_key": map[string]interface{}{
					"type":        "string",
					"description": "Session key",
				},
				"cards": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
					},
					"description": "Exactly two grid positions, row letter A-D + column digit 1-4",
				},
			},
			Required: []string{"session_key", "cards"},
		},
	}, c.handleSubmitMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_move_history",
		Description: "Get the paginated move log for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_key": map[string]interface{}{
					"type":        "string",
					"description": "Session key",
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
			Required: []string{"session_key"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_leaderboard",
		Description: "Get the ranked list of completed games",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"max_attempts": map[string]interface{}{
					"type":        "integer",
					"description": "Only include games finished within this many attempts",
				},
			},
		},
	}, c.handleLeaderboard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game rules and strategy notes",
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

func (c *Client) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionKey, _ := args["session_key"].(string)
	theme, _ := args["theme"].(string)

	body := map[string]string{}
	if sessionKey != "" {
		body["sessionKey"] = sessionKey
	}
	if theme != "" {
		body["theme"] = theme
	}

	var status service.GameStatus
	err := c.apiCall("POST", "/games/start", body, &status)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Started game: %s\nTheme: %s\n\n%s",
		status.SessionKey, status.Theme, formatStatus(&status))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int                    `json:"count"`
		Games []*service.GameSummary `json:"games"`
	}

	err := c.apiCall("GET", "/games", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Games (%d):\n\n", response.Count)
	for _, g := range response.Games {
		state := "in progress"
		if g.IsCompleted {
			state = "completed"
		}
		result += fmt.Sprintf("- %s (theme: %s, attempts: %d, matched: %d/%d, %s)\n",
			g.SessionKey, g.Theme, g.Attempts, g.MatchedCount, engine.CategoryCount, state)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleDeleteGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionKey, _ := args["session_key"].(string)

	var response struct {
		Message string `json:"message"`
	}
	err := c.apiCall("DELETE", fmt.Sprintf("/games/%s", url.PathEscape(sessionKey)), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message), nil
}

func (c *Client) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionKey, _ := args["session_key"].(string)

	var status service.GameStatus
	err := c.apiCall("GET", fmt.Sprintf("/games/%s/status", url.PathEscape(sessionKey)), nil, &status)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatStatus(&status)), nil
}

func (c *Client) handleSubmitMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionKey, _ := args["session_key"].(string)
	cardsRaw, _ := args["cards"].([]interface{})

	cards := make([]string, 0, len(cardsRaw))
	for _, p := range cardsRaw {
		if pos, ok := p.(string); ok {
			cards = append(cards, pos)
		}
	}

	body := map[string]interface{}{
		"cards": cards,
	}

	var result service.MoveResult
	err := c.apiCall("POST", fmt.Sprintf("/games/%s/submit", url.PathEscape(sessionKey)), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionKey, _ := args["session_key"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var history service.HistoryPage
	err := c.apiCall("GET", fmt.Sprintf("/games/%s/history%s", url.PathEscape(sessionKey), params), nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}
	if maxAttempts, ok := args["max_attempts"].(float64); ok {
		params += fmt.Sprintf("maxAttempts=%d&", int(maxAttempts))
	}

	var board service.LeaderboardPage
	err := c.apiCall("GET", "/leaderboard"+params, nil, &board)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatLeaderboard(&board)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Memory Pairs Game - Complete Instructions

GAME OBJECTIVE:
Find all 8 matching pairs on a 4x4 board. The board holds 16 face-down
cards: 8 categories, each printed on exactly two cards.

BOARD LAYOUT:
Positions are a row letter followed by a column digit:

  A1 A2 A3 A4
  B1 B2 B3 B4
  C1 C2 C3 C4
  D1 D2 D3 D4

GAME MECHANICS:
- Each move submits exactly two distinct positions.
- Both cards are revealed; if their categories match they stay face up
  permanently, otherwise they turn back over.
- Every move counts as one attempt, matched or not.
- A card that is part of a matched pair cannot be selected again.
- The game completes when all 8 pairs are matched.

SCORING:
score = round((max(0, 1000 - 10*attempts) + max(0, 1000 - seconds)) / 2)
- A perfect game (8 attempts, instant) scores near 1000.
- The attempts component hits zero at 100 attempts; the time component
  hits zero at 1000 seconds.
- The leaderboard sorts by attempts first, then by the earlier finish.

STRATEGY FOR AGENTS:
1. Remember every category you reveal and its position.
2. When a newly revealed card matches something seen before, pair them
   on your next move.
3. Prefer revealing unseen positions over re-revealing known cards:
   information is worth more than a blind match attempt.
4. A perfect memory completes the game in at most 12 attempts on a
   16-card board; random play averages dozens.

MOVE SUBMISSION:
- submit_move with cards: ["A1", "C3"]
- Positions are case-insensitive ("a1" works).
- Submitting an already-matched card, a duplicate position, or a
  malformed position is rejected without changing the game.

SESSION MANAGEMENT:
- start_game with an optional session_key (lowercase letters, digits,
  '-' and '_') and an optional theme.
- Sessions persist across server restarts; completed games feed the
  leaderboard permanently.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

// formatStatus renders the board the way a player would see it: matched and
// revealed cards show their category, face-down cards show a dot.
func formatStatus(status *service.GameStatus) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Session: %s | Theme: %s | Attempts: %d | Matched: %d/%d pairs\n\n",
		status.SessionKey, status.Theme, status.Attempts,
		len(status.MatchedPairs), engine.CategoryCount))

	byPosition := make(map[engine.Position]service.CardView, len(status.Cards))
	for _, card := range status.Cards {
		byPosition[card.Position] = card
	}

	for _, row := range engine.GridRows {
		for col := 1; col <= engine.GridColumns; col++ {
			pos := engine.Position(fmt.Sprintf("%c%d", row, col))
			card := byPosition[pos]
			cell := "·"
			switch {
			case card.IsMatched:
				cell = fmt.Sprintf("[%s]", card.Category)
			case card.IsRevealed:
				cell = string(card.Category)
			}
			b.WriteString(fmt.Sprintf("%-4s %-12s", string(pos), cell))
		}
		b.WriteString("\n")
	}

	if status.IsCompleted {
		b.WriteString("\nGame completed!")
		if status.CompletionTime != nil {
			b.WriteString(fmt.Sprintf(" Time: %.1fs", float64(*status.CompletionTime)/1000))
		}
		if status.Score != nil {
			b.WriteString(fmt.Sprintf(" Score: %d", *status.Score))
		}
	} else {
		b.WriteString(fmt.Sprintf("\nRemaining unmatched cards: %d", status.Remaining))
	}

	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder

	if result.IsMatch {
		b.WriteString("MATCH\n")
	} else {
		b.WriteString("No match\n")
	}

	b.WriteString(fmt.Sprintf("%s = %s, %s = %s\n",
		result.Cards[0], result.Categories[0],
		result.Cards[1], result.Categories[1]))
	b.WriteString(fmt.Sprintf("Attempts: %d | Matched pairs: %d/%d | Remaining cards: %d\n",
		result.Attempts, result.MatchedCount, engine.CategoryCount, result.Remaining))
	b.WriteString(result.Message)

	if result.IsCompleted {
		if result.CompletionTime != nil {
			b.WriteString(fmt.Sprintf("\nCompletion time: %.1fs", float64(*result.CompletionTime)/1000))
		}
		if result.Score != nil {
			b.WriteString(fmt.Sprintf("\nScore: %d", *result.Score))
		}
	}

	return b.String()
}

func formatHistory(history *service.HistoryPage) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Move History for %s (Page %d/%d) — Total moves: %d\n\n",
		history.SessionKey, history.Page, history.TotalPages, history.TotalMoves))

	for i, move := range history.Moves {
		num := (history.Page-1)*history.PageSize + i + 1
		outcome := "miss"
		if move.IsMatch {
			outcome = "MATCH"
		}
		b.WriteString(fmt.Sprintf("%d. %s+%s (%s, %s) %s\n",
			num, move.Cards[0], move.Cards[1],
			move.Categories[0], move.Categories[1], outcome))
	}

	if len(history.Moves) == 0 {
		b.WriteString("(no moves yet)")
	}

	return b.String()
}

func formatLeaderboard(board *service.LeaderboardPage) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Leaderboard (Page %d/%d) — Completed games: %d\n\n",
		board.Page, board.TotalPages, board.TotalGames))

	for _, entry := range board.Entries {
		b.WriteString(fmt.Sprintf("%d. %s — score %d (attempts: %d, time: %.1fs)\n",
			entry.Rank, entry.SessionKey, entry.Score,
			entry.Attempts, float64(entry.CompletionTime)/1000))
	}

	if len(board.Entries) == 0 {
		b.WriteString("(no completed games yet)")
	}

	return b.String()
}
