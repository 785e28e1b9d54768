// Package mcp provides the Model Context Protocol surface for the memory
// pairs game.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for game operations
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - start_game: Start a new game session with optional key and theme
//   - get_status: Get the current board, attempts and completion state
//   - submit_move: Reveal two cards by grid position
//   - get_move_history: Retrieve the move log with pagination
//   - get_leaderboard: Ranked completed games with scores
//   - list_games: List all game sessions
//   - delete_game: Delete a game session
//   - game_instructions: Full game rules and strategy notes
//
// Architecture:
//
// The Client is a thin proxy: every tool call is translated into a REST
// request against the game server and the JSON response is rendered as
// text for the agent. Game rules live in one place (the service layer);
// the MCP surface never re-implements them.
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: POST /mcp endpoint on the game server
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// AI Integration:
//
// The MCP interface enables AI agents to play games autonomously: track
// revealed categories across moves, pair known cards, and compete on the
// leaderboard against other sessions.
package mcp
