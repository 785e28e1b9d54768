// Package api provides the HTTP REST surface for the memory pairs game.
//
// The api package implements:
//   - Game lifecycle endpoints (start, status, delete, list)
//   - Move submission
//   - Paginated move history
//   - Leaderboard queries over completed games
//   - Theme listing
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Game lifecycle:
//   - POST /games/start - Start a new game (optional sessionKey and theme)
//   - GET /games - List all games
//   - GET /games/{sessionKey}/status - Current game status
//   - DELETE /games/{sessionKey} - Delete a game
//
// Game play:
//   - POST /games/{sessionKey}/submit - Reveal two cards
//   - GET /games/{sessionKey}/history - Paginated move log
//
// Rankings:
//   - GET /leaderboard - Scored, sorted completed games
//
// Themes:
//   - GET /themes - Available card themes
//
// Operational:
//   - GET /health - Liveness probe
//   - GET /ws?session={sessionKey} - WebSocket live updates
//
// Request/Response Format:
//
// All endpoints accept and return JSON. A move submission looks like:
//
//	{
//	  "cards": ["A1", "C3"]
//	}
//
// Pagination uses page/limit query parameters; the leaderboard additionally
// accepts minAttempts, maxAttempts, minCompletionTime and maxCompletionTime
// filters. Malformed query parameters are rejected with 400 before any game
// state is touched.
//
// Error Handling:
//
// Errors are returned as JSON with the status derived from the service
// error code (not_found -> 404, invalid_input -> 400, internal -> 500):
//
//	{
//	  "error": "error message"
//	}
package api
