// Package service provides the business logic layer for the memory pairs game.
//
// The service package implements:
//   - Multi-session game management
//   - Theme selection and card deck creation
//   - Move processing and pair resolution
//   - Paginated move history
//   - Leaderboard assembly and scoring
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ThemeCatalog loads and validates card themes.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine, providing session isolation, theme management, and business
// logic orchestration. Each session owns an independent game state and a
// per-session lock, so moves against different sessions never contend.
//
// Usage:
//
//	store, _ := session.NewFileStore("sessions")
//	sessionMgr := session.NewManager(store)
//	themes := config.NewManager("themes")
//	gameService := service.NewGameService(sessionMgr, themes)
//
//	// Start a new game
//	status, err := gameService.StartGame(ctx, service.StartGameRequest{Theme: "animals"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Flip a pair of cards
//	result, err := gameService.SubmitMove(ctx, status.SessionKey, []string{"A1", "C3"})
//
// Errors:
//
// All failures are returned as *Error with a Code (not_found, invalid_input,
// internal) so transports can map them to status codes without string
// matching. CodeOf extracts the code from any error in a chain.
package service
