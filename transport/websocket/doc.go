// Package websocket provides live game updates for the memory pairs game.
//
// The websocket package implements:
//   - Per-session move broadcasting
//   - Connection lifecycle management
//   - Ping/pong keepalive
//   - Slow-client protection via buffered send channels
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// pair of goroutines (readPump/writePump) that manage reading, writing,
// and cleanup.
//
// Message Protocol:
//
// Messages are JSON-encoded. Every resolved move is broadcast as:
//
//	{"sessionKey": "...", "event": "move_resolved", "moveResult": {...}}
//
// and completing a game additionally broadcasts:
//
//	{"sessionKey": "...", "event": "game_completed", "data": {...}}
//
// Clients do not send game commands over the socket; moves go through the
// REST API and the socket only carries updates.
//
// Session Integration:
//
// Clients subscribe to one session by connecting to /ws?session={sessionKey}.
// Updates are broadcast only to clients watching that session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	server := api.NewServer(gameService, hub)
//
// Concurrency:
//
// The hub event loop serializes register/unregister/broadcast operations.
// A client whose send buffer is full is dropped rather than allowed to
// stall the broadcast.
package websocket
