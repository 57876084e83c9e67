// Package websocket provides WebSocket transport for the sliding tile game.
//
// The websocket package implements:
//   - Real-time board updates pushed to spectators
//   - Session-aware WebSocket connections
//   - Automatic state broadcasting on changes
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// goroutine that manages reading, writing, and cleanup.
//
// Message Protocol:
//
// Messages are JSON-encoded with the following structure:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//
// Connections are read-only: moves are submitted over the REST API, and
// the resulting state is broadcast here. Custom events (merge, victory,
// game_over) use the same envelope with the event name and a data field.
//
// Session Integration:
//
// WebSocket connections are session-aware. Clients specify their session ID
// via query parameter (?session=ab12) when establishing the connection.
// State updates are broadcast only to clients connected to the same session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// after a move
//	hub.BroadcastToSession(sessionID, state)
//
// Concurrency:
//
// The hub and client handlers are designed for concurrent operation.
// Multiple clients can connect, disconnect, and receive messages
// simultaneously without blocking each other.
package websocket
