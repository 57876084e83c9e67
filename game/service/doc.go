// Package service provides the business logic layer for the sliding
// tile game server.
//
// The service package implements:
//   - Multi-session game management
//   - Rules management and loading
//   - Move processing and validation
//   - Session lifecycle management
//   - Move history tracking
//   - Leaderboard recording for finished games
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// RulesManager manages rules loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine, providing session isolation, rules management, and
// business logic orchestration. Each session maintains its own game engine
// instance with independent state.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	rulesMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, rulesMgr, scores)
//
//	// Create a new session
//	sessionInfo, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Execute moves
//	result, err := gameService.Move(ctx, sessionInfo.ID, "left", false)
//
// Session Management:
//
// Sessions are identified by unique 4-character IDs and maintain independent
// game state. Multiple sessions can run concurrently with different rules.
// Sessions track creation time, last access time, and move history for
// analytics and debugging. When a game ends the final score is recorded on
// the leaderboard; recording failures never interrupt play.
package service
