// Package mcp provides Model Context Protocol server implementation for the Sliding Tile Game.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for game operations
//   - Thin proxying to the REST API server
//   - Stdio transport for local MCP clients
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - game_state: Get current board with grid visualization
//   - move: Slide tiles in a single direction
//   - bulk_move: Execute multiple slides in sequence
//   - reset_game: Reset game to initial state
//   - move_history: Retrieve move history with pagination
//   - create_session: Create new game session with rules selection
//   - get_session: Get specific session details
//   - list_sessions: List all active sessions
//   - list_rules: List available rules files
//   - leaderboard: Show top finished games
//   - game_instructions: Comprehensive rules and strategy reference
//
// Architecture:
//
// The client holds no game state of its own. Every tool call translates
// to an HTTP request against the REST API, so the MCP process and the
// web UI always observe the same sessions. Tool results render the
// numeric board as aligned text so agents can read tile positions.
//
// Intent Parameter:
//
// The move and bulk_move tools accept an optional intent string. It is
// never sent to the server; asking agents to articulate their plan
// before each move measurably improves their play.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// AI Integration:
//
// The MCP interface enables AI agents to:
//   - Autonomously play the game
//   - Develop and test merge strategies
//   - Analyze board states and plan move sequences
//   - Manage multiple game sessions
//   - Learn from move history and the leaderboard
package mcp
