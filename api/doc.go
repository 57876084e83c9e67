// Package api implements the REST API server for the sliding tile game.
//
// Routes:
//
//	POST   /api/sessions                  create a new game session
//	GET    /api/sessions                  list sessions (sort, order, limit)
//	GET    /api/sessions/{id}             get session info
//	DELETE /api/sessions/{id}             delete a session
//	GET    /api/sessions/{id}/state       current game state
//	POST   /api/sessions/{id}/move        execute one move
//	POST   /api/sessions/{id}/bulk-move   execute a sequence of moves
//	POST   /api/sessions/{id}/reset       reset the game
//	GET    /api/sessions/{id}/history     paginated move history
//	GET    /api/rules                     list available rules files
//	POST   /api/rules                     save a rules file
//	GET    /api/rules/{name}              get a rules file
//	GET    /api/leaderboard               top finished games
//	GET    /healthz                       health check
//	GET    /metrics                       Prometheus metrics
//	GET    /ws?session={id}               WebSocket state updates
//
// Responses are JSON. Errors come back as {"error": "..."} with an
// appropriate status code: 400 for malformed input or an invalid
// direction, 404 for unknown sessions or rules, 500 otherwise.
//
// After a successful move the new game state is broadcast to every
// WebSocket client watching the session, and move counters are recorded
// in the Prometheus registry served at /metrics.
package api
