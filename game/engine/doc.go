// Package engine provides the core game logic for the sliding-tile
// merge game.
//
// The engine package implements the game mechanics including:
//   - Pure directional moves with the classic compact-and-merge rule
//   - Orientation normalization via grid rotation
//   - Merge ceiling and win target handling
//   - Game state management and persistence
//   - Rules loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState represents the current game
// state, while Rules defines the board dimensions, targets and spawn
// distribution loaded from JSON files.
//
// The heart of the package is three pure functions: Rotate, Move and
// Reached. Move reduces every direction to a leftward slide by rotating
// the grid, compacts and merges each row in a single pass, and rotates
// the result back. These functions never mutate their input and always
// return freshly built grids, so concurrent callers with separate grids
// cannot interfere.
//
// Usage:
//
//	rules := engine.DefaultRules()
//	gameEngine, err := engine.NewEngine(rules)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Slide the board
//	moved := gameEngine.Move("left")
//	state := gameEngine.GetState()
//
// Game Rules:
//
// Tiles slide as far as they can in the chosen direction. Two adjacent
// equal tiles merge into one of double the value, scoring that value,
// unless the doubled value would exceed the configured merge ceiling;
// such merges simply do not happen and the tiles block each other. A
// tile created by a merge never merges again within the same move. The
// game is won when any tile reaches the win target and lost when no
// direction can change the board.
package engine
