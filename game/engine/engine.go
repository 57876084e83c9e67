package engine

import (
	"fmt"
	"strings"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	IsGameOver() bool
	IsVictory() bool
	GetScore() int
	GetBestTile() int

	// Movement operations
	Move(direction string) bool
	CanMove(direction string) bool
	GetPossibleMoves() []string

	// Configuration
	GetRules() *Rules
	SetRules(rules *Rules) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface. The sliding and merging
// itself lives in the pure functions Move, Rotate and Reached; this
// type adds the stateful shell around them: score accumulation, tile
// spawning after accepted moves, terminal detection, and history.
type GameEngine struct {
	state   *GameState
	rules   *Rules
	spawner Spawner
}

// NewEngine creates a new game engine with the provided rules
func NewEngine(rules *Rules) (*GameEngine, error) {
	return NewEngineWithSpawner(rules, NewRandSpawner())
}

// NewEngineWithSpawner creates a new game engine with the provided rules
// and tile spawner
func NewEngineWithSpawner(rules *Rules, spawner Spawner) (*GameEngine, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}
	if spawner == nil {
		spawner = NewRandSpawner()
	}

	return &GameEngine{
		rules:   rules,
		spawner: spawner,
		state:   InitGameStateFromRules(rules, spawner),
	}, nil
}

// NewEngineWithDefaults creates a new game engine with the classic rules
func NewEngineWithDefaults() *GameEngine {
	rules := DefaultRules()
	spawner := NewRandSpawner()
	return &GameEngine{
		rules:   rules,
		spawner: spawner,
		state:   InitGameStateFromRules(rules, spawner),
	}
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState sets the game state (used for persistence loading)
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	e.state = state
	return nil
}

// Reset resets the game to initial state
func (e *GameEngine) Reset() *GameState {
	// Preserve cumulative history and totals across resets
	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves

	e.state = InitGameStateFromRules(e.rules, e.spawner)

	// Restore cumulative history and totals; clear only the current segment
	e.state.MoveHistory = prevHistory
	e.state.TotalMoves = prevTotal
	e.state.CurrentMoves = []MoveHistoryEntry{}
	e.state.CurrentMovesCount = 0

	return e.state
}

// IsGameOver returns whether the game is over
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameOver
}

// IsVictory returns whether the player has won
func (e *GameEngine) IsVictory() bool {
	return e.state.Victory
}

// GetScore returns the current score
func (e *GameEngine) GetScore() int {
	return e.state.Score
}

// GetBestTile returns the largest tile reached so far
func (e *GameEngine) GetBestTile() int {
	return e.state.BestTile
}

// Move attempts to slide the board in the specified direction. It
// returns true when at least one tile moved. On an accepted move the
// spawner places a new tile, the score accumulates the merge gains,
// and terminal conditions are re-evaluated.
func (e *GameEngine) Move(direction string) bool {
	if e.state.GameOver || !IsValidDirection(direction) {
		return false
	}

	outcome := Move(e.state.Grid, direction, e.rules.MergeCeiling)
	if !outcome.Moved {
		e.state.Message = e.rules.Messages.Blocked
		e.addMoveToHistory(direction, false, 0)
		return false
	}

	grid := outcome.Grid
	if next, ok := e.spawner.Spawn(grid, e.rules); ok {
		grid = next
	}

	e.state.Grid = grid
	e.state.Score += outcome.ScoreGained
	if best := MaxTile(grid); best > e.state.BestTile {
		e.state.BestTile = best
	}
	e.state.Message = ""

	if Reached(grid, e.rules.WinTarget) {
		e.state.Victory = true
		e.state.GameOver = true
		e.state.Message = victoryMessage(e.rules.Messages.Victory, e.state.BestTile)
	} else if !e.anyMovePossible() {
		e.state.GameOver = true
		e.state.Message = e.rules.Messages.GameOver
	}

	e.addMoveToHistory(direction, true, outcome.ScoreGained)
	return true
}

// victoryMessage renders the configured victory message. Messages may
// carry a single %d for the winning tile; verb-free messages are used
// as-is.
func victoryMessage(msg string, tile int) string {
	if strings.Contains(msg, "%d") {
		return fmt.Sprintf(msg, tile)
	}
	return msg
}

// CanMove checks if sliding in the specified direction would change the board
func (e *GameEngine) CanMove(direction string) bool {
	if e.state.GameOver || !IsValidDirection(direction) {
		return false
	}
	return Move(e.state.Grid, direction, e.rules.MergeCeiling).Moved
}

// GetPossibleMoves returns all directions that would change the board
func (e *GameEngine) GetPossibleMoves() []string {
	var possible []string
	for _, dir := range Directions {
		if e.CanMove(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// GetRules returns the current game rules
func (e *GameEngine) GetRules() *Rules {
	return e.rules
}

// SetRules sets new game rules and resets the game
func (e *GameEngine) SetRules(rules *Rules) error {
	if err := ValidateRules(rules); err != nil {
		return err
	}

	e.rules = rules
	e.state = InitGameStateFromRules(rules, e.spawner)
	return nil
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}

// BulkMove executes multiple moves in sequence, returning success status for each
func (e *GameEngine) BulkMove(moves []string) []bool {
	results := make([]bool, 0, len(moves))

	for _, direction := range moves {
		// Stop if game is over
		if e.IsGameOver() {
			break
		}

		results = append(results, e.Move(direction))
	}

	return results
}

// anyMovePossible reports whether any of the four directions would
// change the board. A full board with no ceiling-legal merge left in
// either axis has no possible move.
func (e *GameEngine) anyMovePossible() bool {
	for _, dir := range Directions {
		if Move(e.state.Grid, dir, e.rules.MergeCeiling).Moved {
			return true
		}
	}
	return false
}

// addMoveToHistory appends a move record to both history segments
func (e *GameEngine) addMoveToHistory(direction string, moved bool, gained int) {
	entry := MoveHistoryEntry{
		Direction:   direction,
		Moved:       moved,
		ScoreGained: gained,
		Score:       e.state.Score,
		Timestamp:   time.Now().Unix(),
		MoveNumber:  e.state.TotalMoves + 1,
	}
	// Append to cumulative history (never cleared by reset) and increment total
	e.state.MoveHistory = append(e.state.MoveHistory, entry)
	e.state.TotalMoves++

	// Append to current segment history and increment its counter
	e.state.CurrentMoves = append(e.state.CurrentMoves, entry)
	e.state.CurrentMovesCount++
}
