package engine

import (
	"fmt"
	"strings"
)

// ValidateRules validates a rules configuration for correctness and playability
func ValidateRules(rules *Rules) error {
	// Validate required fields
	if rules.Name == "" {
		return fmt.Errorf("rules validation: name is required")
	}
	if rules.Description == "" {
		return fmt.Errorf("rules validation: description is required")
	}

	// Validate grid dimensions
	if rules.Rows < MinGridSize || rules.Rows > MaxGridSize {
		return fmt.Errorf("rules validation: rows must be between %d and %d, got %d", MinGridSize, MaxGridSize, rules.Rows)
	}
	if rules.Cols < MinGridSize || rules.Cols > MaxGridSize {
		return fmt.Errorf("rules validation: cols must be between %d and %d, got %d", MinGridSize, MaxGridSize, rules.Cols)
	}

	// Validate spawn distribution
	if rules.SpawnValue < MinSpawnValue || !IsPowerOfTwo(rules.SpawnValue) {
		return fmt.Errorf("rules validation: spawn_value must be a power of two >= %d, got %d", MinSpawnValue, rules.SpawnValue)
	}
	if rules.SpawnBonusChance < 0 || rules.SpawnBonusChance > 1 {
		return fmt.Errorf("rules validation: spawn_bonus_chance must be between 0 and 1, got %v", rules.SpawnBonusChance)
	}
	if rules.StartTiles < 1 || rules.StartTiles > rules.Rows*rules.Cols {
		return fmt.Errorf("rules validation: start_tiles must be between 1 and %d, got %d", rules.Rows*rules.Cols, rules.StartTiles)
	}

	// Validate targets
	if !IsPowerOfTwo(rules.WinTarget) {
		return fmt.Errorf("rules validation: win_target must be a power of two, got %d", rules.WinTarget)
	}
	if !IsPowerOfTwo(rules.MergeCeiling) {
		return fmt.Errorf("rules validation: merge_ceiling must be a power of two, got %d", rules.MergeCeiling)
	}
	if rules.WinTarget <= rules.SpawnValue {
		return fmt.Errorf("rules validation: win_target (%d) must be larger than spawn_value (%d)", rules.WinTarget, rules.SpawnValue)
	}
	// A ceiling below the win target makes the win tile impossible to build
	if rules.MergeCeiling < rules.WinTarget {
		return fmt.Errorf("rules validation: merge_ceiling (%d) must be at least win_target (%d)", rules.MergeCeiling, rules.WinTarget)
	}

	// The victory message may interpolate the winning tile with a
	// single %d; any other verb would render corrupted
	if msg := rules.Messages.Victory; strings.Contains(msg, "%d") {
		if strings.Count(msg, "%d") > 1 || strings.Contains(strings.ReplaceAll(msg, "%d", ""), "%") {
			return fmt.Errorf("rules validation: victory message may use %%d at most once and no other verbs, got %q", msg)
		}
	}

	return nil
}

// InitGameStateFromRules creates the initial game state: an empty grid
// with the configured number of start tiles placed by the spawner.
// A nil rules or spawner falls back to defaults.
func InitGameStateFromRules(rules *Rules, spawner Spawner) *GameState {
	if rules == nil {
		rules = DefaultRules()
	}
	if spawner == nil {
		spawner = NewRandSpawner()
	}

	grid := NewGrid(rules.Rows, rules.Cols)
	for i := 0; i < rules.StartTiles; i++ {
		next, ok := spawner.Spawn(grid, rules)
		if !ok {
			break
		}
		grid = next
	}

	return &GameState{
		Grid:         grid,
		Score:        0,
		BestTile:     MaxTile(grid),
		Message:      rules.Messages.Welcome,
		RulesName:    rules.Name,
		MoveHistory:  []MoveHistoryEntry{},
		CurrentMoves: []MoveHistoryEntry{},
	}
}

// DefaultRules returns the classic reach-128 rules: a 4x4 board where
// both the win target and the merge ceiling are 128
func DefaultRules() *Rules {
	rules := &Rules{
		Name:             "classic",
		Description:      "Classic 4x4 board, reach 128 to win",
		Rows:             4,
		Cols:             4,
		WinTarget:        128,
		MergeCeiling:     128,
		SpawnValue:       2,
		SpawnBonusChance: 0.1,
		StartTiles:       2,
	}
	rules.Messages.Welcome = "Slide tiles with up/down/left/right. Merge equal tiles to reach 128!"
	rules.Messages.Victory = "You reached %d. Victory!"
	rules.Messages.GameOver = "No moves left. Game over."
	rules.Messages.Blocked = "Nothing moved. Try another direction."
	return rules
}
