// Command validate provides a small CLI that validates game rules JSON
// files in the ../configs directory. It checks:
//   - JSON structure and required fields
//   - Board dimensions within the supported range
//   - Spawn distribution (power-of-two value, probability in [0,1])
//   - Win target and merge ceiling (powers of two, ceiling >= target)
//   - Presence of the required message strings
//   - Capacity: the board has enough cells to hold the merge chain that
//     builds the win tile from spawned tiles
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Rules mirrors the JSON schema for a rules file.
type Rules struct {
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	Rows             int               `json:"rows"`
	Cols             int               `json:"cols"`
	WinTarget        int               `json:"win_target"`
	MergeCeiling     int               `json:"merge_ceiling"`
	SpawnValue       int               `json:"spawn_value"`
	SpawnBonusChance float64           `json:"spawn_bonus_chance"`
	StartTiles       int               `json:"start_tiles"`
	Messages         map[string]string `json:"messages"`
}

const (
	minGridSize   = 2
	maxGridSize   = 16
	minSpawnValue = 2
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// validateRules loads and validates a single rules JSON file. It performs
// structural checks, message presence, and merge-chain capacity analysis.
func validateRules(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var rules Rules
	if err := json.Unmarshal(data, &rules); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	// Required fields
	if rules.Name == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Missing required field: name")
	}
	if rules.Description == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Missing required field: description")
	}

	// Board dimensions
	if rules.Rows < minGridSize || rules.Rows > maxGridSize {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("rows must be between %d and %d, got %d", minGridSize, maxGridSize, rules.Rows))
	}
	if rules.Cols < minGridSize || rules.Cols > maxGridSize {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("cols must be between %d and %d, got %d", minGridSize, maxGridSize, rules.Cols))
	}

	// Spawn distribution
	if rules.SpawnValue < minSpawnValue || !isPowerOfTwo(rules.SpawnValue) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("spawn_value must be a power of two >= %d, got %d", minSpawnValue, rules.SpawnValue))
	}
	if rules.SpawnBonusChance < 0 || rules.SpawnBonusChance > 1 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("spawn_bonus_chance must be between 0 and 1, got %v", rules.SpawnBonusChance))
	}
	if rules.Rows > 0 && rules.Cols > 0 {
		if rules.StartTiles < 1 || rules.StartTiles > rules.Rows*rules.Cols {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("start_tiles must be between 1 and %d, got %d", rules.Rows*rules.Cols, rules.StartTiles))
		}
	}

	// Targets
	if !isPowerOfTwo(rules.WinTarget) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("win_target must be a power of two, got %d", rules.WinTarget))
	}
	if !isPowerOfTwo(rules.MergeCeiling) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("merge_ceiling must be a power of two, got %d", rules.MergeCeiling))
	}
	if isPowerOfTwo(rules.WinTarget) && isPowerOfTwo(rules.SpawnValue) && rules.WinTarget <= rules.SpawnValue {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("win_target (%d) must be larger than spawn_value (%d)", rules.WinTarget, rules.SpawnValue))
	}
	// A ceiling below the win target makes the win tile impossible to build
	if isPowerOfTwo(rules.WinTarget) && isPowerOfTwo(rules.MergeCeiling) && rules.MergeCeiling < rules.WinTarget {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("merge_ceiling (%d) must be at least win_target (%d)", rules.MergeCeiling, rules.WinTarget))
	}

	// Validate messages
	requiredMessages := []string{
		"welcome",
		"victory",
		"game_over",
		"blocked",
	}
	for _, msg := range requiredMessages {
		if rules.Messages[msg] == "" {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Missing required message: %s", msg))
		}
	}

	// The victory message may interpolate the winning tile with a
	// single %d; any other verb would render corrupted
	if victory := rules.Messages["victory"]; strings.Contains(victory, "%d") {
		if strings.Count(victory, "%d") > 1 || strings.Contains(strings.ReplaceAll(victory, "%d", ""), "%") {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Victory message may use %%d at most once and no other verbs: %s", victory))
		}
	}

	// Capacity validation - the board must fit the merge chain
	if result.Valid {
		capacityResult := validateCapacity(&rules)
		if !capacityResult.Valid {
			result.Valid = false
			result.Errors = append(result.Errors, capacityResult.Errors...)
		} else {
			result.Errors = append(result.Errors, capacityResult.Errors...)
		}
	}

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", rules.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Board: %dx%d (%d cells)", rules.Rows, rules.Cols, rules.Rows*rules.Cols))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Win target: %d", rules.WinTarget))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Merge ceiling: %d", rules.MergeCeiling))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Spawn: %d (%.0f%% chance of %d)", rules.SpawnValue, rules.SpawnBonusChance*100, rules.SpawnValue*2))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Start tiles: %d", rules.StartTiles))
	}

	return result
}

// mergeChainLength counts the doublings needed to build target from spawn.
func mergeChainLength(spawn, target int) int {
	steps := 0
	for v := spawn; v < target; v *= 2 {
		steps++
	}
	return steps
}

// validateCapacity ensures the board has enough cells to hold the
// descending chain of tiles (spawn, 2*spawn, ..., target/2) plus the
// incoming merge partner that builds the win tile. A board smaller than
// that chain can never produce the win target, no matter the play.
func validateCapacity(rules *Rules) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	cells := rules.Rows * rules.Cols
	steps := mergeChainLength(rules.SpawnValue, rules.WinTarget)

	// Building the target requires every intermediate value on the board
	// at once in the worst case: one tile per doubling step, plus the
	// spawned partner that starts the cascade.
	needed := steps + 1
	if cells < needed {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Capacity failure: building %d from %d needs %d cells, board has %d", rules.WinTarget, rules.SpawnValue, needed, cells))
		return result
	}

	result.Errors = append(result.Errors, fmt.Sprintf("✓ Capacity: %d-step merge chain fits in %d cells", steps, cells))
	return result
}

// main scans ../configs for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	rulesDir := "../configs"
	files, err := filepath.Glob(filepath.Join(rulesDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding rules files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateRules(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All rules files are valid!")
	} else {
		fmt.Println("❌ Some rules files have errors")
		os.Exit(1)
	}
}
