// Command analyze prints quick, human-readable heuristics about rules
// files in the project's configs directory. It summarizes board size,
// targets and spawn behavior, and estimates the merge work needed to
// build the win tile under the configured merge ceiling.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
)

// AnalysisRules is a light struct for reading rules files used by analysis.
type AnalysisRules struct {
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

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "summarize rules files and estimate how hard each one is",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Value: "configs",
				Usage: "directory containing rules JSON files",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.String("dir")

			files := cmd.Args().Slice()
			if len(files) == 0 {
				matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
				if err != nil {
					return err
				}
				files = matches
			} else {
				for i, f := range files {
					files[i] = filepath.Join(dir, f)
				}
			}

			if len(files) == 0 {
				return fmt.Errorf("no rules files found in %s", dir)
			}

			for _, file := range files {
				fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
				analyzeRules(file)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func analyzeRules(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		return
	}

	var rules AnalysisRules
	if err := json.Unmarshal(data, &rules); err != nil {
		fmt.Printf("Error parsing JSON: %v\n", err)
		return
	}

	cells := rules.Rows * rules.Cols
	fmt.Printf("Name: %s\n", rules.Name)
	fmt.Printf("Board: %d x %d (%d cells)\n", rules.Rows, rules.Cols, cells)
	fmt.Printf("Win Target: %d\n", rules.WinTarget)
	fmt.Printf("Merge Ceiling: %d\n", rules.MergeCeiling)
	fmt.Printf("Spawn: %d (%.0f%% chance of %d), %d start tiles\n",
		rules.SpawnValue, rules.SpawnBonusChance*100, rules.SpawnValue*2, rules.StartTiles)
	fmt.Printf("Expected spawn value: %.1f\n", expectedSpawn(rules.SpawnValue, rules.SpawnBonusChance))

	// How much merging stands between a fresh board and the win tile
	steps := mergeSteps(rules.SpawnValue, rules.WinTarget)
	fmt.Printf("Merge chain: %d doublings from %d to %d\n", steps, rules.SpawnValue, rules.WinTarget)
	fmt.Printf("Base tiles consumed by the win tile: %d\n", rules.WinTarget/rules.SpawnValue)
	fmt.Printf("Score from building the win tile (all-base spawns): %d\n", buildScore(rules.SpawnValue, rules.WinTarget))

	// Capacity check: the chain has to fit on the board
	needed := steps + 1
	if cells < needed {
		fmt.Printf("⚠️  WARNING: board too small! The %d-tile chain that builds %d cannot fit in %d cells\n",
			needed, rules.WinTarget, cells)
	} else {
		fmt.Printf("✅ Chain fits: %d cells needed, %d available (%d spare)\n", needed, cells, cells-needed)
	}

	// Ceiling headroom tells you what kind of game this is
	switch {
	case rules.MergeCeiling < rules.WinTarget:
		fmt.Printf("⚠️  WARNING: merge ceiling %d is below the win target %d - the game cannot be won\n",
			rules.MergeCeiling, rules.WinTarget)
	case rules.MergeCeiling == rules.WinTarget:
		fmt.Printf("✅ Ceiling equals win target: the winning merge is the largest merge possible\n")
	default:
		headroom := mergeSteps(rules.WinTarget, rules.MergeCeiling)
		fmt.Printf("✅ Ceiling headroom: %d doublings past the win target before merges stop\n", headroom)
	}
}

// mergeSteps counts the doublings needed to grow from into target.
func mergeSteps(from, target int) int {
	if from <= 0 {
		return 0
	}
	steps := 0
	for v := from; v < target; v *= 2 {
		steps++
	}
	return steps
}

// expectedSpawn is the mean value of one spawned tile.
func expectedSpawn(value int, bonusChance float64) float64 {
	return float64(value)*(1-bonusChance) + float64(value*2)*bonusChance
}

// buildScore is the total score accrued while merging base-value tiles
// all the way up to target. Every intermediate tile of value v scores v
// when created, which telescopes to target * doublings.
func buildScore(spawn, target int) int {
	if spawn <= 0 || target <= spawn {
		return 0
	}
	return target * mergeSteps(spawn, target)
}
