package main

import "log"

// CornerStrategy plays a greedy one-ply lookahead that anchors the
// largest tile in the bottom-left corner. Directions are simulated
// locally (without spawns - the server is authoritative) and scored on
// merge gain, empty cells, and board shape. The opposite pair of the
// anchor (up, right) is only used when nothing else slides.
type CornerStrategy struct {
	// Preference order when simulations tie
	prefOrder []string

	// Directions the server reported as blocked since the last slide
	blocked map[string]bool

	lastScore  int
	stuckCount int
}

func NewCornerStrategy() *CornerStrategy {
	return &CornerStrategy{
		prefOrder: []string{"left", "down", "right", "up"},
		blocked:   make(map[string]bool),
	}
}

// NextMove picks the best direction for the current board, or "" when
// no direction can change anything.
func (s *CornerStrategy) NextMove(state *GameState) string {
	if state.Score > s.lastScore {
		s.lastScore = state.Score
		s.stuckCount = 0
	} else {
		s.stuckCount++
	}

	bestDir := ""
	bestScore := -1.0

	for _, dir := range s.prefOrder {
		if s.blocked[dir] {
			continue
		}

		after, moved, gained := simulate(state.Grid, dir)
		if !moved {
			continue
		}

		score := s.evaluate(after, gained, dir)
		if score > bestScore {
			bestScore = score
			bestDir = dir
		}
	}

	if bestDir != "" {
		s.blocked = make(map[string]bool)
		return bestDir
	}

	// Everything we tried was blocked; fall back to any direction the
	// server hasn't rejected yet
	for _, dir := range s.prefOrder {
		if !s.blocked[dir] {
			return dir
		}
	}

	log.Printf("⚠️  All four directions blocked")
	return ""
}

// NoteBlocked records a server-reported blocked move so the same
// direction isn't retried until something slides.
func (s *CornerStrategy) NoteBlocked(dir string) {
	s.blocked[dir] = true
}

func (s *CornerStrategy) Reset() {
	s.blocked = make(map[string]bool)
	s.lastScore = 0
	s.stuckCount = 0
}

// evaluate scores a simulated board. Higher is better.
func (s *CornerStrategy) evaluate(grid [][]int, gained int, dir string) float64 {
	score := float64(gained)

	// Open cells keep the game alive
	score += float64(countEmpty(grid)) * 2.0

	// Reward keeping the largest tile in the bottom-left corner
	rows := len(grid)
	maxVal := 0
	for _, row := range grid {
		for _, v := range row {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if rows > 0 && grid[rows-1][0] == maxVal {
		score += float64(maxVal)
	}

	// Monotone bottom row builds a clean merge chain into the corner
	if rows > 0 {
		bottom := grid[rows-1]
		mono := true
		for x := 1; x < len(bottom); x++ {
			if bottom[x] > bottom[x-1] {
				mono = false
				break
			}
		}
		if mono {
			score += float64(maxVal) / 2
		}
	}

	// Up and right break the corner anchor; discourage them slightly
	if dir == "up" || dir == "right" {
		score -= float64(maxVal) / 4
	}

	return score
}

// simulate applies one slide to a copy of the grid and reports the new
// grid, whether anything changed, and the merge score gained. Merges
// are single-pass with no chains. The merge ceiling is not known to
// the bot, so simulated gains can overestimate near the top tile.
func simulate(grid [][]int, dir string) ([][]int, bool, int) {
	rows := len(grid)
	if rows == 0 {
		return grid, false, 0
	}
	cols := len(grid[0])

	out := make([][]int, rows)
	for y := range grid {
		out[y] = make([]int, cols)
		copy(out[y], grid[y])
	}

	moved := false
	gained := 0

	// Walk each line in slide order and compact-and-merge into it
	switch dir {
	case "left":
		for y := 0; y < rows; y++ {
			line := make([]int, cols)
			for x := 0; x < cols; x++ {
				line[x] = out[y][x]
			}
			newLine, m, g := slideLine(line)
			for x := 0; x < cols; x++ {
				out[y][x] = newLine[x]
			}
			moved = moved || m
			gained += g
		}
	case "right":
		for y := 0; y < rows; y++ {
			line := make([]int, cols)
			for x := 0; x < cols; x++ {
				line[x] = out[y][cols-1-x]
			}
			newLine, m, g := slideLine(line)
			for x := 0; x < cols; x++ {
				out[y][cols-1-x] = newLine[x]
			}
			moved = moved || m
			gained += g
		}
	case "up":
		for x := 0; x < cols; x++ {
			line := make([]int, rows)
			for y := 0; y < rows; y++ {
				line[y] = out[y][x]
			}
			newLine, m, g := slideLine(line)
			for y := 0; y < rows; y++ {
				out[y][x] = newLine[y]
			}
			moved = moved || m
			gained += g
		}
	case "down":
		for x := 0; x < cols; x++ {
			line := make([]int, rows)
			for y := 0; y < rows; y++ {
				line[y] = out[rows-1-y][x]
			}
			newLine, m, g := slideLine(line)
			for y := 0; y < rows; y++ {
				out[rows-1-y][x] = newLine[y]
			}
			moved = moved || m
			gained += g
		}
	default:
		return out, false, 0
	}

	return out, moved, gained
}

// slideLine compacts a line toward index 0 and merges equal neighbors
// once each. Returns the new line, whether it changed, and the score.
func slideLine(line []int) ([]int, bool, int) {
	n := len(line)
	result := make([]int, n)
	write := 0
	pending := 0
	gained := 0

	for _, v := range line {
		if v == 0 {
			continue
		}
		if pending == 0 {
			pending = v
		} else if pending == v {
			merged := pending * 2
			result[write] = merged
			gained += merged
			write++
			pending = 0
		} else {
			result[write] = pending
			write++
			pending = v
		}
	}
	if pending != 0 {
		result[write] = pending
		write++
	}

	changed := false
	for i := 0; i < n; i++ {
		if result[i] != line[i] {
			changed = true
			break
		}
	}

	return result, changed, gained
}
