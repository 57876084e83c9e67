package engine

// slideRowLeft compacts and merges a single row toward the left in one
// left-to-right scan. A pending slot holds the last unmatched tile: a
// matching tile merges with it into double the value, anything else
// flushes it to the output. A merged tile never merges again within the
// same pass, and a merge whose result would exceed ceiling is skipped
// entirely, leaving both tiles in place relative to each other.
//
// gained is the sum of the values produced by merges, not of the tiles
// consumed by them.
func slideRowLeft(row []int, ceiling int) (out []int, moved bool, gained int) {
	out = make([]int, 0, len(row))
	pending := 0

	for _, v := range row {
		if v == 0 {
			continue
		}
		switch {
		case pending == 0:
			pending = v
		case pending == v && 2*v <= ceiling:
			out = append(out, 2*v)
			gained += 2 * v
			pending = 0
		default:
			out = append(out, pending)
			pending = v
		}
	}
	if pending != 0 {
		out = append(out, pending)
	}
	for len(out) < len(row) {
		out = append(out, 0)
	}

	for i := range row {
		if out[i] != row[i] {
			moved = true
			break
		}
	}
	return out, moved, gained
}

// Move applies one directional move to the grid under the given merge
// ceiling and returns the resulting grid, whether anything moved, and
// the score gained from merges. The input grid is treated as read-only;
// the outcome always carries a freshly built grid.
//
// The grid is rotated so the move becomes a leftward slide, every row is
// compacted independently, and the result is rotated back. An unknown
// direction yields an unchanged copy with Moved=false.
func Move(g Grid, direction string, ceiling int) MoveOutcome {
	fwd, ok := forwardRotation[direction]
	if !ok {
		return MoveOutcome{Grid: CloneGrid(g)}
	}

	rotated := Rotate(g, fwd)
	result := make(Grid, len(rotated))
	moved := false
	gained := 0

	for i, row := range rotated {
		newRow, m, rowGained := slideRowLeft(row, ceiling)
		result[i] = newRow
		moved = moved || m
		gained += rowGained
	}

	return MoveOutcome{
		Grid:        Rotate(result, reverseRotation[direction]),
		Moved:       moved,
		ScoreGained: gained,
	}
}

// Reached reports whether any tile on the grid has reached the target
// value. The caller uses it to flag the terminal (win) state.
func Reached(g Grid, target int) bool {
	for _, row := range g {
		for _, v := range row {
			if v != 0 && v >= target {
				return true
			}
		}
	}
	return false
}
