package engine

// NewGrid creates an empty rows x cols grid
func NewGrid(rows, cols int) Grid {
	g := make(Grid, rows)
	for i := range g {
		g[i] = make([]int, cols)
	}
	return g
}

// CloneGrid returns a deep copy of the grid. Engine operations never
// alias their input into their output, so callers can safely keep and
// mutate what they get back.
func CloneGrid(g Grid) Grid {
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = make([]int, len(row))
		copy(out[i], row)
	}
	return out
}

// GridsEqual reports cell-wise equality of two grids, dimensions included
func GridsEqual(a, b Grid) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

// EmptyCells returns the coordinates of every empty cell as [row, col] pairs
func EmptyCells(g Grid) [][2]int {
	var cells [][2]int
	for r, row := range g {
		for c, v := range row {
			if v == 0 {
				cells = append(cells, [2]int{r, c})
			}
		}
	}
	return cells
}

// CountEmpty returns the number of empty cells in the grid
func CountEmpty(g Grid) int {
	count := 0
	for _, row := range g {
		for _, v := range row {
			if v == 0 {
				count++
			}
		}
	}
	return count
}

// MaxTile returns the largest tile value on the grid, 0 for an empty grid
func MaxTile(g Grid) int {
	max := 0
	for _, row := range g {
		for _, v := range row {
			if v > max {
				max = v
			}
		}
	}
	return max
}

// TileSum returns the sum of all tile values on the grid
func TileSum(g Grid) int {
	sum := 0
	for _, row := range g {
		for _, v := range row {
			sum += v
		}
	}
	return sum
}

// IsPowerOfTwo reports whether v is a positive power of two (2, 4, 8, ...)
func IsPowerOfTwo(v int) bool {
	return v >= 2 && v&(v-1) == 0
}
