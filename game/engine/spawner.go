package engine

import (
	"math/rand"
	"sync"
	"time"
)

// Spawner places a new tile on a grid after an accepted move. It is the
// only source of randomness in the game: the pure move functions never
// touch it, which keeps them deterministic and trivially testable.
//
// Spawn must treat the input grid as read-only and return a fresh grid.
// It returns false when the grid has no empty cell.
type Spawner interface {
	Spawn(g Grid, rules *Rules) (Grid, bool)
}

// randSpawner picks a uniformly random empty cell and fills it with
// the rules' spawn value, or double that value with the configured
// bonus chance (90%/10% in the classic rules).
type randSpawner struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandSpawner creates a Spawner seeded from the current time
func NewRandSpawner() Spawner {
	return &randSpawner{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewSeededSpawner creates a Spawner with a fixed seed, useful for
// reproducing games
func NewSeededSpawner(seed int64) Spawner {
	return &randSpawner{
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (s *randSpawner) Spawn(g Grid, rules *Rules) (Grid, bool) {
	cells := EmptyCells(g)
	if len(cells) == 0 {
		return CloneGrid(g), false
	}

	s.mu.Lock()
	cell := cells[s.rng.Intn(len(cells))]
	value := rules.SpawnValue
	if s.rng.Float64() < rules.SpawnBonusChance {
		value = 2 * rules.SpawnValue
	}
	s.mu.Unlock()

	out := CloneGrid(g)
	out[cell[0]][cell[1]] = value
	return out, true
}

// FixedSpawner fills empty cells in row-major order with a fixed value.
// It exists for tests that need fully deterministic board evolution.
type FixedSpawner struct {
	Value int
}

func (s *FixedSpawner) Spawn(g Grid, rules *Rules) (Grid, bool) {
	cells := EmptyCells(g)
	if len(cells) == 0 {
		return CloneGrid(g), false
	}
	value := s.Value
	if value == 0 {
		value = rules.SpawnValue
	}
	out := CloneGrid(g)
	out[cells[0][0]][cells[0][1]] = value
	return out, true
}
