package engine

// Direction values accepted by Move and related helpers
const (
	DirUp    = "up"
	DirDown  = "down"
	DirLeft  = "left"
	DirRight = "right"

	// Validation constants
	MinGridSize         = 2
	MaxGridSize         = 16
	MinSpawnValue       = 2
	MaxBulkMoves        = 50
	WebSocketBufferSize = 256
)

// Directions lists the four move directions in a stable order
var Directions = []string{DirUp, DirDown, DirLeft, DirRight}

// Grid is a rectangular board of tiles. A cell holding 0 is empty; any
// non-zero cell holds a positive power of two. Row index grows downward,
// column index grows rightward.
type Grid [][]int

// MoveOutcome is the result of applying one directional move to a grid
type MoveOutcome struct {
	Grid        Grid `json:"grid"`
	Moved       bool `json:"moved"`
	ScoreGained int  `json:"score_gained"`
}

// Rules represents the game rules loaded from JSON
type Rules struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`

	// WinTarget is the tile value that ends the game in victory.
	// MergeCeiling is the largest value a merge may produce; merges that
	// would exceed it simply do not happen. In the classic rules both
	// are 128, which is what makes the win tile the largest tile.
	WinTarget    int `json:"win_target"`
	MergeCeiling int `json:"merge_ceiling"`

	// Spawn distribution: SpawnValue with probability 1-SpawnBonusChance,
	// 2*SpawnValue with probability SpawnBonusChance.
	SpawnValue       int     `json:"spawn_value"`
	SpawnBonusChance float64 `json:"spawn_bonus_chance"`
	StartTiles       int     `json:"start_tiles"`

	Messages struct {
		Welcome  string `json:"welcome"`
		Victory  string `json:"victory"`
		GameOver string `json:"game_over"`
		Blocked  string `json:"blocked"`
	} `json:"messages"`
}

// GameState represents the complete game state
type GameState struct {
	Grid        Grid               `json:"grid"`
	Score       int                `json:"score"`
	BestTile    int                `json:"best_tile"`
	Message     string             `json:"message"`
	GameOver    bool               `json:"game_over"`
	Victory     bool               `json:"victory"`
	RulesName   string             `json:"rules_name"`
	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset. It mirrors
	// MoveHistory entries but gets cleared on reset while MoveHistory
	// remains cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Direction   string `json:"direction"`
	Moved       bool   `json:"moved"`
	ScoreGained int    `json:"score_gained"`
	Score       int    `json:"score"`
	Timestamp   int64  `json:"timestamp"`
	MoveNumber  int    `json:"move_number"`
}

// IsValidDirection reports whether dir is one of the four move directions
func IsValidDirection(dir string) bool {
	switch dir {
	case DirUp, DirDown, DirLeft, DirRight:
		return true
	}
	return false
}
