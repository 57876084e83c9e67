package service

import (
	"time"

	"github.com/tile2048/slidegame/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	RulesName      string            `json:"rules_name"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
	GameRules      *engine.Rules     `json:"game_rules"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success     bool              `json:"success"` // true when at least one tile moved
	ScoreGained int               `json:"score_gained"`
	GameState   *engine.GameState `json:"game_state"`
	Message     string            `json:"message"`
	Events      []GameEvent       `json:"events,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`   // Human-readable reason
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // Machine-friendly code: blocked|game_over|victory
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartScore int `json:"start_score"`
	EndScore   int `json:"end_score"`
	ScoreDelta int `json:"score_delta"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Final status aids
	GameOver      bool     `json:"game_over"`
	GameOverCode  string   `json:"game_over_code,omitempty"`
	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record for each executed move in the bulk call
type StepInfo struct {
	Idx         int    `json:"idx"`
	Dir         string `json:"dir"`
	Moved       bool   `json:"moved"`
	ScoreGained int    `json:"score_gained"`
	BestTile    int    `json:"best_tile"`
	Victory     bool   `json:"victory,omitempty"`
	GameOver    bool   `json:"game_over,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // "move", "merge", "game_over", "victory", "reset"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Direction string    `json:"direction,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// RulesInfo provides information about a rules file
type RulesInfo struct {
	Filename     string `json:"filename"`
	RulesID      string `json:"rules_id"` // The identifier to use for session creation
	Name         string `json:"name"`     // Display name
	Description  string `json:"description"`
	Rows         int    `json:"rows"`
	Cols         int    `json:"cols"`
	WinTarget    int    `json:"win_target"`
	MergeCeiling int    `json:"merge_ceiling"`
}
