package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/tile2048/slidegame/game/engine"
	"github.com/tile2048/slidegame/game/leaderboard"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	rules    RulesManager
	scores   leaderboard.Recorder
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance. The recorder may
// be nil, in which case finished games are simply not recorded.
func NewGameService(sessions SessionManager, rules RulesManager, scores leaderboard.Recorder) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		rules:    rules,
		scores:   scores,
	}
}

// getRulesID returns the rules_id for a given rules display name, used
// for consistent API responses
func (s *gameServiceImpl) getRulesID(displayName string) string {
	available, err := s.rules.ListRules()
	if err == nil {
		for _, info := range available {
			if info.Name == displayName {
				return info.RulesID
			}
		}
	}
	// Fallback: return as-is or "classic"
	if displayName == "" {
		return "classic"
	}
	return displayName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, rulesName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load rules
	var rules *engine.Rules
	var err error
	if rulesName != "" {
		rules, err = s.rules.LoadRules(rulesName)
		if err != nil {
			if strings.Contains(err.Error(), "rules not found") {
				available, listErr := s.rules.ListRules()
				if listErr == nil && len(available) > 0 {
					var ids []string
					for _, info := range available {
						ids = append(ids, info.RulesID)
					}
					return nil, fmt.Errorf("rules '%s' not found. Available rules: %v", rulesName, ids)
				}
				return nil, fmt.Errorf("rules '%s' not found. Use /api/rules to list available rules", rulesName)
			}
			return nil, fmt.Errorf("failed to load rules %s: %w", rulesName, err)
		}
	} else {
		rules = s.rules.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", rules)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// Prefer the caller-provided rules ID; otherwise look it up by name
	rulesID := rulesName
	if rulesID == "" {
		rulesID = s.getRulesID(rules.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		RulesName:      rulesID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameRules:      session.Rules,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return &SessionInfo{
		ID:             session.ID,
		RulesName:      s.getRulesID(session.Rules.Name),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameRules:      session.Rules,
	}, nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			RulesName:      s.getRulesID(sess.Rules.Name),
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			GameState:      sess.Engine.GetState(),
			GameRules:      sess.Rules,
		})
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	if !engine.IsValidDirection(direction) {
		return nil, fmt.Errorf("invalid direction %q: must be one of up, down, left, right", direction)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	events := []GameEvent{}

	// Handle reset if requested
	if reset {
		sess.Engine.Reset()
		events = append(events, GameEvent{
			Type:      "reset",
			Message:   "Game reset to initial state",
			Timestamp: time.Now(),
		})
	}

	// Execute move
	wasOver := sess.Engine.IsGameOver()
	scoreBefore := sess.Engine.GetScore()
	success := sess.Engine.Move(direction)
	state := sess.Engine.GetState()
	gained := state.Score - scoreBefore

	result := &MoveResult{
		Success:     success,
		ScoreGained: gained,
		GameState:   state,
		Message:     state.Message,
		Events:      events,
	}
	result.Events = append(result.Events, s.extractMoveEvents(sess, direction, success, gained, wasOver)...)

	// Record finished games on the leaderboard
	if !wasOver && state.GameOver {
		s.recordFinishedGame(ctx, sess)
	}

	// Auto-save session after move
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after move: %v", sessionID, err)
	}

	return result, nil
}

// BulkMove executes multiple moves in sequence
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	state := sess.Engine.GetState()
	startScore := state.Score

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
		StartScore:     startScore,
		GameOver:       state.GameOver,
		Message:        state.Message,
	}

	// Handle reset
	if reset {
		sess.Engine.Reset()
		result.StartScore = 0
		result.Events = append(result.Events, GameEvent{
			Type:      "reset",
			Message:   "Game reset to initial state",
			Timestamp: time.Now(),
		})
	}

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	wasOver := sess.Engine.IsGameOver()

	// Execute moves
	for i, move := range moves {
		if sess.Engine.IsGameOver() {
			result.StoppedReason = "game_over"
			result.StopReasonCode = "game_over"
			result.StoppedOnMove = result.MovesExecuted + 1
			break
		}

		scoreBefore := sess.Engine.GetScore()
		success := sess.Engine.Move(move)
		currState := sess.Engine.GetState()
		gained := currState.Score - scoreBefore

		if !success {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d blocked: %s", i+1, move)
			result.StopReasonCode = "blocked"
			result.StoppedOnMove = i + 1
			break
		}

		result.MovesExecuted++
		result.Events = append(result.Events, s.extractMoveEvents(sess, move, true, gained, false)...)
		result.Steps = append(result.Steps, StepInfo{
			Idx:         i + 1,
			Dir:         move,
			Moved:       true,
			ScoreGained: gained,
			BestTile:    currState.BestTile,
			Victory:     currState.Victory,
			GameOver:    currState.GameOver,
		})
	}

	result.GameState = sess.Engine.GetState()

	// Finalize snapshots
	endState := result.GameState
	result.EndScore = endState.Score
	result.ScoreDelta = endState.Score - result.StartScore
	result.GameOver = endState.GameOver
	result.Message = endState.Message

	// If we ended due to game over without explicit stop reason code
	if result.GameOver && result.StopReasonCode == "" {
		if endState.Victory {
			result.StopReasonCode = "victory"
			result.GameOverCode = "victory"
		} else {
			result.StopReasonCode = "game_over"
			result.GameOverCode = "game_over"
		}
	}

	// Decision aids
	result.PossibleMoves = sess.Engine.GetPossibleMoves()

	// Record finished games on the leaderboard
	if !wasOver && endState.GameOver {
		s.recordFinishedGame(ctx, sess)
	}

	// Auto-save session after bulk moves
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after bulk moves: %v", sessionID, err)
	}

	return result, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	state := sess.Engine.Reset()

	// Auto-save session after reset
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after reset: %v", sessionID, err)
	}

	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	// Get the slice of moves
	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Reverse order (most recent first)
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else {
		// Normal chronological order
		if start < total {
			moves = history[start:end]
		}
	}

	// Ensure moves is not nil
	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListRules returns available rules files
func (s *gameServiceImpl) ListRules(ctx context.Context) ([]*RulesInfo, error) {
	return s.rules.ListRules()
}

// LoadRules loads a specific rules file
func (s *gameServiceImpl) LoadRules(ctx context.Context, rulesName string) (*engine.Rules, error) {
	return s.rules.LoadRules(rulesName)
}

// SaveRules saves a rules file to disk
func (s *gameServiceImpl) SaveRules(ctx context.Context, rulesName string, rules *engine.Rules) error {
	return s.rules.SaveRules(rulesName, rules)
}

// TopScores returns the best finished games
func (s *gameServiceImpl) TopScores(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	if s.scores == nil {
		return []leaderboard.Entry{}, nil
	}
	return s.scores.Top(ctx, limit)
}

// recordFinishedGame stores a finished game on the leaderboard.
// Recording is best-effort: a storage error only produces a log line.
func (s *gameServiceImpl) recordFinishedGame(ctx context.Context, sess *Session) {
	if s.scores == nil {
		return
	}

	state := sess.Engine.GetState()
	entry := leaderboard.Entry{
		SessionID:  sess.ID,
		RulesName:  sess.Rules.Name,
		Score:      state.Score,
		BestTile:   state.BestTile,
		Victory:    state.Victory,
		TotalMoves: state.TotalMoves,
		FinishedAt: time.Now(),
	}
	if err := s.scores.Record(ctx, entry); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Warning: Failed to record finished game %s: %v", sess.ID, err)
	}
}

// extractMoveEvents generates events from a move
func (s *gameServiceImpl) extractMoveEvents(sess *Session, direction string, success bool, gained int, wasOver bool) []GameEvent {
	events := []GameEvent{}
	state := sess.Engine.GetState()

	if success {
		events = append(events, GameEvent{
			Type:      "move",
			Message:   fmt.Sprintf("Moved %s", direction),
			Timestamp: time.Now(),
			Direction: direction,
		})
	}

	if gained > 0 {
		events = append(events, GameEvent{
			Type:      "merge",
			Message:   fmt.Sprintf("Merged tiles for %d points (total %d)", gained, state.Score),
			Timestamp: time.Now(),
			Direction: direction,
		})
	}

	// Check for game over events
	if !wasOver && state.GameOver {
		if state.Victory {
			events = append(events, GameEvent{
				Type:      "victory",
				Message:   fmt.Sprintf("Victory! Reached %d", state.BestTile),
				Timestamp: time.Now(),
			})
		} else {
			events = append(events, GameEvent{
				Type:      "game_over",
				Message:   state.Message,
				Timestamp: time.Now(),
			})
		}
	}

	return events
}
