package service_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/tile2048/slidegame/game/engine"
	"github.com/tile2048/slidegame/game/leaderboard"
	"github.com/tile2048/slidegame/game/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	saves    int
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, rules *engine.Rules) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(rules)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Rules:          rules,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id string, rules *engine.Rules) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, rules)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errors.New("session not found")
}

func (m *MockSessionManager) Save(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found")
	}
	m.saves++
	return nil
}

// MockRulesManager implements service.RulesManager for testing
type MockRulesManager struct {
	rules map[string]*engine.Rules
}

func NewMockRulesManager() *MockRulesManager {
	defaultRules := &engine.Rules{
		Name:             "Test Rules",
		Description:      "Rules for service tests",
		Rows:             4,
		Cols:             4,
		WinTarget:        128,
		MergeCeiling:     128,
		SpawnValue:       2,
		SpawnBonusChance: 0.1,
		StartTiles:       2,
	}
	defaultRules.Messages.Welcome = "Welcome!"
	defaultRules.Messages.Victory = "You win!"
	defaultRules.Messages.GameOver = "Game over"
	defaultRules.Messages.Blocked = "Nothing moved"

	return &MockRulesManager{
		rules: map[string]*engine.Rules{
			"test":    defaultRules,
			"classic": defaultRules,
		},
	}
}

func (m *MockRulesManager) LoadRules(name string) (*engine.Rules, error) {
	rules, exists := m.rules[name]
	if !exists {
		return nil, errors.New("rules not found")
	}
	return rules, nil
}

func (m *MockRulesManager) ListRules() ([]*service.RulesInfo, error) {
	result := make([]*service.RulesInfo, 0, len(m.rules))
	for name, rules := range m.rules {
		result = append(result, &service.RulesInfo{
			Filename:     name + ".json",
			RulesID:      name,
			Name:         rules.Name,
			Description:  rules.Description,
			Rows:         rules.Rows,
			Cols:         rules.Cols,
			WinTarget:    rules.WinTarget,
			MergeCeiling: rules.MergeCeiling,
		})
	}
	return result, nil
}

func (m *MockRulesManager) GetDefault() *engine.Rules {
	return m.rules["classic"]
}

func (m *MockRulesManager) SaveRules(name string, rules *engine.Rules) error {
	m.rules[name] = rules
	return nil
}

// MockRecorder implements leaderboard.Recorder in memory for testing
type MockRecorder struct {
	entries []leaderboard.Entry
}

func (m *MockRecorder) Record(ctx context.Context, entry leaderboard.Entry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockRecorder) Top(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	sorted := make([]leaderboard.Entry, len(m.entries))
	copy(sorted, m.entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func (m *MockRecorder) Close() error { return nil }

func newTestService() (service.GameService, *MockSessionManager, *MockRecorder) {
	sessions := NewMockSessionManager()
	rules := NewMockRulesManager()
	scores := &MockRecorder{}
	return service.NewGameService(sessions, rules, scores), sessions, scores
}

// Test cases
func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	tests := []struct {
		name      string
		rulesName string
		wantErr   bool
	}{
		{
			name:      "create with default rules",
			rulesName: "",
			wantErr:   false,
		},
		{
			name:      "create with specific rules",
			rulesName: "test",
			wantErr:   false,
		},
		{
			name:      "create with unknown rules",
			rulesName: "nonexistent",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.CreateSession(ctx, tt.rulesName)
			if (err != nil) != tt.wantErr {
				t.Errorf("CreateSession() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if session == nil {
					t.Fatal("CreateSession() returned nil session")
				}
				if session.GameState == nil {
					t.Error("CreateSession() returned nil game state")
				}
				if got := engine.CountEmpty(session.GameState.Grid); got != 14 {
					t.Errorf("Expected 14 empty cells after 2 start tiles, got %d", got)
				}
			}
		})
	}
}

func TestGameService_Move(t *testing.T) {
	ctx := context.Background()
	svc, sessions, _ := newTestService()

	sessionInfo, err := svc.CreateSession(ctx, "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	tests := []struct {
		name      string
		sessionID string
		direction string
		reset     bool
		wantErr   bool
	}{
		{
			name:      "valid move left",
			sessionID: sessionInfo.ID,
			direction: "left",
			reset:     false,
			wantErr:   false,
		},
		{
			name:      "valid move with reset",
			sessionID: sessionInfo.ID,
			direction: "right",
			reset:     true,
			wantErr:   false,
		},
		{
			name:      "invalid session",
			sessionID: "nonexistent",
			direction: "up",
			reset:     false,
			wantErr:   true,
		},
		{
			name:      "invalid direction",
			sessionID: sessionInfo.ID,
			direction: "diagonal",
			reset:     false,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Move(ctx, tt.sessionID, tt.direction, tt.reset)
			if (err != nil) != tt.wantErr {
				t.Errorf("Move() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && result == nil {
				t.Error("Move() returned nil result")
			}
		})
	}

	// Moves auto-save the session
	if sessions.saves == 0 {
		t.Error("Expected session to be saved after moves")
	}
}

func TestGameService_MoveEmitsEvents(t *testing.T) {
	ctx := context.Background()
	svc, sessions, _ := newTestService()

	sessionInfo, err := svc.CreateSession(ctx, "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	// Fix the board so left merges the pair for 4 points
	sess, _ := sessions.Get(sessionInfo.ID)
	state := sess.Engine.GetState()
	state.Grid = engine.Grid{
		{2, 0, 0, 2},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	if err := sess.Engine.SetState(state); err != nil {
		t.Fatalf("Failed to set state: %v", err)
	}

	result, err := svc.Move(ctx, sessionInfo.ID, "left", false)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if !result.Success {
		t.Fatal("Expected move to succeed")
	}
	if result.ScoreGained != 4 {
		t.Errorf("Expected score gained 4, got %d", result.ScoreGained)
	}

	var hasMove, hasMerge bool
	for _, ev := range result.Events {
		switch ev.Type {
		case "move":
			hasMove = true
		case "merge":
			hasMerge = true
		}
	}
	if !hasMove || !hasMerge {
		t.Errorf("Expected move and merge events, got %+v", result.Events)
	}
}

func TestGameService_BulkMove(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	sessionInfo, err := svc.CreateSession(ctx, "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	tests := []struct {
		name      string
		sessionID string
		moves     []string
		reset     bool
		wantErr   bool
	}{
		{
			name:      "valid bulk moves",
			sessionID: sessionInfo.ID,
			moves:     []string{"left", "up", "right", "down"},
			reset:     true,
			wantErr:   false,
		},
		{
			name:      "empty moves",
			sessionID: sessionInfo.ID,
			moves:     []string{},
			reset:     false,
			wantErr:   false,
		},
		{
			name:      "invalid session",
			sessionID: "nonexistent",
			moves:     []string{"up"},
			reset:     false,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.BulkMove(ctx, tt.sessionID, tt.moves, tt.reset)
			if (err != nil) != tt.wantErr {
				t.Errorf("BulkMove() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if result == nil {
					t.Fatal("BulkMove() returned nil result")
				}
				if result.RequestedMoves != len(tt.moves) {
					t.Errorf("BulkMove() RequestedMoves = %v, want %v", result.RequestedMoves, len(tt.moves))
				}
				if result.ScoreDelta != result.EndScore-result.StartScore {
					t.Errorf("Inconsistent score delta: %+v", result)
				}
			}
		})
	}
}

func TestGameService_BulkMoveTruncates(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	sessionInfo, err := svc.CreateSession(ctx, "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	moves := make([]string, engine.MaxBulkMoves+10)
	for i := range moves {
		moves[i] = "left"
	}

	result, err := svc.BulkMove(ctx, sessionInfo.ID, moves, false)
	if err != nil {
		t.Fatalf("BulkMove() error = %v", err)
	}
	if !result.Truncated {
		t.Error("Expected bulk move to be truncated")
	}
	if result.Limit != engine.MaxBulkMoves {
		t.Errorf("Expected limit %d, got %d", engine.MaxBulkMoves, result.Limit)
	}
}

func TestGameService_BulkMoveStopsWhenBlocked(t *testing.T) {
	ctx := context.Background()
	svc, sessions, _ := newTestService()

	sessionInfo, err := svc.CreateSession(ctx, "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	// Everything already packed left: a second left is blocked
	sess, _ := sessions.Get(sessionInfo.ID)
	state := sess.Engine.GetState()
	state.Grid = engine.Grid{
		{2, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	if err := sess.Engine.SetState(state); err != nil {
		t.Fatalf("Failed to set state: %v", err)
	}

	result, err := svc.BulkMove(ctx, sessionInfo.ID, []string{"left", "left"}, false)
	if err != nil {
		t.Fatalf("BulkMove() error = %v", err)
	}

	// First left is blocked already (tiles cannot move), so zero executed
	if result.Success {
		t.Error("Expected bulk move to report failure on blocked move")
	}
	if result.StopReasonCode != "blocked" {
		t.Errorf("Expected stop reason 'blocked', got %q", result.StopReasonCode)
	}
	if result.StoppedOnMove != 1 {
		t.Errorf("Expected to stop on move 1, got %d", result.StoppedOnMove)
	}
}

func TestGameService_RecordsFinishedGames(t *testing.T) {
	ctx := context.Background()
	svc, sessions, scores := newTestService()

	sessionInfo, err := svc.CreateSession(ctx, "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	// One merge away from the 128 win target
	sess, _ := sessions.Get(sessionInfo.ID)
	state := sess.Engine.GetState()
	state.Grid = engine.Grid{
		{64, 64, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 2, 4},
	}
	if err := sess.Engine.SetState(state); err != nil {
		t.Fatalf("Failed to set state: %v", err)
	}

	result, err := svc.Move(ctx, sessionInfo.ID, "left", false)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if !result.GameState.Victory {
		t.Fatalf("Expected victory, got %+v", result.GameState)
	}

	if len(scores.entries) != 1 {
		t.Fatalf("Expected 1 leaderboard entry, got %d", len(scores.entries))
	}
	entry := scores.entries[0]
	if entry.SessionID != sessionInfo.ID || !entry.Victory || entry.BestTile != 128 {
		t.Errorf("Unexpected leaderboard entry: %+v", entry)
	}

	top, err := svc.TopScores(ctx, 10)
	if err != nil {
		t.Fatalf("TopScores() error = %v", err)
	}
	if len(top) != 1 {
		t.Errorf("Expected 1 top score, got %d", len(top))
	}
}

func TestGameService_GetMoveHistory(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	sessionInfo, err := svc.CreateSession(ctx, "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	// Make some moves to generate history
	moves := []string{"left", "up", "right", "down"}
	_, err = svc.BulkMove(ctx, sessionInfo.ID, moves, false)
	if err != nil {
		t.Fatalf("Failed to make moves: %v", err)
	}

	tests := []struct {
		name      string
		sessionID string
		opts      service.HistoryOptions
		wantErr   bool
	}{
		{
			name:      "default options",
			sessionID: sessionInfo.ID,
			opts:      service.HistoryOptions{},
			wantErr:   false,
		},
		{
			name:      "with pagination",
			sessionID: sessionInfo.ID,
			opts: service.HistoryOptions{
				Page:  1,
				Limit: 2,
				Order: "asc",
			},
			wantErr: false,
		},
		{
			name:      "descending order",
			sessionID: sessionInfo.ID,
			opts: service.HistoryOptions{
				Page:  1,
				Limit: 10,
				Order: "desc",
			},
			wantErr: false,
		},
		{
			name:      "invalid session",
			sessionID: "nonexistent",
			opts:      service.HistoryOptions{},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.GetMoveHistory(ctx, tt.sessionID, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("GetMoveHistory() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && result == nil {
				t.Error("GetMoveHistory() returned nil result")
			}
			if !tt.wantErr && result != nil {
				if result.Moves == nil {
					t.Error("GetMoveHistory() returned nil moves slice")
				}
			}
		})
	}
}

func TestGameService_ListSessions(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	for i := 0; i < 3; i++ {
		_, err := svc.CreateSession(ctx, "test")
		if err != nil {
			t.Fatalf("Failed to create session %d: %v", i, err)
		}
	}

	sessionList, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}

	if len(sessionList) != 3 {
		t.Errorf("ListSessions() returned %d sessions, want 3", len(sessionList))
	}
}

func TestGameService_Reset(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	sessionInfo, err := svc.CreateSession(ctx, "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	_, err = svc.Move(ctx, sessionInfo.ID, "left", false)
	if err != nil {
		t.Fatalf("Failed to move: %v", err)
	}

	state, err := svc.Reset(ctx, sessionInfo.ID)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if state == nil {
		t.Fatal("Reset() returned nil state")
	}
	if state.Score != 0 {
		t.Errorf("Expected score 0 after reset, got %d", state.Score)
	}
	if got := engine.CountEmpty(state.Grid); got != 14 {
		t.Errorf("Expected fresh board with 14 empty cells, got %d", got)
	}
}

func TestGameService_DeleteSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	sessionInfo, err := svc.CreateSession(ctx, "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	if err := svc.DeleteSession(ctx, sessionInfo.ID); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}

	if _, err := svc.GetSession(ctx, sessionInfo.ID); err == nil {
		t.Error("Expected error getting deleted session")
	}
}
