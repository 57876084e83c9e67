package service

import (
	"context"
	"time"

	"github.com/tile2048/slidegame/game/engine"
	"github.com/tile2048/slidegame/game/leaderboard"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, rulesName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Rules
	ListRules(ctx context.Context) ([]*RulesInfo, error)
	LoadRules(ctx context.Context, rulesName string) (*engine.Rules, error)
	SaveRules(ctx context.Context, rulesName string, rules *engine.Rules) error

	// Leaderboard
	TopScores(ctx context.Context, limit int) ([]leaderboard.Entry, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, rules *engine.Rules) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, rules *engine.Rules) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// RulesManager handles rules loading
type RulesManager interface {
	LoadRules(name string) (*engine.Rules, error)
	ListRules() ([]*RulesInfo, error)
	GetDefault() *engine.Rules
	SaveRules(name string, rules *engine.Rules) error
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Rules          *engine.Rules
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
