package session

import (
	"time"

	"github.com/tile2048/slidegame/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is the JSON structure for persisted sessions.
// The full game state (grid, score, terminal flags, history) travels
// inside GameState; RulesName stores the rules ID so the session can
// be rebuilt against the same rules file on load.
type PersistedSessionData struct {
	ID             string    `json:"id"`
	RulesName      string    `json:"rules_name"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	GameState      any       `json:"game_state"` // Will be *engine.GameState when loaded
}
