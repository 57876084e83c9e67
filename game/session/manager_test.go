package session

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tile2048/slidegame/game/engine"
)

func createTestRules() *engine.Rules {
	rules := &engine.Rules{
		Name:             "Test Rules",
		Description:      "Rules for session tests",
		Rows:             4,
		Cols:             4,
		WinTarget:        128,
		MergeCeiling:     128,
		SpawnValue:       2,
		SpawnBonusChance: 0.1,
		StartTiles:       2,
	}
	rules.Messages.Welcome = "Welcome!"
	rules.Messages.Victory = "You win!"
	rules.Messages.GameOver = "Game over"
	rules.Messages.Blocked = "Nothing moved"
	return rules
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	rules := createTestRules()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", rules)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Engine == nil {
			t.Error("Expected engine to be initialized")
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", rules)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID == "" {
			t.Error("Expected auto-generated session ID")
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character session ID, got %d characters", len(session.ID))
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		_, err := manager.Create("test-session", rules)
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", rules)
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists for case variant, got %v", err)
		}
	})

	t.Run("invalid rules", func(t *testing.T) {
		invalidRules := createTestRules()
		invalidRules.Name = "" // Make rules invalid
		_, err := manager.Create("invalid-test", invalidRules)
		if err == nil {
			t.Error("Expected error for invalid rules")
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	rules := createTestRules()

	created, _ := manager.Create("get-test", rules)

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session.ID != created.ID {
			t.Errorf("Expected session ID '%s', got '%s'", created.ID, session.ID)
		}
	})

	t.Run("get is case-insensitive", func(t *testing.T) {
		session, err := manager.Get("GET-TEST")
		if err != nil {
			t.Fatalf("Failed to get session with different case: %v", err)
		}
		if session.ID != created.ID {
			t.Errorf("Expected session ID '%s', got '%s'", created.ID, session.ID)
		}
	})

	t.Run("get nonexistent session", func(t *testing.T) {
		_, err := manager.Get("does-not-exist")
		if err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_GetOrCreate(t *testing.T) {
	manager := NewManager()
	rules := createTestRules()

	t.Run("creates when missing", func(t *testing.T) {
		session, err := manager.GetOrCreate("new-session", rules)
		if err != nil {
			t.Fatalf("Failed to get or create session: %v", err)
		}
		if session.ID != "new-session" {
			t.Errorf("Expected session ID 'new-session', got '%s'", session.ID)
		}
	})

	t.Run("returns existing", func(t *testing.T) {
		first, _ := manager.GetOrCreate("shared", rules)
		second, err := manager.GetOrCreate("shared", rules)
		if err != nil {
			t.Fatalf("Failed to get existing session: %v", err)
		}
		if first != second {
			t.Error("Expected the same session instance")
		}
	})
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	rules := createTestRules()

	manager.Create("delete-test", rules)

	t.Run("delete existing session", func(t *testing.T) {
		if err := manager.Delete("delete-test"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if _, err := manager.Get("delete-test"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound after delete, got %v", err)
		}
	})

	t.Run("delete nonexistent session", func(t *testing.T) {
		if err := manager.Delete("does-not-exist"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	rules := createTestRules()

	if len(manager.List()) != 0 {
		t.Error("Expected empty session list")
	}

	manager.Create("list-1", rules)
	manager.Create("list-2", rules)
	manager.Create("list-3", rules)

	sessions := manager.List()
	if len(sessions) != 3 {
		t.Errorf("Expected 3 sessions, got %d", len(sessions))
	}
	if manager.Count() != 3 {
		t.Errorf("Expected count 3, got %d", manager.Count())
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	rules := createTestRules()

	session, _ := manager.Create("access-test", rules)
	before := session.LastAccessedAt

	time.Sleep(10 * time.Millisecond)

	if err := manager.UpdateLastAccessed("access-test"); err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}
	if !session.LastAccessedAt.After(before) {
		t.Error("Expected LastAccessedAt to advance")
	}

	if err := manager.UpdateLastAccessed("does-not-exist"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_CleanupExpiredSessions(t *testing.T) {
	manager := NewManager()
	rules := createTestRules()

	old, _ := manager.Create("old-session", rules)
	manager.Create("fresh-session", rules)

	// Age one session past the cutoff
	old.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	removed := manager.CleanupExpiredSessions(1 * time.Hour)
	if removed != 1 {
		t.Errorf("Expected 1 removed session, got %d", removed)
	}
	if _, err := manager.Get("old-session"); err != ErrSessionNotFound {
		t.Errorf("Expected expired session to be gone, got %v", err)
	}
	if _, err := manager.Get("fresh-session"); err != nil {
		t.Errorf("Expected fresh session to survive, got %v", err)
	}
}

func TestManager_GeneratedIDsAreHex(t *testing.T) {
	manager := NewManager()
	rules := createTestRules()

	for i := 0; i < 10; i++ {
		session, err := manager.Create("", rules)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got %q", session.ID)
		}
		if strings.ToLower(session.ID) != session.ID {
			t.Errorf("Expected lowercase hex ID, got %q", session.ID)
		}
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	rules := createTestRules()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := manager.Create("", rules)
			if err != nil {
				t.Errorf("Failed to create session: %v", err)
				return
			}
			if _, err := manager.Get(session.ID); err != nil {
				t.Errorf("Failed to get session: %v", err)
			}
			manager.UpdateLastAccessed(session.ID)
		}()
	}
	wg.Wait()

	if manager.Count() != 20 {
		t.Errorf("Expected 20 sessions, got %d", manager.Count())
	}
}
