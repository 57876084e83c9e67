package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/tile2048/slidegame/game/engine"
)

func createValidRules() *engine.Rules {
	rules := &engine.Rules{
		Name:             "Test Rules",
		Description:      "Test rules file",
		Rows:             4,
		Cols:             4,
		WinTarget:        128,
		MergeCeiling:     128,
		SpawnValue:       2,
		SpawnBonusChance: 0.1,
		StartTiles:       2,
	}
	rules.Messages.Welcome = "Welcome!"
	rules.Messages.Victory = "Victory!"
	rules.Messages.GameOver = "Game over!"
	rules.Messages.Blocked = "Blocked!"
	return rules
}

func writeRulesFile(t *testing.T, dir, name string, rules *engine.Rules) {
	t.Helper()
	data, err := json.MarshalIndent(rules, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal rules: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write rules file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()

		classic := createValidRules()
		classic.Name = "Classic"
		writeRulesFile(t, dir, "classic", classic)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager == nil {
			t.Error("Expected manager to be non-nil")
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory falls back to built-in rules", func(t *testing.T) {
		dir := t.TempDir()

		manager, err := NewManager(dir)
		if err != nil {
			t.Errorf("NewManager should succeed without rules files, got error: %v", err)
		}
		if manager == nil {
			t.Fatal("Expected manager to be created")
		}

		defaultRules := manager.GetDefault()
		if defaultRules == nil {
			t.Fatal("Expected default rules to be available")
		}
		if defaultRules.WinTarget != 128 {
			t.Errorf("Expected built-in win target 128, got %d", defaultRules.WinTarget)
		}
	})
}

func TestManager_LoadRules(t *testing.T) {
	dir := t.TempDir()

	classic := createValidRules()
	classic.Name = "Classic"
	writeRulesFile(t, dir, "classic", classic)

	mini := createValidRules()
	mini.Name = "Mini"
	mini.Rows = 3
	mini.Cols = 3
	mini.WinTarget = 64
	mini.MergeCeiling = 64
	writeRulesFile(t, dir, "mini", mini)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing rules", func(t *testing.T) {
		rules, err := manager.LoadRules("mini")
		if err != nil {
			t.Fatalf("Failed to load rules: %v", err)
		}
		if rules.Name != "Mini" {
			t.Errorf("Expected rules name 'Mini', got '%s'", rules.Name)
		}
		if rules.WinTarget != 64 {
			t.Errorf("Expected win target 64, got %d", rules.WinTarget)
		}
	})

	t.Run("load with .json extension", func(t *testing.T) {
		rules, err := manager.LoadRules("mini.json")
		if err != nil {
			t.Fatalf("Failed to load rules with extension: %v", err)
		}
		if rules.Name != "Mini" {
			t.Errorf("Expected rules name 'Mini', got '%s'", rules.Name)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		rules1, _ := manager.LoadRules("mini")
		rules2, err := manager.LoadRules("mini")
		if err != nil {
			t.Fatalf("Failed to load rules from cache: %v", err)
		}

		// Same pointer means cached
		if rules1 != rules2 {
			t.Error("Expected rules to be loaded from cache")
		}
	})

	t.Run("load non-existent rules", func(t *testing.T) {
		_, err := manager.LoadRules("non-existent")
		if !errors.Is(err, ErrRulesNotFound) {
			t.Errorf("Expected ErrRulesNotFound, got %v", err)
		}
	})

	t.Run("load invalid rules", func(t *testing.T) {
		invalidData := []byte(`{"name": ""}`) // Missing required fields
		if err := os.WriteFile(filepath.Join(dir, "invalid.json"), invalidData, 0644); err != nil {
			t.Fatalf("Failed to write invalid rules: %v", err)
		}

		_, err := manager.LoadRules("invalid")
		if !errors.Is(err, ErrInvalidRules) {
			t.Errorf("Expected ErrInvalidRules, got %v", err)
		}
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		malformedData := []byte(`{"name": "Malformed", invalid json}`)
		if err := os.WriteFile(filepath.Join(dir, "malformed.json"), malformedData, 0644); err != nil {
			t.Fatalf("Failed to write malformed rules: %v", err)
		}

		_, err := manager.LoadRules("malformed")
		if err == nil {
			t.Error("Expected error for malformed JSON")
		}
	})
}

func TestManager_GetDefault(t *testing.T) {
	dir := t.TempDir()

	classic := createValidRules()
	classic.Name = "Classic Rules"
	writeRulesFile(t, dir, "classic", classic)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	rules := manager.GetDefault()
	if rules == nil {
		t.Fatal("Expected default rules to be non-nil")
	}
	if rules.Name != "Classic Rules" {
		t.Errorf("Expected default rules name 'Classic Rules', got '%s'", rules.Name)
	}
}

func TestManager_SetDefault(t *testing.T) {
	dir := t.TempDir()

	classic := createValidRules()
	classic.Name = "Classic"
	writeRulesFile(t, dir, "classic", classic)

	mini := createValidRules()
	mini.Name = "Mini"
	writeRulesFile(t, dir, "mini", mini)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.SetDefault("mini"); err != nil {
		t.Fatalf("Failed to set default: %v", err)
	}

	if got := manager.GetDefault().Name; got != "Mini" {
		t.Errorf("Expected default 'Mini', got '%s'", got)
	}

	if err := manager.SetDefault("non-existent"); !errors.Is(err, ErrRulesNotFound) {
		t.Errorf("Expected ErrRulesNotFound, got %v", err)
	}
}

func TestManager_ListRules(t *testing.T) {
	dir := t.TempDir()

	rulesFiles := []struct {
		filename string
		name     string
	}{
		{"classic", "Classic"},
		{"mini", "Mini"},
		{"marathon", "Marathon"},
		{"doubles", "Doubles"},
	}

	for _, rf := range rulesFiles {
		rules := createValidRules()
		rules.Name = rf.name
		writeRulesFile(t, dir, rf.filename, rules)
	}

	// Also add a non-JSON file that should be ignored
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	rulesList, err := manager.ListRules()
	if err != nil {
		t.Fatalf("Failed to list rules: %v", err)
	}
	if len(rulesList) != 4 {
		t.Errorf("Expected 4 rules files, got %d", len(rulesList))
	}

	foundRules := make(map[string]bool)
	for _, info := range rulesList {
		foundRules[info.Name] = true
		if info.RulesID == "" {
			t.Errorf("Expected rules ID for '%s'", info.Name)
		}
	}

	for _, rf := range rulesFiles {
		if !foundRules[rf.name] {
			t.Errorf("Rules '%s' not found in list", rf.name)
		}
	}
}

func TestManager_SaveRules(t *testing.T) {
	dir := t.TempDir()

	classic := createValidRules()
	writeRulesFile(t, dir, "classic", classic)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("save valid rules", func(t *testing.T) {
		custom := createValidRules()
		custom.Name = "Custom"
		custom.WinTarget = 256
		custom.MergeCeiling = 256

		if err := manager.SaveRules("custom", custom); err != nil {
			t.Fatalf("Failed to save rules: %v", err)
		}

		loaded, err := manager.LoadRules("custom")
		if err != nil {
			t.Fatalf("Failed to load saved rules: %v", err)
		}
		if loaded.WinTarget != 256 {
			t.Errorf("Expected win target 256, got %d", loaded.WinTarget)
		}
	})

	t.Run("reject invalid rules", func(t *testing.T) {
		bad := createValidRules()
		bad.MergeCeiling = 64 // below win target

		if err := manager.SaveRules("bad", bad); !errors.Is(err, ErrInvalidRules) {
			t.Errorf("Expected ErrInvalidRules, got %v", err)
		}
	})
}

func TestManager_RefreshCache(t *testing.T) {
	dir := t.TempDir()

	rules := createValidRules()
	rules.Name = "Changeable"
	rules.WinTarget = 128
	rules.MergeCeiling = 128
	writeRulesFile(t, dir, "classic", rules)
	writeRulesFile(t, dir, "changeable", rules)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	loaded, _ := manager.LoadRules("changeable")
	if loaded.WinTarget != 128 {
		t.Errorf("Expected initial win target 128, got %d", loaded.WinTarget)
	}

	// Modify the file on disk, then refresh
	rules.WinTarget = 256
	rules.MergeCeiling = 256
	writeRulesFile(t, dir, "changeable", rules)

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("Failed to refresh cache: %v", err)
	}

	reloaded, _ := manager.LoadRules("changeable")
	if reloaded.WinTarget != 256 {
		t.Errorf("Expected reloaded win target 256, got %d", reloaded.WinTarget)
	}
}

func TestManager_RefreshCacheReturns(t *testing.T) {
	dir := t.TempDir()
	writeRulesFile(t, dir, "classic", createValidRules())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	// RefreshCache reloads the default while holding the write lock;
	// it must not block on its own mutex.
	done := make(chan error, 1)
	go func() {
		done <- manager.RefreshCache()
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("RefreshCache failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("RefreshCache did not return")
	}

	if def := manager.GetDefault(); def == nil || def.WinTarget != 128 {
		t.Errorf("Expected default rules with win target 128 after refresh, got %+v", def)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()

	classic := createValidRules()
	writeRulesFile(t, dir, "classic", classic)

	for i := 1; i <= 5; i++ {
		rules := createValidRules()
		rules.Name = "Rules" + string(rune('0'+i))
		writeRulesFile(t, dir, "rules"+string(rune('0'+i)), rules)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			name := "rules" + string(rune('0'+((id%5)+1)))
			if _, err := manager.LoadRules(name); err != nil {
				errCh <- err
			}
		}(i)
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
}
