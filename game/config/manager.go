package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tile2048/slidegame/game/engine"
	"github.com/tile2048/slidegame/game/service"
)

var (
	ErrRulesNotFound = errors.New("rules not found")
	ErrInvalidRules  = errors.New("invalid rules")
)

// Manager handles rules loading and caching
type Manager struct {
	rulesDir     string
	defaultRules *engine.Rules
	rules        map[string]*engine.Rules
	mu           sync.RWMutex
}

// NewManager creates a new rules manager
func NewManager(rulesDir string) (*Manager, error) {
	// Ensure rules directory exists
	if _, err := os.Stat(rulesDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("rules directory does not exist: %s", rulesDir)
	}

	m := &Manager{
		rulesDir: rulesDir,
		rules:    make(map[string]*engine.Rules),
	}

	// Load default rules
	m.mu.Lock()
	err := m.loadDefaultRulesLocked()
	m.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to load default rules: %w", err)
	}

	return m, nil
}

// LoadRules loads a rules file by name
func (m *Manager) LoadRules(name string) (*engine.Rules, error) {
	m.mu.RLock()
	// Check cache first
	if rules, exists := m.rules[name]; exists {
		m.mu.RUnlock()
		return rules, nil
	}
	m.mu.RUnlock()

	// Load from file
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadRulesLocked(name)
}

// loadRulesLocked loads and caches a rules file. The caller must hold
// the write lock; nothing here re-acquires it.
func (m *Manager) loadRulesLocked(name string) (*engine.Rules, error) {
	// Double-check after acquiring write lock
	if rules, exists := m.rules[name]; exists {
		return rules, nil
	}

	// Add .json extension if not present
	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	rulesPath := filepath.Join(m.rulesDir, filename)

	// Read rules file
	data, err := os.ReadFile(rulesPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrRulesNotFound
		}
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	// Parse rules
	var rules engine.Rules
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}

	// Validate rules
	if err := engine.ValidateRules(&rules); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}

	// Cache the rules
	m.rules[name] = &rules
	return &rules, nil
}

// ListRules returns information about all available rules files
func (m *Manager) ListRules() ([]*service.RulesInfo, error) {
	entries, err := os.ReadDir(m.rulesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules directory: %w", err)
	}

	var infos []*service.RulesInfo

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		// Remove .json extension for the rules ID
		name := strings.TrimSuffix(entry.Name(), ".json")

		// Try to load the rules to get details
		rules, err := m.LoadRules(name)
		if err != nil {
			// Skip invalid rules files
			continue
		}

		infos = append(infos, &service.RulesInfo{
			Filename:     entry.Name(),
			RulesID:      name, // This is the identifier to use for session creation
			Name:         rules.Name,
			Description:  rules.Description,
			Rows:         rules.Rows,
			Cols:         rules.Cols,
			WinTarget:    rules.WinTarget,
			MergeCeiling: rules.MergeCeiling,
		})
	}

	return infos, nil
}

// GetDefault returns the default rules
func (m *Manager) GetDefault() *engine.Rules {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultRules
}

// SetDefault sets the default rules by name
func (m *Manager) SetDefault(name string) error {
	rules, err := m.LoadRules(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultRules = rules
	return nil
}

// RefreshCache reloads all cached rules from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Clear cache
	m.rules = make(map[string]*engine.Rules)

	// Reload default rules
	return m.loadDefaultRulesLocked()
}

// loadDefaultRulesLocked picks the default rules: classic.json if
// present, otherwise the first loadable rules file, otherwise the
// built-in rules. The caller must hold the write lock.
func (m *Manager) loadDefaultRulesLocked() error {
	rules, err := m.loadRulesLocked("classic")
	if err != nil {
		// Try the first loadable rules file in the directory
		entries, listErr := os.ReadDir(m.rulesDir)
		if listErr == nil {
			for _, entry := range entries {
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
					continue
				}
				name := strings.TrimSuffix(entry.Name(), ".json")
				if rules, err = m.loadRulesLocked(name); err == nil {
					break
				}
			}
		}
		if err != nil {
			// Fall back to the built-in classic rules
			m.defaultRules = engine.DefaultRules()
			return nil
		}
	}

	m.defaultRules = rules
	return nil
}

// SaveRules saves a rules file to disk
func (m *Manager) SaveRules(name string, rules *engine.Rules) error {
	// Validate rules before saving
	if err := engine.ValidateRules(rules); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}

	// Add .json extension if not present
	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	rulesPath := filepath.Join(m.rulesDir, filename)

	// Marshal rules to JSON with indentation
	data, err := json.MarshalIndent(rules, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}

	// Write to file
	if err := os.WriteFile(rulesPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write rules file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.rules[name] = rules
	m.mu.Unlock()

	return nil
}
