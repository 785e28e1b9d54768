package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/WyzeTalkAssignment/memory-game-dev/game/engine"
)

var (
	ErrThemeNotFound = errors.New("theme not found")
	ErrInvalidTheme  = errors.New("invalid theme")
)

// DefaultThemeName is used when a game is started without naming a theme.
const DefaultThemeName = "animals"

// Theme is a named set of card categories. Every theme carries exactly 8
// distinct categories, enough to deal one board.
type Theme struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Categories  []engine.Category `json:"categories"`
}

// Manager handles theme loading and caching
type Manager struct {
	themeDir string
	themes   map[string]*Theme
	mu       sync.RWMutex
}

// NewManager creates a theme manager over the given directory. A missing or
// empty directory is fine: the built-in default theme keeps the game
// playable without any theme files on disk.
func NewManager(themeDir string) *Manager {
	return &Manager{
		themeDir: themeDir,
		themes:   make(map[string]*Theme),
	}
}

// LoadTheme loads a theme by name, from cache or disk. The built-in default
// backs the default name when no file overrides it.
func (m *Manager) LoadTheme(name string) (*Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultThemeName
	}

	m.mu.RLock()
	if theme, exists := m.themes[name]; exists {
		m.mu.RUnlock()
		return theme, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if theme, exists := m.themes[name]; exists {
		return theme, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	data, err := os.ReadFile(filepath.Join(m.themeDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			if name == DefaultThemeName {
				theme := builtinDefaultTheme()
				m.themes[name] = theme
				return theme, nil
			}
			return nil, ErrThemeNotFound
		}
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var theme Theme
	if err := json.Unmarshal(data, &theme); err != nil {
		return nil, fmt.Errorf("failed to parse theme: %w", err)
	}

	if err := ValidateTheme(&theme); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTheme, err)
	}

	m.themes[name] = &theme
	return &theme, nil
}

// ListThemes returns every valid theme on disk, plus the built-in default
// when no file overrides it. Results are sorted by name.
func (m *Manager) ListThemes() ([]*Theme, error) {
	themes := make(map[string]*Theme)

	entries, err := os.ReadDir(m.themeDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read theme directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")

		theme, err := m.LoadTheme(name)
		if err != nil {
			// Skip invalid theme files
			continue
		}
		themes[strings.ToLower(name)] = theme
	}

	if _, exists := themes[DefaultThemeName]; !exists {
		themes[DefaultThemeName] = builtinDefaultTheme()
	}

	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]*Theme, 0, len(themes))
	for _, name := range names {
		list = append(list, themes[name])
	}
	return list, nil
}

// GetDefault returns the theme used when a game names none.
func (m *Manager) GetDefault() *Theme {
	theme, err := m.LoadTheme(DefaultThemeName)
	if err != nil {
		return builtinDefaultTheme()
	}
	return theme
}

// ValidateTheme checks that a theme can deal a board.
func ValidateTheme(theme *Theme) error {
	if theme == nil {
		return fmt.Errorf("theme is nil")
	}
	if strings.TrimSpace(theme.Name) == "" {
		return fmt.Errorf("theme name is required")
	}
	return engine.ValidateCategories(theme.Categories)
}

// builtinDefaultTheme keeps the game playable with no theme files on disk.
func builtinDefaultTheme() *Theme {
	return &Theme{
		Name:        DefaultThemeName,
		Description: "Safari animals, the classic deck",
		Categories: []engine.Category{
			"elephant", "giraffe", "lion", "monkey",
			"panda", "penguin", "tiger", "zebra",
		},
	}
}
