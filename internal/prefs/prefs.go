// Package prefs handles bgmTTY user preferences persistence.
// Preferences are stored in ~/.config/bgmtty/prefs.toml.
package prefs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	toml "github.com/pelletier/go-toml/v2"
)

// Filters is the initial state of the collection filters.
type Filters struct {
	Anime bool `toml:"anime"`
	Book  bool `toml:"book"`
	Real  bool `toml:"real"`
}

// Prefs holds user preferences for bgmTTY.
type Prefs struct {
	Theme          string  `toml:"theme"`
	Editor         string  `toml:"editor,omitempty"`
	SearchPageSize int     `toml:"search_page_size"`
	Filters        Filters `toml:"filters"`
}

const (
	defaultPrefsPath = "~/.config/bgmtty/prefs.toml"
	defaultTheme     = "Classic"
	defaultPageSize  = 10
	maxPageSize      = 25
)

// Defaults returns the preferences used when no file exists.
func Defaults() Prefs {
	return Prefs{
		Theme:          defaultTheme,
		SearchPageSize: defaultPageSize,
		Filters:        Filters{Anime: true, Book: true, Real: true},
	}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to defaults if
// the file is missing or unreadable.
func Load(path string) (Prefs, error) {
	prefs := Defaults()

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs, nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Defaults(), nil // Graceful degradation
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	prefs.Editor = strings.TrimSpace(prefs.Editor)
	if prefs.SearchPageSize <= 0 {
		prefs.SearchPageSize = defaultPageSize
	}
	prefs.SearchPageSize = min(prefs.SearchPageSize, maxPageSize)

	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// EditorCommand returns the editor to launch for free-text fields: the
// preference, then $VISUAL, then $EDITOR, then vi.
func (p Prefs) EditorCommand() string {
	for _, candidate := range []string{p.Editor, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if c := strings.TrimSpace(candidate); c != "" {
			return c
		}
	}
	return "vi"
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	expanded, err := homedir.Expand(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Abs(expanded)
}
