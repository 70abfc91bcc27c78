// Package logging owns the process-wide structured logger. The terminal
// belongs to the UI, so log records go to a file.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mitchellh/go-homedir"
)

// DefaultPath is where the log file lives unless --log-file overrides it.
const DefaultPath = "~/.local/state/bgmtty/bgmtty.log"

var (
	mu       sync.Mutex
	base     *slog.Logger
	levelVar = new(slog.LevelVar)
	logFile  *os.File
)

// Init opens (or creates) the log file at path and installs the logger.
// Calling Init again replaces the previous file.
func Init(path string) error {
	if path == "" {
		path = DefaultPath
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("expand log path %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(expanded, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", expanded, err)
	}

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f
	base = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar}))
	base.Info("logger initialized", "path", expanded)
	return nil
}

// SetDebug toggles debug level records.
func SetDebug(enabled bool) {
	if enabled {
		levelVar.Set(slog.LevelDebug)
		return
	}
	levelVar.Set(slog.LevelInfo)
}

// get returns the process logger. Before Init it discards everything.
func get() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if base == nil {
		return slog.New(slog.DiscardHandler)
	}
	return base
}

// Component returns the process logger tagged with a component name.
func Component(name string) *slog.Logger {
	return get().With(slog.String("component", name))
}

// Close flushes and closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	base = nil
}
