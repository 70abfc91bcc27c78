package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/bgmtty/internal/prefs"
)

// Options configure the UI runtime.
type Options struct {
	Data      DataSource
	Recents   Recents
	Prefs     prefs.Prefs
	PrefsPath string // where theme changes are saved; empty disables saving
	Logger    *slog.Logger
}

// Run takes over the terminal and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Data == nil {
		return fmt.Errorf("ui requires a data source")
	}

	program := tea.NewProgram(NewModel(opts),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
