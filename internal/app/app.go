package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/five82/bgmtty/internal/bangumi"
	"github.com/five82/bgmtty/internal/config"
	"github.com/five82/bgmtty/internal/history"
	"github.com/five82/bgmtty/internal/logging"
	"github.com/five82/bgmtty/internal/prefs"
	"github.com/five82/bgmtty/internal/state"
	"github.com/five82/bgmtty/internal/ui"
)

const verifyTimeout = 5 * time.Second

// Options configure the bgmTTY application.
type Options struct {
	ConfigPath  string // empty uses ~/.config/bgmtty/bgmtty.yml
	PrefsPath   string // empty uses ~/.config/bgmtty/prefs.toml
	LogFile     string // empty uses ~/.local/state/bgmtty/bgmtty.log
	HistoryPath string // empty uses ~/.local/state/bgmtty/history.db
	BaseURL     string // empty uses the public API
	Debug       bool
}

// Run boots the bgmTTY TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	settings, err := loadSettings(opts.ConfigPath)
	if err != nil {
		return err
	}

	if err := logging.Init(opts.LogFile); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Close()
	logging.SetDebug(opts.Debug)
	log := logging.Component("app")

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		log.Warn("load prefs failed, using defaults", "path", prefsPath, "error", err)
	}

	recents, err := history.Open(opts.HistoryPath)
	if err != nil {
		log.Warn("open history failed, recent subjects disabled", "error", err)
		recents = nil
	}
	defer func() {
		if err := recents.Close(); err != nil {
			log.Warn("close history failed", "error", err)
		}
	}()

	client, err := newClient(settings, opts.BaseURL)
	if err != nil {
		return err
	}

	log.Info("starting ui", "user", settings.Auth.UserID, "theme", userPrefs.Theme)

	uiOpts := ui.Options{
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
		Logger:    logging.Component("ui"),
	}
	if recents != nil {
		uiOpts.Recents = recents
	}
	stateOpts := state.Options{
		Client:   client,
		PageSize: userPrefs.SearchPageSize,
		Logger:   logging.Component("state"),
	}
	return session(ctx, stateOpts, uiOpts, ui.Run)
}

// session runs the ui over a fresh data cache. Fetches still in flight when
// the ui returns are cancelled and waited for.
func session(ctx context.Context, stateOpts state.Options, uiOpts ui.Options, run func(context.Context, ui.Options) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	data := state.New(ctx, stateOpts)
	uiOpts.Data = data
	err := run(ctx, uiOpts)
	cancel()
	data.Wait()
	return err
}

// AuthOnly checks that the stored token is accepted by the API.
func AuthOnly(ctx context.Context, opts Options) error {
	settings, err := loadSettings(opts.ConfigPath)
	if err != nil {
		return err
	}
	client, err := newClient(settings, opts.BaseURL)
	if err != nil {
		return err
	}
	return verifyToken(ctx, client)
}

// Logout removes the stored token and keeps the application credentials.
func Logout(opts Options) error {
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	settings.Logout()
	if err := config.Save(opts.ConfigPath, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func loadSettings(path string) (config.Settings, error) {
	settings, err := config.Load(path)
	if err != nil {
		if errors.Is(err, config.ErrNotInitialized) {
			return config.Settings{}, err
		}
		return config.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if !settings.Authorized() {
		return config.Settings{}, fmt.Errorf("no access token: %w", config.ErrNotInitialized)
	}
	return settings, nil
}

func newClient(settings config.Settings, baseURL string) (*bangumi.Client, error) {
	client, err := bangumi.NewClient(bangumi.ClientOptions{
		BaseURL:     baseURL,
		AccessToken: settings.Auth.AccessToken,
		UserID:      settings.Auth.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("init bangumi client: %w", err)
	}
	return client, nil
}

// verifyToken fetches the collection once with the stored token.
func verifyToken(ctx context.Context, client bangumi.Service) error {
	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()
	if _, err := client.Collection(ctx); err != nil {
		var apiErr *bangumi.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return fmt.Errorf("access token rejected, run bgmtty --init: %w", err)
		}
		return fmt.Errorf("verify access token: %w", err)
	}
	return nil
}
