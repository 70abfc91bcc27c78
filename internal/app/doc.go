// Package app provides the orchestration layer for bgmTTY.
//
// # Overview
//
// This package wires together settings, logging, preferences, the history
// database, the bgm.tv client, the shared data cache and the UI. It is the
// composition root where all dependencies are initialized and connected.
//
// # Startup
//
//  1. Load settings from ~/.config/bgmtty/bgmtty.yml and require a token
//  2. Open the log file; the terminal belongs to the UI
//  3. Load preferences from ~/.config/bgmtty/prefs.toml
//  4. Open the history database of recently opened subjects
//  5. Build the bangumi client and the state.AppState cache
//  6. Start the TUI and block until the user quits or the context ends
//
// # Components
//
//   - app.go: Run, AuthOnly and Logout
//   - credentials.go: the interactive --init prompt
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()       Read settings and token
//	       ├─────> logging.Init()      Open the log file
//	       ├─────> prefs.Load()        Theme, editor, filters, page size
//	       ├─────> history.Open()      Recently opened subjects
//	       ├─────> bangumi.NewClient() HTTP client
//	       ├─────> state.New()         Request-deduplicating cache
//	       ├─────> ui.Run()            Start TUI (blocks)
//	       └─────> AppState.Wait()     Cancel and drain in-flight fetches
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Settings file missing or without a token (config.ErrNotInitialized)
//   - Log file cannot be opened
//   - Client initialization failure
//
// Recoverable errors (logged, startup continues):
//   - Unreadable preferences fall back to defaults
//   - A broken history database disables the recent list
//
// Failures of individual API calls never reach this package; the cache
// retries them with back-off and reports them on the status line.
package app
