package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/five82/bgmtty/internal/app"
)

var version = "dev"

type cli struct {
	Init     bool `help:"Ask for the application credentials and an access token, then exit." xor:"mode"`
	Logout   bool `help:"Remove the stored access token, then exit." xor:"mode"`
	AuthOnly bool `help:"Check the stored access token against the API, then exit." xor:"mode"`

	Config  string `help:"Settings file (default ~/.config/bgmtty/bgmtty.yml)." placeholder:"PATH"`
	Prefs   string `help:"Preferences file (default ~/.config/bgmtty/prefs.toml)." placeholder:"PATH"`
	LogFile string `help:"Log file (default ~/.local/state/bgmtty/bgmtty.log)." placeholder:"PATH"`
	History string `help:"History database (default ~/.local/state/bgmtty/history.db)." placeholder:"PATH"`
	BaseURL string `help:"API base URL." hidden:""`
	Debug   bool   `help:"Write debug records to the log file."`

	Version kong.VersionFlag `help:"Print version and exit."`
}

func main() {
	os.Exit(run())
}

func run() int {
	var c cli
	kong.Parse(&c,
		kong.Name("bgmtty"),
		kong.Description("Terminal client for bgm.tv collections."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath:  c.Config,
		PrefsPath:   c.Prefs,
		LogFile:     c.LogFile,
		HistoryPath: c.History,
		BaseURL:     c.BaseURL,
		Debug:       c.Debug,
	}

	var err error
	switch {
	case c.Init:
		err = app.Init(opts, os.Stdin, color.Output)
	case c.Logout:
		if err = app.Logout(opts); err == nil {
			_, _ = color.New(color.FgGreen).Fprintln(color.Output, "Logged out.")
		}
	case c.AuthOnly:
		if err = app.AuthOnly(ctx, opts); err == nil {
			_, _ = color.New(color.FgGreen).Fprintln(color.Output, "Access token OK.")
		}
	default:
		err = app.Run(ctx, opts)
	}
	if err != nil {
		_, _ = color.New(color.FgRed).Fprint(color.Error, "bgmtty: ")
		_, _ = fmt.Fprintln(color.Error, err)
		return 1
	}
	return 0
}
