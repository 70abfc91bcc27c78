package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath = "~/.config/bgmtty/bgmtty.yml"
	refreshRatio      = 0.2
)

// ErrNotInitialized is returned by Load when no settings file exists yet.
var ErrNotInitialized = errors.New("settings not initialized, run bgmtty --init")

// Credentials identify the registered bgm.tv application.
type Credentials struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// Auth is the OAuth token obtained for the user.
type Auth struct {
	AccessToken  string `yaml:"access_token"`
	UserID       int    `yaml:"user_id"`
	RefreshToken string `yaml:"refresh_token,omitempty"`
	ExpiresIn    int64  `yaml:"expires_in,omitempty"` // seconds
	Time         int64  `yaml:"time"`                 // unix seconds when issued
	Redirect     string `yaml:"redirect,omitempty"`
}

func (a Auth) age(now time.Time) int64 {
	return now.Unix() - a.Time
}

// Outdated reports whether the token has expired. Tokens without a known
// lifetime never expire.
func (a Auth) Outdated(now time.Time) bool {
	return a.ExpiresIn > 0 && a.age(now) > a.ExpiresIn
}

// RequiresRefresh reports whether a fifth of the token lifetime has passed.
func (a Auth) RequiresRefresh(now time.Time) bool {
	return a.ExpiresIn > 0 && float64(a.age(now)) > float64(a.ExpiresIn)*refreshRatio
}

// Settings is the persisted bgmTTY settings file.
type Settings struct {
	Credentials Credentials `yaml:"credentials"`
	Auth        *Auth       `yaml:"auth,omitempty"`
}

// Authorized reports whether a usable access token is present.
func (s Settings) Authorized() bool {
	return s.Auth != nil && strings.TrimSpace(s.Auth.AccessToken) != "" && s.Auth.UserID > 0
}

// Logout drops the stored token, keeping the application credentials.
func (s *Settings) Logout() {
	s.Auth = nil
}

// DefaultPath returns the default settings file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the settings file. A missing file yields ErrNotInitialized.
func Load(path string) (Settings, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return Settings{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Settings{}, fmt.Errorf("%s: %w", resolved, ErrNotInitialized)
		}
		return Settings{}, fmt.Errorf("open settings: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(bytes, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	s.Credentials.ClientID = strings.TrimSpace(s.Credentials.ClientID)
	s.Credentials.ClientSecret = strings.TrimSpace(s.Credentials.ClientSecret)
	if s.Auth != nil {
		s.Auth.AccessToken = strings.TrimSpace(s.Auth.AccessToken)
	}
	return s, nil
}

// Save writes the settings file with owner-only permissions, creating
// directories as needed.
func Save(path string, s Settings) error {
	resolved, err := ResolvePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o700); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	bytes, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(resolved, bytes, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// ResolvePath expands path, or the default path when empty, to an absolute
// file name.
func ResolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

// ExpandPath expands a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
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
