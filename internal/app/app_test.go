package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/bgmtty/internal/bangumi"
	"github.com/five82/bgmtty/internal/config"
	"github.com/five82/bgmtty/internal/state"
	"github.com/five82/bgmtty/internal/ui"
)

func settingsPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "bgmtty.yml")
}

func saveSettings(t *testing.T, path string, s config.Settings) {
	t.Helper()
	require.NoError(t, config.Save(path, s))
}

func authorized() config.Settings {
	return config.Settings{
		Credentials: config.Credentials{ClientID: "bgm1", ClientSecret: "secret"},
		Auth:        &config.Auth{AccessToken: "token-1234", UserID: 42, Time: 1000},
	}
}

func TestInitWritesSettings(t *testing.T) {
	path := settingsPath(t)
	var out bytes.Buffer

	err := Init(Options{ConfigPath: path}, strings.NewReader("bgm1\nsecret\n42\ntok\n"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Settings saved to")

	s, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bgm1", s.Credentials.ClientID)
	assert.Equal(t, "secret", s.Credentials.ClientSecret)
	require.NotNil(t, s.Auth)
	assert.Equal(t, "tok", s.Auth.AccessToken)
	assert.Equal(t, 42, s.Auth.UserID)
	assert.Positive(t, s.Auth.Time)
}

func TestInitKeepsCurrentValues(t *testing.T) {
	path := settingsPath(t)
	saveSettings(t, path, authorized())
	var out bytes.Buffer

	require.NoError(t, Init(Options{ConfigPath: path}, strings.NewReader("\n\n\n\n"), &out))
	assert.Contains(t, out.String(), "******1234")
	assert.NotContains(t, out.String(), "token-1234")

	s, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, authorized(), s)
}

func TestInitRejectsBadAnswers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"user id not a number", "a\nb\nabc\ntok\n", "invalid user id"},
		{"user id not positive", "a\nb\n0\ntok\n", "invalid user id"},
		{"missing token", "a\nb\n7\n\n", "access token required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := settingsPath(t)
			err := Init(Options{ConfigPath: path}, strings.NewReader(tt.input), io.Discard)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)

			_, err = config.Load(path)
			assert.ErrorIs(t, err, config.ErrNotInitialized)
		})
	}
}

func TestInitStopsAtEndOfInput(t *testing.T) {
	err := Init(Options{ConfigPath: settingsPath(t)}, strings.NewReader("bgm1\n"), io.Discard)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestLogoutKeepsCredentials(t *testing.T) {
	path := settingsPath(t)
	saveSettings(t, path, authorized())

	require.NoError(t, Logout(Options{ConfigPath: path}))

	s, err := config.Load(path)
	require.NoError(t, err)
	assert.Nil(t, s.Auth)
	assert.Equal(t, "bgm1", s.Credentials.ClientID)
}

func TestLogoutWithoutSettings(t *testing.T) {
	err := Logout(Options{ConfigPath: settingsPath(t)})
	assert.ErrorIs(t, err, config.ErrNotInitialized)
}

func TestRunRequiresSettings(t *testing.T) {
	err := Run(context.Background(), Options{ConfigPath: settingsPath(t)})
	assert.ErrorIs(t, err, config.ErrNotInitialized)

	path := settingsPath(t)
	s := authorized()
	s.Logout()
	saveSettings(t, path, s)
	err = Run(context.Background(), Options{ConfigPath: path})
	assert.ErrorIs(t, err, config.ErrNotInitialized)
}

func TestAuthOnly(t *testing.T) {
	status := http.StatusOK
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/user/42/collection" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	path := settingsPath(t)
	saveSettings(t, path, authorized())
	opts := Options{ConfigPath: path, BaseURL: srv.URL}

	require.NoError(t, AuthOnly(context.Background(), opts))
	assert.Equal(t, "Bearer token-1234", gotAuth)

	status = http.StatusUnauthorized
	err := AuthOnly(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access token rejected")

	status = http.StatusBadGateway
	err = AuthOnly(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verify access token")
}

// stalledService blocks every collection fetch until its context ends.
type stalledService struct {
	bangumi.Service
	started chan struct{}
	ended   chan error
}

func (s *stalledService) Collection(ctx context.Context) ([]bangumi.CollectionEntry, error) {
	close(s.started)
	<-ctx.Done()
	s.ended <- ctx.Err()
	return nil, ctx.Err()
}

func TestSessionCancelsFetchesOnQuit(t *testing.T) {
	svc := &stalledService{started: make(chan struct{}), ended: make(chan error, 1)}
	quit := func(ctx context.Context, opts ui.Options) error {
		opts.Data.FetchCollection()
		<-svc.started
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- session(context.Background(), state.Options{Client: svc}, ui.Options{}, quit)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("session did not return after the ui quit")
	}
	assert.ErrorIs(t, <-svc.ended, context.Canceled)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "bgm1", mask("Client ID", "bgm1"))
	assert.Equal(t, "***", mask("Client secret", "abc"))
	assert.Equal(t, "**cdef", mask("Access token", "abcdef"))
}
