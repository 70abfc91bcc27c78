package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentBeforeInitDiscards(t *testing.T) {
	Close()
	log := Component("ui")
	require.NotNil(t, log)
	log.Info("dropped")
}

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bgmtty.log")
	require.NoError(t, Init(path))
	t.Cleanup(Close)

	Component("state").Info("fetch started", "subject", 42)
	SetDebug(true)
	Component("ui").Debug("debug record")
	SetDebug(false)
	Component("ui").Debug("hidden record")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "logger initialized")
	assert.Contains(t, text, "component=state")
	assert.Contains(t, text, "subject=42")
	assert.Contains(t, text, "debug record")
	assert.NotContains(t, text, "hidden record")
}
