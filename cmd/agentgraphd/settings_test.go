package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph/api"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/config"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/persist"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := loadSettings("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", s.Addr)
	assert.Equal(t, "sqlite", s.StoreDriver)
	assert.Equal(t, "agentgraph.db", s.StorePath)
	assert.Equal(t, int64(api.DefaultMaxBodyBytes), s.MaxBodyBytes)
	assert.Equal(t, slog.LevelInfo, s.LogLevel)
	assert.Equal(t, 30*time.Second, s.ShutdownTimeout)

	cat, err := s.catalog()
	require.NoError(t, err)
	assert.True(t, cat.Has("greeting"))
}

func TestLoadSettings_File(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "templates.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`
templates:
  - kind: greeting
    label: Greeting
  - kind: sms_reply
    label: SMS reply
`), 0o600))

	settingsPath := filepath.Join(dir, "agentgraphd.yaml")
	require.NoError(t, os.WriteFile(settingsPath, []byte(`
server:
  addr: "127.0.0.1:9000"
  write_timeout: 5s
store:
  driver: memory
catalog:
  path: `+catalogPath+`
log:
  level: debug
  format: text
`), 0o600))

	s, err := loadSettings(settingsPath)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", s.Addr)
	assert.Equal(t, 5*time.Second, s.WriteTimeout)
	assert.Equal(t, slog.LevelDebug, s.LogLevel)

	store, err := s.openStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	assert.IsType(t, &persist.MemoryStore{}, store)

	cat, err := s.catalog()
	require.NoError(t, err)
	assert.Equal(t, []string{"greeting", "sms_reply"}, cat.Kinds())
}

func TestSettingsFromConfig_Errors(t *testing.T) {
	_, err := settingsFromConfig(config.New(map[string]any{
		"store": map[string]any{"driver": "postgres"},
	}))
	assert.ErrorContains(t, err, "unknown driver")

	_, err = settingsFromConfig(config.New(map[string]any{
		"log": map[string]any{"level": "loud"},
	}))
	assert.ErrorContains(t, err, "log.level")

	_, err = loadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestOpenStore_SQLite(t *testing.T) {
	s, err := settingsFromConfig(config.New(map[string]any{
		"store": map[string]any{"path": filepath.Join(t.TempDir(), "graphs.db")},
	}))
	require.NoError(t, err)

	store, err := s.openStore()
	require.NoError(t, err)
	assert.IsType(t, &persist.SQLiteStore{}, store)
	assert.NoError(t, store.Close())
}
