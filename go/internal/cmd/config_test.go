package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/rikiki/go/internal/reconcile"
)

const statusURL = "http://localhost:5000/player/0123456789abcdef0123456789abcdef/api/status/"

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("LANG", "")
	cfg, err := loadConfig("")
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.Poll.BaseInterval)
	assert.Equal(t, 3, cfg.Poll.BackoffFactor)
	assert.Zero(t, cfg.Poll.MaxDelay)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "en", cfg.Language)
	assert.Error(t, cfg.validate(), "status URL is required")
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rikiki.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
status_url: `+statusURL+`
language: de
stale_rows: hide
poll:
  base_interval: 2s
  max_delay: 1m
nats:
  url: nats://localhost:4222
`), 0o600))

	t.Setenv("RIKIKI_LANG", "fr")
	t.Setenv("RIKIKI_BACKOFF_FACTOR", "2")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.validate())

	assert.Equal(t, statusURL, cfg.StatusURL)
	assert.Equal(t, "fr", cfg.Language)
	assert.Equal(t, 2*time.Second, cfg.Poll.BaseInterval)
	assert.Equal(t, 2, cfg.Poll.BackoffFactor)
	assert.Equal(t, time.Minute, cfg.pollConfig().MaxDelay)

	stale, err := cfg.stalePolicy()
	require.NoError(t, err)
	assert.Equal(t, reconcile.StaleHide, stale)

	nc := cfg.natsConfig()
	assert.Equal(t, "nats://localhost:4222", nc.URL)
	assert.Equal(t, "rikiki.dashboard", nc.SubjectPrefix)
}

func TestConfig_ValidateRejects(t *testing.T) {
	cfg := defaultConfig()
	cfg.StatusURL = statusURL
	cfg.StaleRows = "delete"
	cfg.Poll.BackoffFactor = 0
	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stale_rows")
	assert.Contains(t, err.Error(), "backoff factor")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
