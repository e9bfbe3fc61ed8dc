package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 89, cfg.Game.MaxTurns)
	assert.Equal(t, 75, cfg.Game.TurnTimeLimit)
	assert.False(t, cfg.Game.DebugMode)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
logging:
  level: debug
  format: json
game:
  max_turns: 50
  random_seed: 12345
  debug_mode: true
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 50, cfg.Game.MaxTurns)
	assert.Equal(t, int64(12345), cfg.Game.RandomSeed)
	assert.True(t, cfg.Game.DebugMode)
	// Untouched keys keep their defaults.
	assert.Equal(t, 75, cfg.Game.TurnTimeLimit)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
