package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := load(nil)
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Library.Path)
	assert.False(t, cfg.Library.NoRecursive)
	assert.Equal(t, "tea", cfg.UI.Backend)
	assert.Equal(t, 200, cfg.UI.CadenceMs)
	assert.Equal(t, 200*time.Millisecond, cfg.Cadence())
	assert.Equal(t, "beep", cfg.Audio.Backend)
	assert.False(t, cfg.Playback.Shuffle)
	assert.False(t, cfg.Stats.Enabled)
	assert.Equal(t, filepath.Join("aerial", "aerial.db"), lastTwo(cfg.Stats.DBPath))
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "file", cfg.Log.Output)
	assert.Equal(t, filepath.Join("aerial", "aerial.log"), lastTwo(cfg.Log.File))
}

func lastTwo(path string) string {
	return filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path))
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
[library]
path = "/srv/music"
no_recursive = true

[ui]
backend = "raw"
cadence_ms = 100

[audio]
backend = "oto"

[playback]
shuffle = true

[stats]
enabled = true
db_path = "/tmp/plays.db"

[log]
level = "debug"
output = "stderr"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/music", cfg.Library.Path)
	assert.True(t, cfg.Library.NoRecursive)
	assert.Equal(t, "raw", cfg.UI.Backend)
	assert.Equal(t, 100*time.Millisecond, cfg.Cadence())
	assert.Equal(t, "oto", cfg.Audio.Backend)
	assert.True(t, cfg.Playback.Shuffle)
	assert.True(t, cfg.Stats.Enabled)
	assert.Equal(t, "/tmp/plays.db", cfg.Stats.DBPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "stderr", cfg.Log.Output)
}

func TestLaterFileWins(t *testing.T) {
	dir := t.TempDir()
	user := writeFile(t, dir, "user.toml", "[ui]\nbackend = \"raw\"\ncadence_ms = 300\n")
	local := writeFile(t, dir, "local.toml", "[ui]\ncadence_ms = 50\n")

	cfg, err := load([]string{user, filepath.Join(dir, "missing.toml"), local})
	require.NoError(t, err)
	assert.Equal(t, "raw", cfg.UI.Backend)
	assert.Equal(t, 50, cfg.UI.CadenceMs)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", "[audio]\nbackend = \"oto\"\n[ui]\ncadence_ms = 300\n")
	t.Setenv("AERIAL_AUDIO_BACKEND", "beep")
	t.Setenv("AERIAL_UI_CADENCE_MS", "40")
	t.Setenv("AERIAL_STATS_ENABLED", "true")
	t.Setenv("AERIAL_LIBRARY_PATH", "/mnt/usb")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "beep", cfg.Audio.Backend)
	assert.Equal(t, 40, cfg.UI.CadenceMs)
	assert.True(t, cfg.Stats.Enabled)
	assert.Equal(t, "/mnt/usb", cfg.Library.Path)
}

func TestEnvRejectsMalformedValues(t *testing.T) {
	t.Setenv("AERIAL_STATS_ENABLED", "maybe")
	_, err := load(nil)
	assert.ErrorContains(t, err, "AERIAL_STATS_ENABLED")
}

func TestValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"cadence too small", "[ui]\ncadence_ms = 5\n", "CadenceMs"},
		{"cadence too large", "[ui]\ncadence_ms = 5000\n", "CadenceMs"},
		{"unknown ui", "[ui]\nbackend = \"gtk\"\n", "Backend"},
		{"unknown audio", "[audio]\nbackend = \"alsa\"\n", "Backend"},
		{"unknown level", "[log]\nlevel = \"trace\"\n", "Level"},
		{"unknown output", "[log]\noutput = \"stdout\"\n", "Output"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.toml", tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestExplicitPathMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestMalformedTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", "[ui\nbackend = \n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Music"), expandPath("~/Music"))
	assert.Equal(t, "/abs/path", expandPath("/abs/path"))
	assert.Equal(t, "rel", expandPath("rel"))
}
