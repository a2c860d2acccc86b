package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verbose"))
}

func TestInitWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "aerial.log")

	log, closer, err := Init(Config{Output: "file", Level: "info", File: path})
	require.NoError(t, err)
	log.Debug().Msg("hidden")
	log.Info().Str("track", "a.mp3").Msg("play")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "play", entry["message"])
	assert.Equal(t, "a.mp3", entry["track"])
	assert.Equal(t, "info", entry["level"])
}

func TestInitFileRequiresPath(t *testing.T) {
	_, _, err := Init(Config{Output: "file"})
	assert.Error(t, err)
}

func TestInitNone(t *testing.T) {
	log, closer, err := Init(Config{Output: "none"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.Disabled, log.GetLevel())
	assert.NoError(t, closer.Close())
}
