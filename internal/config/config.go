// Package config loads aerial's TOML configuration.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "aerial"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "AERIAL_"

// Config is the full application configuration.
type Config struct {
	Library  LibraryConfig  `koanf:"library"`
	UI       UIConfig       `koanf:"ui"`
	Audio    AudioConfig    `koanf:"audio"`
	Playback PlaybackConfig `koanf:"playback"`
	Stats    StatsConfig    `koanf:"stats"`
	Log      LogConfig      `koanf:"log"`
}

// LibraryConfig controls what gets scanned.
type LibraryConfig struct {
	Path        string `koanf:"path" default:"."`
	NoRecursive bool   `koanf:"no_recursive"`
}

// UIConfig selects the terminal back end and the loop cadence.
type UIConfig struct {
	Backend   string `koanf:"backend" default:"tea" validate:"oneof=tea raw"`
	CadenceMs int    `koanf:"cadence_ms" default:"200" validate:"gte=20,lte=1000"`
}

// AudioConfig selects the audio engine.
type AudioConfig struct {
	Backend string `koanf:"backend" default:"beep" validate:"oneof=beep oto"`
}

// PlaybackConfig holds the initial playback flags.
type PlaybackConfig struct {
	Shuffle bool `koanf:"shuffle"`
}

// StatsConfig controls the play history database.
type StatsConfig struct {
	Enabled bool   `koanf:"enabled"`
	DBPath  string `koanf:"db_path"`
}

// LogConfig controls the log sink. The terminal owns stdout, so logs go to a
// file, stderr or nowhere.
type LogConfig struct {
	Level  string `koanf:"level" default:"info" validate:"oneof=debug info warn error"`
	Output string `koanf:"output" default:"file" validate:"oneof=file stderr none"`
	File   string `koanf:"file"`
}

// Cadence returns the loop cadence as a duration.
func (c *Config) Cadence() time.Duration {
	return time.Duration(c.UI.CadenceMs) * time.Millisecond
}

// Load reads configuration. With an explicit path only that file is read and
// it must exist; otherwise the user config file and ./aerial.toml are read
// when present, the latter winning. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
		return load([]string{path})
	}
	return load(defaultPaths())
}

func defaultPaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		appName + ".toml",
	}
}

func load(paths []string) (*Config, error) {
	k := koanf.New(".")
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s", path)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}

	if err := cfg.overrideFromEnv(); err != nil {
		return nil, err
	}

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	cfg.fillPaths()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return &cfg, nil
}

// overrideFromEnv applies AERIAL_* variables over file values.
func (c *Config) overrideFromEnv() error {
	strs := map[string]*string{
		"LIBRARY_PATH":  &c.Library.Path,
		"UI_BACKEND":    &c.UI.Backend,
		"AUDIO_BACKEND": &c.Audio.Backend,
		"STATS_DB_PATH": &c.Stats.DBPath,
		"LOG_LEVEL":     &c.Log.Level,
		"LOG_OUTPUT":    &c.Log.Output,
		"LOG_FILE":      &c.Log.File,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"LIBRARY_NO_RECURSIVE": &c.Library.NoRecursive,
		"PLAYBACK_SHUFFLE":     &c.Playback.Shuffle,
		"STATS_ENABLED":        &c.Stats.Enabled,
	}
	for name, dst := range bools {
		v, ok := os.LookupEnv(EnvPrefix + name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s%s", EnvPrefix, name)
		}
		*dst = b
	}

	if v, ok := os.LookupEnv(EnvPrefix + "UI_CADENCE_MS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %sUI_CADENCE_MS", EnvPrefix)
		}
		c.UI.CadenceMs = n
	}
	return nil
}

// fillPaths expands ~ and sets the XDG locations for unset paths.
func (c *Config) fillPaths() {
	c.Library.Path = expandPath(c.Library.Path)
	if c.Stats.DBPath == "" {
		c.Stats.DBPath = filepath.Join(xdg.DataHome, appName, appName+".db")
	}
	c.Stats.DBPath = expandPath(c.Stats.DBPath)
	if c.Log.File == "" {
		c.Log.File = filepath.Join(xdg.StateHome, appName, appName+".log")
	}
	c.Log.File = expandPath(c.Log.File)
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
