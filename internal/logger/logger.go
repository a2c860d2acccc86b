// Package logger provides structured logging using zerolog.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Config represents logger configuration.
type Config struct {
	Output string // "file", "stderr" or "none"
	Level  string // "debug", "info", "warn", "error"
	File   string // log file path when Output is "file"
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Init builds the logger described by cfg and installs it as the global
// zerolog logger. The returned closer releases the log file, if any.
func Init(cfg Config) (zerolog.Logger, io.Closer, error) {
	level := parseLevel(cfg.Level)

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return filepath.Join(filepath.Base(filepath.Dir(file)), filepath.Base(file)) + ":" + strconv.Itoa(line)
	}

	var (
		logger zerolog.Logger
		closer io.Closer = nopCloser{}
	)
	switch strings.ToLower(cfg.Output) {
	case "none":
		logger = zerolog.Nop()
		zlog.Logger = logger
		return logger, closer, nil
	case "stderr":
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.TimeOnly,
		}).With().Timestamp().Logger()
	default:
		f, err := openFile(cfg.File)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		closer = f
		logger = zerolog.New(f).With().Timestamp().Logger()
	}

	if level == zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	logger = logger.Level(level)

	zerolog.DefaultContextLogger = &logger
	zlog.Logger = logger
	return logger, closer, nil
}

func openFile(path string) (*os.File, error) {
	if path == "" {
		return nil, errors.New("log output is file but no log file is set")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating log directory")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "opening log file")
	}
	return f, nil
}

// parseLevel parses the log level string.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
