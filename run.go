package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/olivier-w/aerial/internal/catalog"
	"github.com/olivier-w/aerial/internal/config"
	"github.com/olivier-w/aerial/internal/control"
	"github.com/olivier-w/aerial/internal/logger"
	"github.com/olivier-w/aerial/internal/media"
	"github.com/olivier-w/aerial/internal/playback"
	"github.com/olivier-w/aerial/internal/player"
	"github.com/olivier-w/aerial/internal/rawterm"
	"github.com/olivier-w/aerial/internal/stats"
	"github.com/olivier-w/aerial/internal/ui"
	"github.com/rs/zerolog"
)

// options are the command line values. Empty values leave the config alone.
type options struct {
	Path        string
	NoRecursive bool
	ConfigPath  string
	UI          string
	Audio       string
	LogLevel    string
}

func (o options) apply(cfg *config.Config) {
	if o.Path != "" {
		cfg.Library.Path = o.Path
	}
	if o.NoRecursive {
		cfg.Library.NoRecursive = true
	}
	if o.UI != "" {
		cfg.UI.Backend = o.UI
	}
	if o.Audio != "" {
		cfg.Audio.Backend = o.Audio
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
}

type engine interface {
	playback.Engine
	Close() error
}

func newEngine(backend string) engine {
	if backend == "oto" {
		return player.New()
	}
	return player.NewBeep()
}

type terminal interface {
	control.Input
	control.Renderer
	Close() error
}

func openTerminal(backend string) (terminal, error) {
	if backend == "raw" {
		return rawterm.Open(os.Stdin, os.Stdout)
	}
	t := ui.NewTerminal()
	t.Start()
	return t, nil
}

// run wires everything together and returns the process exit code.
func run(ctx context.Context, opts options, stderr io.Writer) int {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	log, logCloser, err := logger.Init(logger.Config{
		Output: cfg.Log.Output,
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer logCloser.Close()

	tracks, err := catalog.Load(cfg.Library.Path, !cfg.Library.NoRecursive, func(path string, err error) {
		log.Warn().Err(err).Str("path", path).Msg("skipping unreadable directory")
	})
	if err != nil {
		var empty *catalog.EmptyCatalogError
		if errors.As(err, &empty) {
			fmt.Fprintf(stderr, "No audio files found in %s\n", empty.Root)
			fmt.Fprintf(stderr, "Supported formats: %s\n", media.SupportedExtsList())
			return 1
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	log.Info().
		Str("root", cfg.Library.Path).
		Int("tracks", tracks.Len()).
		Str("ui", cfg.UI.Backend).
		Str("audio", cfg.Audio.Backend).
		Msg("starting")

	eng := newEngine(cfg.Audio.Backend)
	defer eng.Close()
	machine := playback.New(tracks, eng, playback.WithShuffle(cfg.Playback.Shuffle))

	loopOpts := []control.Option{
		control.WithCadence(cfg.Cadence()),
		control.WithLogger(log),
	}
	if store := openStats(cfg, log); store != nil {
		defer store.Close()
		loopOpts = append(loopOpts, control.WithRecorder(store))
	}

	term, err := openTerminal(cfg.UI.Backend)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	runErr := control.New(machine, term, term, loopOpts...).Run(ctx)
	if err := term.Close(); err != nil {
		log.Warn().Err(err).Msg("closing terminal")
	}

	if runErr != nil {
		log.Error().Err(runErr).Msg("loop ended")
		fmt.Fprintf(stderr, "Error: %v\n", runErr)
		return 1
	}
	return 0
}

// openStats returns nil when play history is off or unavailable.
func openStats(cfg *config.Config, log zerolog.Logger) *stats.Store {
	if !cfg.Stats.Enabled {
		return nil
	}
	store, err := stats.Open(cfg.Stats.DBPath)
	if err != nil {
		log.Warn().Err(err).Msg("play history disabled")
		return nil
	}
	return store
}
