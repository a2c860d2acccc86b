package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
)

var (
	app         = kingpin.New("aerial", "Terminal music player for a folder of audio files.")
	pathArg     = app.Arg("path", "Music folder to scan (default: library.path or the current directory).").String()
	noRecursive = app.Flag("no-recursive", "Do not scan subdirectories.").Short('n').Bool()
	configPath  = app.Flag("config", "Config file to read instead of the default locations.").Short('c').String()
	uiFlag      = app.Flag("ui", "Terminal back end: tea or raw.").Enum("tea", "raw")
	audioFlag   = app.Flag("audio", "Audio engine: beep or oto.").Enum("beep", "oto")
	logLevel    = app.Flag("log-level", "Log level: debug, info, warn or error.").Enum("debug", "info", "warn", "error")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, options{
		Path:        *pathArg,
		NoRecursive: *noRecursive,
		ConfigPath:  *configPath,
		UI:          *uiFlag,
		Audio:       *audioFlag,
		LogLevel:    *logLevel,
	}, os.Stderr)
	stop()
	os.Exit(code)
}
