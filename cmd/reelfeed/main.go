package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"reelfeed/internal/config"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if cfg.Pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: out}).
			Level(level).
			With().
			Timestamp().
			Logger()
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger()
}
