package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// setupLogging points the global logger at stderr, or at a file when the
// terminal belongs to the TUI. The returned closer releases the file.
func setupLogging(level, file string, tui bool) (io.Closer, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)

	if file == "" && tui {
		file = "rikiki.log"
	}
	if file == "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		return io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: f, NoColor: true})
	return f, nil
}
