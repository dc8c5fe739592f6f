package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. Debug mode gets a human console writer and
// debug level; release stays plain and quieter.
func New(mode string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
		NoColor:    mode == "release",
	}

	logger := zerolog.New(output).With().
		Timestamp().
		Logger()

	if mode == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	return logger
}
