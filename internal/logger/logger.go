package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the service logger: console output in development,
// JSON everywhere else.
func New(env string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	if env == "development" {
		out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(out).With().Timestamp().Str("service", "photo-service").Logger()
	}

	return zerolog.New(os.Stdout).With().Timestamp().Str("service", "photo-service").Logger()
}
