package bootstrap

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the root logger every component derives from. Pretty
// console output in development, JSON everywhere else.
func NewLogger(env *Env) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	if env.AppEnv == "development" {
		writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
		return zerolog.New(writer).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
