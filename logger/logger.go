package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Default is the process-wide logger instance, set by Init.
var Default zerolog.Logger

// Init configures zerolog with a console writer and the level taken from
// LOG_LEVEL (debug when unset, info in production).
func Init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(level())

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}
	Default = zerolog.New(output).With().Timestamp().Logger()
}

func level() zerolog.Level {
	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		if os.Getenv("LUXO_ENVIRONMENT") == "production" {
			return zerolog.InfoLevel
		}
		return zerolog.DebugLevel
	}
	lvl, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// For returns a logger tagged with a component name.
func For(component string) zerolog.Logger {
	return Default.With().Str("component", component).Logger()
}
