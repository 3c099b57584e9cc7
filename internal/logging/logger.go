package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "hospital-management-server"

// New creates a logger at the given level. Development output is human
// readable; every other environment gets JSON with timestamp and caller.
func New(level, env string) zerolog.Logger {
	return NewWithWriter(os.Stdout, level, env)
}

// NewWithWriter is New with an explicit sink.
func NewWithWriter(w io.Writer, level, env string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
			Level(lvl).
			With().
			Timestamp().
			Str("service", serviceName).
			Logger()
	}
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Str("service", serviceName).
		Logger()
}

// Default returns an info-level JSON logger.
func Default() zerolog.Logger {
	return New("info", "production")
}

