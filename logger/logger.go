// Package logger builds the application's zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to stderr. Local runs get the console
// writer, everything else writes JSON lines.
func New(level, env string) zerolog.Logger {
	return NewWithWriter(os.Stderr, level, env)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level, env string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if env == "local" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "lego-catalog").Logger()
}

// Printf adapts a zerolog logger to the Logf interface expected by
// go-pkgz/rest middlewares.
type Printf struct {
	log   zerolog.Logger
	level zerolog.Level
}

// NewPrintf returns a Printf writing every line at level.
func NewPrintf(log zerolog.Logger, level zerolog.Level) Printf {
	return Printf{log: log, level: level}
}

// Logf writes one formatted line.
func (p Printf) Logf(format string, args ...interface{}) {
	p.log.WithLevel(p.level).Msgf(format, args...)
}
