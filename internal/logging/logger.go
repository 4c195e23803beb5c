package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a JSON logger that tags every event with component.
func NewLogger(w io.Writer, component string) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Str("component", component).Logger()
}

// NewConsoleLogger returns a human-readable logger for terminal use.
func NewConsoleLogger(w io.Writer, component string, level zerolog.Level) zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(cw).Level(level).With().Timestamp().Str("component", component).Logger()
}

// NewDefaultLogger logs info and above to stderr.
func NewDefaultLogger() zerolog.Logger {
	return NewConsoleLogger(os.Stderr, "ksim", zerolog.InfoLevel)
}
