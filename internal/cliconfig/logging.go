package cliconfig

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/calcpad/internal/domain"
)

// Logger returns the CLI logger: console output on stderr, built at trace
// level so that SetLevel alone decides what is written.
func Logger() zerolog.Logger {
	return NewLogger(os.Stderr, zerolog.TraceLevel)
}

// NewLogger returns a console logger writing to w at the given level.
func NewLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}

// ParseLevel parses a validated log level, falling back to info.
func ParseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return l
}

// SetLevel sets the global zerolog level. Loggers built by NewLogger at
// trace level then follow it, so the level can change at runtime.
func SetLevel(level string) error {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("%w: log level %q", domain.ErrInvalidConfig, level)
	}
	if l == zerolog.NoLevel {
		l = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(l)
	return nil
}
