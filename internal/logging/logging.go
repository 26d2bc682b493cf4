// Package logging builds the zerolog logger the core packages read from the
// context.
package logging

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger at the named level. An unknown level falls
// back to warn.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// Attach returns ctx carrying logger.
func Attach(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}
