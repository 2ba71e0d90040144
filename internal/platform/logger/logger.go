// Package logger constructs the process-wide slog logger. Services receive a
// *slog.Logger by injection; there is no package-level logger.
package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON logger writing to stdout at the given level.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
