package logger

import (
	"log/slog"
	"os"
)

// NewConsoleHandler writes human readable records to stderr. Used by the
// one-shot setup commands, where stdout is reserved for their output.
func NewConsoleHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
}
