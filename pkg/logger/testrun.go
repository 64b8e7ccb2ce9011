package logger

import (
	"io"
	"log/slog"
)

// NewTestHandler discards output.
func NewTestHandler(level slog.Level) slog.Handler {
	return NewCaptureHandler(io.Discard, level)
}

// NewCaptureHandler writes JSON records to w so tests can assert on fields.
func NewCaptureHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}
