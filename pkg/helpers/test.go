package helpers

import (
	"context"
	"log/slog"

	"github.com/GregMSThompson/vending-backend/pkg/logger"
)

// TestLogger discards everything at info and above.
func TestLogger() *slog.Logger {
	return slog.New(logger.NewTestHandler(slog.LevelInfo))
}

// TestCtx returns a context carrying a test logger.
func TestCtx() context.Context {
	return logger.ToContext(context.Background(), TestLogger())
}
