package adapter

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

type debugKey struct{}

// Debug reports whether debug logging is enabled via the ENBU_DEBUG
// environment variable.
func Debug() bool {
	val := os.Getenv("ENBU_DEBUG")
	return val == "1" || strings.EqualFold(val, "true")
}

// NewDebugLogger creates a logger writing structured JSON to stderr.
// Returns nil if debug logging is disabled, so callers can pass it through
// ContextWithLogger unconditionally.
func NewDebugLogger() *slog.Logger {
	if !Debug() {
		return nil
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// ContextWithLogger attaches logger to ctx. A nil logger is a no-op.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, debugKey{}, logger)
}

// LoggerFromContext returns the logger attached to ctx, or nil.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(debugKey{}).(*slog.Logger); ok {
		return logger
	}
	return nil
}

func debugLog(ctx context.Context, msg string, args ...any) {
	if logger := LoggerFromContext(ctx); logger != nil {
		logger.Debug(msg, args...)
	}
}
