package fitingtree

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with fitingtree-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogBuild logs an index construction.
func (l *Logger) LogBuild(ctx context.Context, keys int, segments int) {
	l.DebugContext(ctx, "build completed",
		"keys", keys,
		"segments", segments,
	)
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(ctx context.Context, buffered bool) {
	l.DebugContext(ctx, "insert completed",
		"buffered", buffered,
	)
}

// LogErase logs an erase operation.
func (l *Logger) LogErase(ctx context.Context, hit bool) {
	l.DebugContext(ctx, "erase completed",
		"hit", hit,
	)
}

// LogResegment logs the re-segmentation of an overflowing segment.
func (l *Logger) LogResegment(ctx context.Context, merged int, replacements int) {
	l.DebugContext(ctx, "segment re-segmented",
		"merged", merged,
		"replacements", replacements,
	)
}

// LogCompact logs a compaction pass.
func (l *Logger) LogCompact(ctx context.Context, compacted int, reclaimed int) {
	l.InfoContext(ctx, "compaction completed",
		"segments", compacted,
		"tombstones_reclaimed", reclaimed,
	)
}
