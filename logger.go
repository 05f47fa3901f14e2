package eqsearch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/eqsearch/engine"
)

// Logger wraps slog.Logger with eqsearch-specific helpers so every
// operation logs the same field names.
type Logger struct {
	*slog.Logger
}

var _ engine.Logger = (*Logger)(nil)

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

// NewDefaultLogger creates a text Logger to stderr at info level.
func NewDefaultLogger() *Logger {
	return NewLogger(nil)
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
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

// NewNoopLogger creates a Logger that discards all log output.
func NewNoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// Infof implements the engine's progress logger.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// Errorf implements the engine's progress logger.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// WithGoal tags the logger with the canonical forms of a goal.
func (l *Logger) WithGoal(lhs, rhs string) *Logger {
	return &Logger{
		Logger: l.Logger.With("lhs", lhs, "rhs", rhs),
	}
}

// LogSearch logs a finished search.
func (l *Logger) LogSearch(ctx context.Context, lhs, rhs string, steps int64, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"lhs", lhs,
			"rhs", rhs,
			"steps", steps,
			"duration", duration,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"lhs", lhs,
			"rhs", rhs,
			"steps", steps,
			"duration", duration,
		)
	}
}

// LogMeeting logs the moment the two search trees met.
func (l *Logger) LogMeeting(ctx context.Context, pretty string, steps int64) {
	l.DebugContext(ctx, "search trees met",
		"pretty", pretty,
		"steps", steps,
	)
}

// LogAbort logs a search cut short by a budget or the capability.
func (l *Logger) LogAbort(ctx context.Context, reason string, steps int64) {
	l.WarnContext(ctx, "search aborted",
		"reason", reason,
		"steps", steps,
	)
}

// LogArchive logs an archive write.
func (l *Logger) LogArchive(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "archive failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "archive saved",
			"name", name,
		)
	}
}
