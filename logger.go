package skfactor

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with structure-factor specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithMode adds the estimator mode to the logger.
func (l *Logger) WithMode(mode Mode) *Logger {
	return &Logger{
		Logger: l.Logger.With("mode", mode.String()),
	}
}

// WithFrame adds a frame number field to the logger.
func (l *Logger) WithFrame(frame uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("frame", frame),
	}
}

// LogAccumulate logs one accumulated frame.
func (l *Logger) LogAccumulate(ctx context.Context, frame uint64, points int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "accumulate failed",
			"frame", frame,
			"points", points,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "frame accumulated",
		"frame", frame,
		"points", points,
		"duration", duration,
	)
}

// LogMinValidK logs a tightened lower bound of the valid k range.
func (l *Logger) LogMinValidK(ctx context.Context, frame uint64, rMax, minValidK float64) {
	l.DebugContext(ctx, "min valid k updated",
		"frame", frame,
		"r_max", rMax,
		"min_valid_k", minValidK,
	)
}

// LogReduce logs a reduction.
func (l *Logger) LogReduce(ctx context.Context, frames uint64, duration time.Duration, err error) {
	if err != nil {
		l.WarnContext(ctx, "reduce failed",
			"frames", frames,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "reduced",
		"frames", frames,
		"duration", duration,
	)
}
