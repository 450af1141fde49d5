// Package logger provides the structured, levelled logger built on log/slog.
//
// Setup is called once from main with the app environment. Handlers log
// through the per-request logger carried in the context:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order placed", "order_id", id)
//	// → time=... level=INFO msg="order placed" request_id=a1b2c3d4 order_id=...
package logger

import (
	"context"
	"log/slog"
	"os"
)

var base = slog.New(slog.NewTextHandler(os.Stdout, nil))

// Setup configures the process logger. Production environments get JSON at
// INFO for log aggregators; everything else gets human-readable text at
// DEBUG. Extra handlers (e.g. the Mongo sink) are fanned out alongside.
func Setup(production bool, extra ...slog.Handler) {
	var handler slog.Handler
	if production {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	if len(extra) > 0 {
		handler = NewMultiHandler(append([]slog.Handler{handler}, extra...)...)
	}

	base = slog.New(handler)
	slog.SetDefault(base)
}

type ctxKey struct{}

// WithCtx returns the per-request *slog.Logger stored by the Logger
// middleware, pre-tagged with the request_id. Falls back to the base
// logger when none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return base
}

// InjectLogger stores a pre-tagged *slog.Logger into ctx. Called by the
// Logger middleware — not usually needed in application code.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// L returns the base logger.
func L() *slog.Logger { return base }

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { base.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { base.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { base.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { base.Error(msg, args...) }
