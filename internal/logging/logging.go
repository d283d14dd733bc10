// Package logging provides structured, leveled logging shared by every
// component of the pipeline, built on log/slog.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Config controls how a Logger is constructed.
type Config struct {
	Level     string // debug, info, warn, error
	Format    string // text or json
	Output    io.Writer
	AddSource bool
}

// NewLogger builds a slog.Logger from cfg, defaulting to info/text/stderr.
func NewLogger(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}

// ParseLevel maps a config string onto a slog.Level, defaulting to info
// for anything unrecognized.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = slog.Default()
)

// SetDefault replaces the package-level default logger.
func SetDefault(l *slog.Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// Default returns the current package-level default logger.
func Default() *slog.Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// WithComponent tags log lines with the subsystem that produced them
// (tailer, reader, store, rules, orchestrator).
func WithComponent(l *slog.Logger, component string) *slog.Logger {
	return l.With("component", component)
}

// WithPath tags log lines with the log file a tailer/reader is handling.
func WithPath(l *slog.Logger, path string) *slog.Logger {
	return l.With("path", path)
}

// WithRule tags log lines with the rule catalog entry that produced them.
func WithRule(l *slog.Logger, rule string) *slog.Logger {
	return l.With("rule", rule)
}

// WithCorrelationID tags log lines from a single rule-engine evaluation
// pass so they can be grouped in aggregated log output.
func WithCorrelationID(l *slog.Logger, id string) *slog.Logger {
	return l.With("correlation_id", id)
}

type ctxKey struct{}

// ContextWithLogger returns a context carrying l, retrievable with FromContext.
func ContextWithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger attached to ctx, or the package default
// if none was attached.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return Default()
}

// Info logs at info level through the default logger.
func Info(msg string, args ...any) { Default().Info(msg, args...) }

// Warn logs at warn level through the default logger.
func Warn(msg string, args ...any) { Default().Warn(msg, args...) }

// Error logs at error level through the default logger.
func Error(msg string, args ...any) { Default().Error(msg, args...) }

// Debug logs at debug level through the default logger.
func Debug(msg string, args ...any) { Default().Debug(msg, args...) }
