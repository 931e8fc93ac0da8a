// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging configures structured logging for protocol-reports.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type ctxKey string

// ErrKey is the attribute key used for errors.
const ErrKey = "error"

const (
	slogFields      ctxKey = "slog_fields"
	logLevelDefault        = slog.LevelInfo
)

type contextHandler struct {
	slog.Handler
}

// Handle adds the attributes stored in ctx to the record.
func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs keeps the context handler wrapping intact.
func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

// WithGroup keeps the context handler wrapping intact.
func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

// AppendCtx returns a context carrying attr in addition to any attributes
// already stored. Every record logged with that context includes them.
func AppendCtx(parent context.Context, attrs ...slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	existing, _ := parent.Value(slogFields).([]slog.Attr)
	v := make([]slog.Attr, 0, len(existing)+len(attrs))
	v = append(v, existing...)
	v = append(v, attrs...)
	return context.WithValue(parent, slogFields, v)
}

// ParseLevel maps debug, info, warn, and error to a slog level. Anything
// else yields the default level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		return slog.LevelInfo
	default:
		return logLevelDefault
	}
}

// New builds a JSON logger writing to w.
func New(w io.Writer, level slog.Level, addSource bool) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, AddSource: addSource})
	return slog.New(contextHandler{h})
}

// Init installs the default logger from LOG_LEVEL and LOG_ADD_SOURCE and
// returns it. Logs go to stderr so stdout stays free for command output.
func Init() *slog.Logger {
	addSource := os.Getenv("LOG_ADD_SOURCE")
	logger := New(os.Stderr, ParseLevel(os.Getenv("LOG_LEVEL")),
		addSource == "true" || addSource == "t" || addSource == "1")
	slog.SetDefault(logger)
	return logger
}

// Err wraps an error as a log attribute.
func Err(err error) slog.Attr {
	return slog.Any(ErrKey, err)
}
