// Package logging holds the structured logger shared by every package in the
// module. Nothing is logged until SetLogger installs a real logger.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger installs l for all packages. Pass nil to restore silence.
// Safe for concurrent use.
//
// Levels used:
//   - [slog.LevelDebug]: per-buffer scale/transform/save details
//   - [slog.LevelInfo]: collection lifecycle (loaded, disposed, saved)
//   - [slog.LevelWarn]: per-file save failures, cancelled saves
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" to a slog
// level. Anything else yields fallback.
func ParseLevel(s string, fallback slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}

// FromEnv builds a text logger writing to stderr at the level named by the
// environment variable envVar (default warn) and installs it.
func FromEnv(envVar string) *slog.Logger {
	level := ParseLevel(os.Getenv(envVar), slog.LevelWarn)
	l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	SetLogger(l)
	return l
}
