package common

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so attribute
// formatting is skipped entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger sets the logger shared by the engine packages.
// By default nothing is logged. Passing nil restores the silent default.
//
// Log levels used:
//   - slog.LevelDebug: buffer sizes, pipeline state, per-frame camera changes
//   - slog.LevelInfo: adapter selection, surface configuration, profiler output
//   - slog.LevelWarn: non-fatal issues such as a failed present or a skipped frame
//
// Parameters:
//   - l: the logger to install, or nil to disable logging
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the logger set by SetLogger. Safe for concurrent use.
//
// Returns:
//   - *slog.Logger: the active logger
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
