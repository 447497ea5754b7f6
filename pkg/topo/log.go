package topo

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled returns false so callers skip
// building attributes entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger shared by the kernel packages (topo,
// extrude, assembly, export, engine). By default nothing is logged. Pass nil
// to restore the silent default.
//
// Levels:
//   - [slog.LevelDebug]: per-pass statistics (entities swept, boundary sizes)
//   - [slog.LevelWarn]: validation warnings surfaced by the engine
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current kernel logger. It is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
