package pixkernel

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards all records. Enabled returns false so callers skip
// formatting entirely.
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

// SetLogger configures the logger for pixkernel and its sub-packages.
// By default nothing is logged. Pass nil to restore silence.
//
// Levels used:
//   - [slog.LevelDebug]: buffer growth, pass dimensions, GPU buffer sizes
//   - [slog.LevelInfo]: GPU adapter selected
//   - [slog.LevelWarn]: CPU fallback, resource release errors
//
// SetLogger is safe for concurrent use.
//
//	pixkernel.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	if a := CurrentAccelerator(); a != nil {
		propagateLogger(a, l)
	}
}

// Logger returns the current logger.
// Sub-packages call this to share the configuration without import cycles.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger hands l to a if it accepts a logger.
func propagateLogger(a Accelerator, l *slog.Logger) {
	if ls, ok := a.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
