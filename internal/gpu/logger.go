//go:build !nogpu

package gpu

import (
	"log/slog"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(slog.DiscardHandler))
}

// slogger returns the package logger. It is silent until the accelerator
// receives one from pixkernel.SetLogger.
func slogger() *slog.Logger { return logger.Load() }

func setLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	logger.Store(l)
}
