package render

import (
	"log/slog"
	"sync/atomic"
)

var pkgLogger atomic.Pointer[slog.Logger]

var discardLogger = slog.New(slog.DiscardHandler)

// SetLogger sets the package-level logger used by rasterizers created
// without WithLogger. Passing nil restores the silent default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = discardLogger
	}
	pkgLogger.Store(l)
}

func slogger() *slog.Logger {
	if l := pkgLogger.Load(); l != nil {
		return l
	}
	return discardLogger
}
