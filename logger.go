package paint

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false, so a
// disabled session logger never formats its attributes.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr holds the package logger that New hands to each session.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger sets the package logger. paint is silent until it is called;
// nil makes it silent again.
//
// New copies the package logger into the session and adds a "session"
// attribute holding the session ID, so changing the logger later only
// affects sessions created afterwards. WithLogger overrides it for one
// session.
//
// Records written by a session:
//   - Info: "session created" (width, height, tool), "surface cleared",
//     "surface resized" (width, height), "image imported" (format, width,
//     height), "session closed"
//   - Warn: "snapshot failed", "undo failed", "redo failed", "import failed",
//     each with an "err" attribute
//   - Debug: gestures, tool and style changes ignored outside Idle
//     ("gesture start ignored", "tool change ignored", ...), discarded
//     selections and empty text, fills outside the surface, and copy, cut,
//     paste, undo or redo with nothing to act on
//
// Example:
//
//	paint.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the package logger. It is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
