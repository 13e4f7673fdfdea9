package vtext

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/vtext/atlas"
	"github.com/gogpu/vtext/glyph"
	"github.com/gogpu/vtext/gpu"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
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

// SetLogger configures the logger for vtext and all its sub-packages.
// By default, vtext produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to disable logging.
//
// Log levels used by vtext:
//   - [slog.LevelDebug]: glyph resolution, allocations, vertex uploads
//   - [slog.LevelInfo]: atlas group creation
//   - [slog.LevelWarn]: glyphs too large for the atlas, failed uploads
//
// Example:
//
//	vtext.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	atlas.SetLogger(l)
	glyph.SetLogger(l)
	gpu.SetLogger(l)
}

// Logger returns the current logger used by vtext.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
