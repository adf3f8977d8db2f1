package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// teeHandler writes every record to the console and mirrors it to the
// journal. The first failed journal write drops the mirror for the rest of
// the process and leaves one warning on the console.
type teeHandler struct {
	console slog.Handler
	journal slog.Handler
	lost    *atomic.Bool
}

func newTeeHandler(console, journal slog.Handler) *teeHandler {
	return &teeHandler{console: console, journal: journal, lost: &atomic.Bool{}}
}

func (t *teeHandler) mirroring() bool {
	return !t.lost.Load()
}

// Enabled implements slog.Handler.
func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return t.console.Enabled(ctx, level) || (t.mirroring() && t.journal.Enabled(ctx, level))
}

// Handle implements slog.Handler. Only console errors are returned.
func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	if t.console.Enabled(ctx, r.Level) {
		err = t.console.Handle(ctx, r.Clone())
	}

	if t.mirroring() && t.journal.Enabled(ctx, r.Level) {
		if jerr := t.journal.Handle(ctx, r.Clone()); jerr != nil && t.lost.CompareAndSwap(false, true) {
			warn := slog.NewRecord(time.Now(), slog.LevelWarn, "Journal unavailable, logging to console only", 0)
			warn.AddAttrs(slog.String("error", jerr.Error()))
			_ = t.console.Handle(ctx, warn)
		}
	}
	return err
}

// WithAttrs implements slog.Handler. Derived handlers share the lost flag.
func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &teeHandler{console: t.console.WithAttrs(attrs), journal: t.journal.WithAttrs(attrs), lost: t.lost}
}

// WithGroup implements slog.Handler.
func (t *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{console: t.console.WithGroup(name), journal: t.journal.WithGroup(name), lost: t.lost}
}
