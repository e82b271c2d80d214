package logx

import (
	"context"
	"io"

	"github.com/mj1618/tabshuttle/internal/model"
	"pkt.systems/pslog"
)

// New builds a structured logger. Host-call failures are logged at debug
// level, so they only appear when debug is set.
func New(w io.Writer, debug bool) pslog.Logger {
	level := pslog.InfoLevel
	if debug {
		level = pslog.DebugLevel
	}
	return pslog.NewWithOptions(w, pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: level,
	})
}

// NewConsole builds a human-readable logger for interactive use.
func NewConsole(w io.Writer, debug bool) pslog.Logger {
	level := pslog.InfoLevel
	if debug {
		level = pslog.DebugLevel
	}
	return pslog.NewWithOptions(w, pslog.Options{
		Mode:     pslog.ModeConsole,
		MinLevel: level,
	})
}

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithLogger attaches log to ctx.
func WithLogger(ctx context.Context, log pslog.Logger) context.Context {
	return pslog.ContextWithLogger(ctx, log)
}

// WithWindow annotates the logger with a window id when it is valid.
func WithWindow(log pslog.Logger, id model.WindowID) pslog.Logger {
	if id.Valid() {
		log = log.With("window", int(id))
	}
	return log
}

// WithTab annotates the logger with a tab and its window.
func WithTab(log pslog.Logger, tab model.Tab) pslog.Logger {
	log = WithWindow(log, tab.WindowID)
	if tab.ID > 0 {
		log = log.With("tab", int(tab.ID))
	}
	return log
}

// WithSession annotates the logger with a menu session token.
func WithSession(log pslog.Logger, token uint64) pslog.Logger {
	if token != 0 {
		log = log.With("session", token)
	}
	return log
}
