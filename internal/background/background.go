// Package background wires the tracker, menu, relocation engine and
// dispatcher to the host and feeds them host events.
package background

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"pkt.systems/pslog"

	"github.com/mj1618/tabshuttle/internal/badge"
	"github.com/mj1618/tabshuttle/internal/config"
	"github.com/mj1618/tabshuttle/internal/dispatch"
	"github.com/mj1618/tabshuttle/internal/logx"
	"github.com/mj1618/tabshuttle/internal/menu"
	"github.com/mj1618/tabshuttle/internal/model"
	"github.com/mj1618/tabshuttle/internal/platform"
	"github.com/mj1618/tabshuttle/internal/recency"
	"github.com/mj1618/tabshuttle/internal/relocate"
)

// settlePoll is how often Settle checks for running handlers.
const settlePoll = time.Millisecond

// Background owns every component for one browser.
type Background struct {
	Tracker    *recency.Tracker
	Menu       *menu.Manager
	Engine     *relocate.Engine
	Dispatcher *dispatch.Dispatcher
	Badge      *badge.Refresher

	log      pslog.Logger
	wg       sync.WaitGroup
	inflight atomic.Int64
}

// New wires the components over a host provider.
func New(p *platform.Provider, settings config.Settings, log pslog.Logger) (*Background, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	refresher := badge.NewRefresher(p.Windows, p.Badge, settings)
	tracker := recency.NewTracker(p.Windows, refresher)
	engine := relocate.NewEngine(p.Windows, p.Tabs, settings)
	return &Background{
		Tracker:    tracker,
		Menu:       menu.NewManager(p.Menus, p.Windows, engine),
		Engine:     engine,
		Dispatcher: dispatch.New(p.Windows, p.Tabs, tracker, engine, settings),
		Badge:      refresher,
		log:        log,
	}, nil
}

func (bg *Background) context(ctx context.Context) context.Context {
	return logx.WithLogger(ctx, bg.log)
}

// Start seeds the recency history and registers the menu.
func (bg *Background) Start(ctx context.Context) error {
	ctx = bg.context(ctx)
	if err := bg.Tracker.Seed(ctx); err != nil {
		return err
	}
	if err := bg.Menu.Init(ctx); err != nil {
		return err
	}
	bg.log.Info("background started", "windows", len(bg.Tracker.Snapshot()))
	return nil
}

// Run handles events until the channel closes or ctx is done. It does not
// wait for handlers it started; call Wait for that.
func (bg *Background) Run(ctx context.Context, events <-chan platform.Event) error {
	ctx = bg.context(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			bg.handle(ctx, ev)
		}
	}
}

// Settle handles queued events until none are queued and no handler is
// running. Handlers may emit further events; those are handled too.
func (bg *Background) Settle(ctx context.Context, events <-chan platform.Event) error {
	ctx = bg.context(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				bg.Wait()
				return nil
			}
			bg.handle(ctx, ev)
			continue
		default:
		}
		if bg.inflight.Load() == 0 && len(events) == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(settlePoll):
		}
	}
}

// Wait blocks until every handler started by Run or Settle has returned.
func (bg *Background) Wait() {
	bg.wg.Wait()
}

// handle runs focus, removal and hide events inline, as well as the start
// of a menu session, so that events are applied in order. Everything that
// may relocate tabs or build the menu runs in its own goroutine, so later
// events are not held up by it.
func (bg *Background) handle(ctx context.Context, ev platform.Event) {
	log := logx.WithWindow(bg.log.With("event", string(ev.Kind)), ev.WindowID)
	switch ev.Kind {
	case platform.EventFocusChanged:
		if err := bg.Tracker.OnFocusChanged(ctx, ev.WindowID); err != nil {
			log.Debug("focus change failed", "err", err)
		}
	case platform.EventWindowRemoved:
		bg.Tracker.OnWindowRemoved(ctx, ev.WindowID)
	case platform.EventMenuHidden:
		if err := bg.Menu.OnHidden(ctx); err != nil {
			log.Debug("menu hide failed", "err", err)
		}
	case platform.EventMenuShown:
		// The token is issued in event order so that a hide queued right
		// behind this event invalidates the build.
		if s, ok := bg.Menu.Begin(ev.Click, ev.Tab); ok {
			bg.spawn(log, func() error { return bg.Menu.Build(ctx, s) })
		}
	case platform.EventMenuClicked:
		bg.spawn(log, func() error { return bg.Menu.OnClicked(ctx, ev.Click, ev.Tab) })
	case platform.EventActionClicked:
		bg.spawn(log, func() error { return bg.Dispatcher.OnActionClicked(ctx, ev.Tab, ev.Click) })
	case platform.EventCommand:
		bg.spawn(log.With("command", ev.Command), func() error { return bg.Dispatcher.Run(ctx, ev.Command) })
	default:
		log.Warn("unhandled event")
	}
}

func (bg *Background) spawn(log pslog.Logger, fn func() error) {
	bg.wg.Add(1)
	bg.inflight.Add(1)
	go func() {
		defer bg.wg.Done()
		defer bg.inflight.Add(-1)
		if err := fn(); err != nil {
			log.Debug("handler failed", "err", err)
		}
	}()
}

// Recency returns the focus history, least recent first.
func (bg *Background) Recency() []model.WindowID {
	return bg.Tracker.Snapshot()
}
