package recency

import (
	"context"
	"fmt"
	"sync"

	"github.com/mj1618/tabshuttle/internal/logx"
	"github.com/mj1618/tabshuttle/internal/model"
	"github.com/mj1618/tabshuttle/internal/platform"
)

// Refresher redraws the toolbar badge for the window that a move would
// target next.
type Refresher interface {
	Refresh(ctx context.Context, target model.WindowID) error
}

// Tracker keeps the focus history of normal windows. It is the only writer
// of its Set; other components read through LastFocused and Snapshot.
type Tracker struct {
	windows   platform.Windows
	refresher Refresher

	mu  sync.Mutex
	set Set
}

// NewTracker creates a tracker. Call Seed once before feeding events.
func NewTracker(windows platform.Windows, refresher Refresher) *Tracker {
	return &Tracker{windows: windows, refresher: refresher}
}

// Seed fills the set from the windows that exist at startup. No history
// predates startup, so their order is enumeration order.
func (t *Tracker) Seed(ctx context.Context) error {
	wins, err := t.windows.List(ctx, platform.ListWindowsOptions{NormalOnly: true})
	if err != nil {
		return fmt.Errorf("seed recency: %w", err)
	}

	t.mu.Lock()
	for _, w := range wins {
		t.set.Push(w.ID)
	}
	second := model.WindowIDNone
	if t.set.Len() > 1 {
		second = t.set.At(1)
	}
	t.mu.Unlock()

	if second.Valid() {
		t.refresh(ctx, second)
	}
	return nil
}

// OnFocusChanged records that id gained focus. Focus leaving the browser,
// non-normal windows and repeated focus of the current window are ignored.
func (t *Tracker) OnFocusChanged(ctx context.Context, id model.WindowID) error {
	if !id.Valid() {
		return nil
	}
	w, err := t.windows.Get(ctx, id, false)
	if err != nil {
		return fmt.Errorf("focus changed: %w", err)
	}
	if !w.IsNormal() {
		return nil
	}

	t.mu.Lock()
	// Read the most recent entry before mutating: the badge shows the window
	// that was current before this focus change.
	previous := t.set.Back()
	if previous == id {
		t.mu.Unlock()
		return nil
	}
	t.set.MoveToBack(id)
	t.mu.Unlock()

	if previous.Valid() {
		t.refresh(ctx, previous)
	}
	return nil
}

// OnWindowRemoved forgets a closed window. The badge refresh is keyed on the
// least recent entry as it stood before the removal.
func (t *Tracker) OnWindowRemoved(ctx context.Context, id model.WindowID) {
	t.mu.Lock()
	head := t.set.Front()
	t.mu.Unlock()

	if head.Valid() {
		t.refresh(ctx, head)
	}

	t.mu.Lock()
	t.set.Remove(id)
	t.mu.Unlock()
}

// LastFocused returns the window focused before the current one, or
// WindowIDNone.
func (t *Tracker) LastFocused() model.WindowID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.set.At(-2)
}

// Snapshot returns the focus order, least recent first.
func (t *Tracker) Snapshot() []model.WindowID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.set.Slice()
}

func (t *Tracker) refresh(ctx context.Context, target model.WindowID) {
	if t.refresher == nil {
		return
	}
	if err := t.refresher.Refresh(ctx, target); err != nil {
		logx.WithWindow(logx.Ctx(ctx), target).Debug("badge refresh failed", "err", err)
	}
}
