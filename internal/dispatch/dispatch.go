// Package dispatch maps toolbar clicks and keyboard commands onto
// relocations and tab navigation.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mj1618/tabshuttle/internal/config"
	"github.com/mj1618/tabshuttle/internal/logx"
	"github.com/mj1618/tabshuttle/internal/model"
	"github.com/mj1618/tabshuttle/internal/platform"
	"github.com/mj1618/tabshuttle/internal/relocate"
)

// ErrUnknownCommand is returned by Run for names it does not handle.
var ErrUnknownCommand = errors.New("unknown command")

// Command names.
const (
	CmdMoveTab         = "move-tab"
	CmdMoveTabSwitch   = "move-tab-switch"
	CmdReopenTab       = "reopen-tab"
	CmdMoveToNewWindow = "move-to-new-window"
	CmdMoveToEnd       = "move-to-end"
	CmdJumpToRecentTab = "jump-to-recent-tab"
)

// Command describes a named trigger.
type Command struct {
	Name        string `yaml:"name"        json:"name"`
	Description string `yaml:"description" json:"description"`
}

// Commands lists every command Run accepts.
func Commands() []Command {
	return []Command{
		{CmdMoveTab, "Move the selected tabs to the last focused window"},
		{CmdMoveTabSwitch, "Move the selected tabs to the last focused window and switch to them"},
		{CmdReopenTab, "Reopen the selected tabs in the last focused window"},
		{CmdMoveToNewWindow, "Move the selected tabs to a new window"},
		{CmdMoveToEnd, "Move the selected tabs to the end of their window"},
		{CmdJumpToRecentTab, "Activate the most recently used tab that is far from the current one"},
	}
}

// Recency reports the window a relocation should target.
type Recency interface {
	LastFocused() model.WindowID
}

// Relocator performs relocations and resolves selections.
type Relocator interface {
	Relocate(ctx context.Context, kind relocate.Kind, tab model.Tab, target model.WindowID, forceSwitch bool) error
	Selection(ctx context.Context, tab model.Tab) ([]model.Tab, error)
}

// Dispatcher routes clicks and commands.
type Dispatcher struct {
	windows   platform.Windows
	tabs      platform.Tabs
	recency   Recency
	relocator Relocator
	settings  config.Settings
	now       func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClock overrides the time source used by the recent-tab timeout.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// New creates a dispatcher.
func New(windows platform.Windows, tabs platform.Tabs, recency Recency, relocator Relocator, settings config.Settings, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		windows:   windows,
		tabs:      tabs,
		recency:   recency,
		relocator: relocator,
		settings:  settings,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run executes a named command against the current window.
func (d *Dispatcher) Run(ctx context.Context, name string) error {
	switch name {
	case CmdMoveTab, CmdMoveTabSwitch, CmdReopenTab, CmdMoveToNewWindow, CmdMoveToEnd:
	case CmdJumpToRecentTab:
		return d.JumpToRecentTab(ctx)
	default:
		return fmt.Errorf("%q: %w", name, ErrUnknownCommand)
	}

	tab, err := d.currentTab(ctx)
	if err != nil {
		return err
	}
	switch name {
	case CmdMoveTab:
		return d.relocateToTarget(ctx, tab, false, false)
	case CmdMoveTabSwitch:
		return d.relocateToTarget(ctx, tab, false, true)
	case CmdReopenTab:
		return d.relocateToTarget(ctx, tab, true, false)
	case CmdMoveToNewWindow:
		return d.relocator.Relocate(ctx, relocate.KindMove, tab, model.WindowIDNone, false)
	default:
		return d.MoveToEnd(ctx, tab)
	}
}

// OnActionClicked handles the toolbar button. A nil tab means the active tab
// of the current window.
func (d *Dispatcher) OnActionClicked(ctx context.Context, tab *model.Tab, click model.ClickInfo) error {
	var t model.Tab
	if tab != nil {
		t = *tab
	} else {
		var err error
		if t, err = d.currentTab(ctx); err != nil {
			return err
		}
	}
	return d.relocateToTarget(ctx, t, false, click.ForcesSwitch())
}

func (d *Dispatcher) currentTab(ctx context.Context) (model.Tab, error) {
	tabs, err := d.tabs.Query(ctx, platform.TabQuery{CurrentWindow: true, Active: platform.Bool(true)})
	if err != nil {
		return model.Tab{}, fmt.Errorf("query active tab: %w", err)
	}
	if len(tabs) == 0 {
		return model.Tab{}, fmt.Errorf("current window: %w", relocate.ErrNoTab)
	}
	return tabs[0], nil
}

// ResolveTarget picks the window a relocation from window from should go
// to: the last focused window while it is still open, else the first other
// normal window. With no candidate the returned window has id WindowIDNone.
func (d *Dispatcher) ResolveTarget(ctx context.Context, from model.WindowID) (model.Window, error) {
	wins, err := d.windows.List(ctx, platform.ListWindowsOptions{NormalOnly: true})
	if err != nil {
		return model.Window{}, fmt.Errorf("list windows: %w", err)
	}
	if last := d.recency.LastFocused(); last.Valid() && last != from {
		for _, w := range wins {
			if w.ID == last {
				return w, nil
			}
		}
	}
	for _, w := range wins {
		if w.ID != from {
			return w, nil
		}
	}
	return model.Window{ID: model.WindowIDNone}, nil
}

func (d *Dispatcher) relocateToTarget(ctx context.Context, tab model.Tab, reopen, forceSwitch bool) error {
	source, err := d.windows.Get(ctx, tab.WindowID, false)
	if err != nil {
		return fmt.Errorf("get window %d: %w", tab.WindowID, err)
	}
	target, err := d.ResolveTarget(ctx, source.ID)
	if err != nil {
		return err
	}
	kind := relocate.KindReopen
	if !reopen {
		if !target.ID.Valid() {
			kind = relocate.KindMove
		} else {
			kind = relocate.KindFor(source, target)
		}
	}
	logx.WithTab(logx.Ctx(ctx), tab).Debug("relocate", "kind", string(kind), "target", int(target.ID), "switch", forceSwitch)
	return d.relocator.Relocate(ctx, kind, tab, target.ID, forceSwitch)
}

// MoveToEnd moves the selection containing tab to the end of its window,
// keeping its order.
func (d *Dispatcher) MoveToEnd(ctx context.Context, tab model.Tab) error {
	sel, err := d.relocator.Selection(ctx, tab)
	if err != nil {
		return err
	}
	if _, err := d.tabs.Move(ctx, model.TabIDs(sel), platform.MoveOptions{WindowID: sel[0].WindowID, Index: -1}); err != nil {
		return fmt.Errorf("move to end: %w", err)
	}
	return nil
}

// JumpToRecentTab activates the most recently accessed tab of the current
// window that is at least minimum_tab_travel_distance positions away from
// the active tab. With recent_tab_timeout set, the tab must also have been
// used within that many seconds.
func (d *Dispatcher) JumpToRecentTab(ctx context.Context) error {
	if !d.settings.JumpEnabled() {
		return nil
	}
	tabs, err := d.tabs.Query(ctx, platform.TabQuery{CurrentWindow: true})
	if err != nil {
		return fmt.Errorf("query tabs: %w", err)
	}
	active := -1
	for i, t := range tabs {
		if t.Active {
			active = i
			break
		}
	}
	if active < 0 {
		return nil
	}

	var cutoff int64
	if d.settings.RecentTabTimeout > 0 {
		cutoff = d.now().Add(-time.Duration(d.settings.RecentTabTimeout) * time.Second).UnixMilli()
	}
	best := -1
	for i, t := range tabs {
		if t.Active || abs(t.Index-tabs[active].Index) < d.settings.MinimumTabTravelDistance {
			continue
		}
		if cutoff > 0 && t.LastAccessed < cutoff {
			continue
		}
		if best < 0 || t.LastAccessed > tabs[best].LastAccessed {
			best = i
		}
	}
	if best < 0 {
		logx.Ctx(ctx).Debug("no tab to jump to")
		return nil
	}
	if _, err := d.tabs.Update(ctx, tabs[best].ID, platform.UpdateTabOptions{Active: platform.Bool(true)}); err != nil {
		return fmt.Errorf("activate tab %d: %w", tabs[best].ID, err)
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
