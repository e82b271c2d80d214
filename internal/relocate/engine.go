// Package relocate moves tab selections between windows.
package relocate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mj1618/tabshuttle/internal/config"
	"github.com/mj1618/tabshuttle/internal/logx"
	"github.com/mj1618/tabshuttle/internal/model"
	"github.com/mj1618/tabshuttle/internal/platform"
)

// ErrNoTab is returned when the invoking tab no longer exists.
var ErrNoTab = errors.New("source tab not found")

// Kind is how a selection reaches its target.
type Kind string

const (
	// KindMove keeps tab identity.
	KindMove Kind = "move"
	// KindReopen recreates tabs, for targets across the private browsing
	// boundary.
	KindReopen Kind = "reopen"
)

// KindFor returns the relocation kind between two windows.
func KindFor(source, target model.Window) Kind {
	if source.Incognito == target.Incognito {
		return KindMove
	}
	return KindReopen
}

// Engine performs moves and reopens.
type Engine struct {
	windows         platform.Windows
	tabs            platform.Tabs
	policy          Policy
	switchAfterMove bool
}

// NewEngine creates an engine from the host backends and settings.
func NewEngine(windows platform.Windows, tabs platform.Tabs, settings config.Settings) *Engine {
	return &Engine{
		windows:         windows,
		tabs:            tabs,
		policy:          NewPolicy(settings.MoveableContainers),
		switchAfterMove: settings.SwitchToTabAfterMoving,
	}
}

// Relocate dispatches to Move or Reopen.
func (e *Engine) Relocate(ctx context.Context, kind Kind, tab model.Tab, target model.WindowID, forceSwitch bool) error {
	if kind == KindReopen {
		return e.Reopen(ctx, tab, target, forceSwitch)
	}
	return e.Move(ctx, tab, target, forceSwitch)
}

// selection is the set of tabs one action affects.
type selection struct {
	source model.Window
	invoke model.Tab
	tabs   []model.Tab
}

// active returns the active tab of the selection, if any.
func (s selection) active() (model.Tab, bool) {
	for _, t := range s.tabs {
		if t.Active {
			return t, true
		}
	}
	return model.Tab{}, false
}

// Selection resolves the tabs affected by acting on tab: the tab alone, or
// its window's highlighted set when tab is part of it. State is re-read
// from the host rather than trusted from the event.
func (e *Engine) Selection(ctx context.Context, tab model.Tab) ([]model.Tab, error) {
	sel, err := e.resolve(ctx, tab)
	if err != nil {
		return nil, err
	}
	return sel.tabs, nil
}

func (e *Engine) resolve(ctx context.Context, tab model.Tab) (selection, error) {
	current, err := e.tabs.Get(ctx, tab.ID)
	if err != nil {
		if errors.Is(err, platform.ErrNotFound) {
			return selection{}, fmt.Errorf("tab %d: %w", tab.ID, ErrNoTab)
		}
		return selection{}, fmt.Errorf("get tab %d: %w", tab.ID, err)
	}
	source, err := e.windows.Get(ctx, current.WindowID, false)
	if err != nil {
		return selection{}, fmt.Errorf("get window %d: %w", current.WindowID, err)
	}
	sel := selection{source: source, invoke: current, tabs: []model.Tab{current}}
	if !current.Highlighted {
		return sel, nil
	}
	highlighted, err := e.tabs.Query(ctx, platform.TabQuery{WindowID: current.WindowID, Highlighted: platform.Bool(true)})
	if err != nil {
		return selection{}, fmt.Errorf("query highlighted tabs: %w", err)
	}
	if len(highlighted) > 0 {
		sel.tabs = highlighted
	}
	return sel, nil
}

// Move relocates the selection into target, keeping tab identity. A target
// below 1 means a new window. Buckets fail independently; failures are
// logged and do not fail the move. Buckets bound for new windows run
// concurrently. Buckets moving in place run in partition order so that the
// target window receives the default container last.
func (e *Engine) Move(ctx context.Context, tab model.Tab, target model.WindowID, forceSwitch bool) error {
	log := logx.WithTab(logx.Ctx(ctx), tab)
	sel, err := e.resolve(ctx, tab)
	if err != nil {
		return err
	}
	active, hasActive := sel.active()

	var (
		wg      sync.WaitGroup
		inPlace []Bucket
	)
	for _, b := range Partition(sel.tabs) {
		if target.Valid() && e.policy.For(b.CookieStore) == MoveInPlace {
			inPlace = append(inPlace, b)
			continue
		}
		wg.Add(1)
		go func(b Bucket) {
			defer wg.Done()
			if err := e.moveToNewWindow(ctx, b, sel.source.Incognito); err != nil {
				log.Debug("bucket move failed", "container", b.CookieStore, "err", err)
			}
		}(b)
	}
	if len(inPlace) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, b := range inPlace {
				if err := e.moveInPlace(ctx, b, target); err != nil {
					log.Debug("bucket move failed", "container", b.CookieStore, "target", int(target), "err", err)
				}
			}
		}()
	}
	wg.Wait()

	if !forceSwitch && !(e.switchAfterMove && hasActive) {
		return nil
	}
	if !hasActive {
		active = sel.invoke
	}
	e.preserveActive(ctx, active.ID, sel.tabs)
	return nil
}

func (e *Engine) moveInPlace(ctx context.Context, b Bucket, target model.WindowID) error {
	if _, err := e.tabs.Move(ctx, model.TabIDs(b.Tabs), platform.MoveOptions{WindowID: target, Index: -1}); err != nil {
		return fmt.Errorf("move tabs to window %d: %w", target, err)
	}
	return nil
}

// moveToNewWindow opens a window seeded with the bucket's first tab and moves
// the rest of the bucket after it.
func (e *Engine) moveToNewWindow(ctx context.Context, b Bucket, incognito bool) error {
	ids := model.TabIDs(b.Tabs)
	w, err := e.windows.Create(ctx, platform.CreateWindowOptions{TabID: ids[0], Incognito: incognito})
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	if len(ids) == 1 {
		return nil
	}
	if _, err := e.tabs.Move(ctx, ids[1:], platform.MoveOptions{WindowID: w.ID, Index: -1}); err != nil {
		return fmt.Errorf("move tabs to new window %d: %w", w.ID, err)
	}
	return nil
}

// preserveActive reactivates the tab that was active and marks the rest of
// the selection highlighted. Activation resets the host's multi-selection,
// so it has to come first.
func (e *Engine) preserveActive(ctx context.Context, activeID model.TabID, tabs []model.Tab) {
	log := logx.Ctx(ctx)
	activated, err := e.tabs.Update(ctx, activeID, platform.UpdateTabOptions{Active: platform.Bool(true)})
	if err != nil {
		log.Debug("reactivate tab failed", "tab", int(activeID), "err", err)
		return
	}

	var wg sync.WaitGroup
	for _, t := range tabs {
		if t.ID == activeID {
			continue
		}
		wg.Add(1)
		go func(id model.TabID) {
			defer wg.Done()
			if _, err := e.tabs.Update(ctx, id, platform.UpdateTabOptions{
				Active:      platform.Bool(false),
				Highlighted: platform.Bool(true),
			}); err != nil {
				log.Debug("highlight tab failed", "tab", int(id), "err", err)
			}
		}(t.ID)
	}
	wg.Wait()

	if err := e.windows.Update(ctx, activated.WindowID, platform.UpdateWindowOptions{Focused: platform.Bool(true)}); err != nil {
		log.Debug("focus window failed", "window", int(activated.WindowID), "err", err)
	}
}

// Reopen recreates the selection in target and closes every original,
// including tabs whose URL cannot be loaded again and so are not recreated.
// If any recreation fails, no original is closed.
func (e *Engine) Reopen(ctx context.Context, tab model.Tab, target model.WindowID, forceSwitch bool) error {
	log := logx.WithTab(logx.Ctx(ctx), tab)
	sel, err := e.resolve(ctx, tab)
	if err != nil {
		return err
	}

	var keep []model.Tab
	activeIdx := -1
	for _, t := range sel.tabs {
		if !t.Reopenable() {
			continue
		}
		if t.Active {
			activeIdx = len(keep)
		}
		keep = append(keep, t)
	}
	if len(keep) == 0 {
		log.Debug("reopen skipped", "reason", "no reopenable tabs")
		return nil
	}
	if activeIdx < 0 {
		activeIdx = 0
	}

	created := make([]model.Tab, len(keep))
	pending := keep
	if !target.Valid() {
		w, err := e.windows.Create(ctx, platform.CreateWindowOptions{URL: keep[0].URL, Incognito: !sel.source.Incognito})
		if err != nil {
			return fmt.Errorf("reopen: create window: %w", err)
		}
		if len(w.Tabs) == 0 {
			return fmt.Errorf("reopen: new window %d has no tab", w.ID)
		}
		target = w.ID
		created[0] = w.Tabs[0]
		if keep[0].Pinned {
			if _, err := e.tabs.Update(ctx, created[0].ID, platform.UpdateTabOptions{Pinned: platform.Bool(true)}); err != nil {
				log.Debug("pin tab failed", "tab", int(created[0].ID), "err", err)
			}
		}
		pending = keep[1:]
	}
	offset := len(keep) - len(pending)

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range pending {
		i, src := i+offset, src
		g.Go(func() error {
			t, err := e.tabs.Create(gctx, platform.CreateTabOptions{
				WindowID: target,
				URL:      src.URL,
				Active:   i == activeIdx,
				Pinned:   src.Pinned,
				Index:    -1,
			})
			if err != nil {
				return fmt.Errorf("recreate tab %d: %w", src.ID, err)
			}
			created[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("reopen: %w", err)
	}

	// Creations land in completion order; put them back in selection order.
	// This runs before highlighting because reordering may reactivate.
	if len(created) > 1 {
		if _, err := e.tabs.Move(ctx, model.TabIDs(created), platform.MoveOptions{WindowID: target, Index: -1}); err != nil {
			log.Debug("reorder reopened tabs failed", "err", err)
		}
	}
	var wg sync.WaitGroup
	for i, t := range created {
		if i == activeIdx {
			continue
		}
		wg.Add(1)
		go func(id model.TabID) {
			defer wg.Done()
			if _, err := e.tabs.Update(ctx, id, platform.UpdateTabOptions{
				Active:      platform.Bool(false),
				Highlighted: platform.Bool(true),
			}); err != nil {
				log.Debug("highlight reopened tab failed", "tab", int(id), "err", err)
			}
		}(t.ID)
	}
	wg.Wait()

	if err := e.tabs.Remove(ctx, model.TabIDs(sel.tabs)); err != nil {
		return fmt.Errorf("reopen: remove originals: %w", err)
	}

	if forceSwitch || e.switchAfterMove {
		if err := e.windows.Update(ctx, target, platform.UpdateWindowOptions{Focused: platform.Bool(true)}); err != nil {
			log.Debug("focus window failed", "window", int(target), "err", err)
		}
	}
	return nil
}
