package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/mj1618/tabshuttle/internal/model"
	"github.com/mj1618/tabshuttle/internal/platform"
)

type tabsAPI struct{ b *Browser }

func (a tabsAPI) Query(ctx context.Context, q platform.TabQuery) ([]model.Tab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := a.b
	b.mu.Lock()
	defer b.mu.Unlock()

	windowID := q.WindowID
	if q.CurrentWindow {
		windowID = b.lastFocus
		if !windowID.Valid() {
			return nil, nil
		}
	}
	var out []model.Tab
	for _, win := range b.sortedWindowsLocked() {
		if windowID.Valid() && win.info.ID != windowID {
			continue
		}
		for _, id := range win.tabs {
			t := b.tabs[id]
			if q.Active != nil && t.Active != *q.Active {
				continue
			}
			if q.Highlighted != nil && t.Highlighted != *q.Highlighted {
				continue
			}
			out = append(out, *t)
		}
	}
	return out, nil
}

func (a tabsAPI) Get(ctx context.Context, id model.TabID) (model.Tab, error) {
	if err := ctx.Err(); err != nil {
		return model.Tab{}, err
	}
	b := a.b
	b.mu.Lock()
	defer b.mu.Unlock()
	t, err := b.lookupTabLocked(id)
	if err != nil {
		return model.Tab{}, err
	}
	return *t, nil
}

func (a tabsAPI) Move(ctx context.Context, ids []model.TabID, opts platform.MoveOptions) ([]model.Tab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := a.b
	b.mu.Lock()
	hook := b.hooks.MoveError
	b.mu.Unlock()
	if hook != nil {
		if err := hook(ids, opts); err != nil {
			return nil, err
		}
	}

	b.mu.Lock()
	target, err := b.lookupWindowLocked(opts.WindowID)
	if err != nil {
		b.mu.Unlock()
		return nil, err
	}
	tabs := make([]*model.Tab, 0, len(ids))
	for _, id := range ids {
		t, err := b.lookupTabLocked(id)
		if err != nil {
			b.mu.Unlock()
			return nil, err
		}
		if b.windows[t.WindowID].info.Incognito != target.info.Incognito {
			b.mu.Unlock()
			return nil, fmt.Errorf("tab %d cannot cross the private browsing boundary", id)
		}
		tabs = append(tabs, t)
	}

	var events []platform.Event
	index := opts.Index
	for _, t := range tabs {
		sameWindow := t.WindowID == target.info.ID
		wasActive := t.Active
		if closed, ok := b.detachTabLocked(t); ok {
			events = append(events, platform.Event{Kind: platform.EventWindowRemoved, WindowID: closed})
		}
		t.WindowID = target.info.ID
		if index < 0 || index > len(target.tabs) {
			target.tabs = append(target.tabs, t.ID)
		} else {
			target.tabs = append(target.tabs[:index], append([]model.TabID{t.ID}, target.tabs[index:]...)...)
			index++
		}
		if sameWindow && wasActive {
			b.activateLocked(t)
		} else if !sameWindow {
			t.Active = false
			t.Highlighted = false
			if len(target.tabs) == 1 {
				b.activateLocked(t)
			}
		}
		b.reindexLocked(target)
	}
	out := make([]model.Tab, len(tabs))
	for i, t := range tabs {
		out[i] = *t
	}
	b.mu.Unlock()

	b.emit(events...)
	return out, nil
}

func (a tabsAPI) Update(ctx context.Context, id model.TabID, opts platform.UpdateTabOptions) (model.Tab, error) {
	if err := ctx.Err(); err != nil {
		return model.Tab{}, err
	}
	b := a.b
	b.mu.Lock()
	defer b.mu.Unlock()
	t, err := b.lookupTabLocked(id)
	if err != nil {
		return model.Tab{}, err
	}
	if opts.Active != nil && *opts.Active {
		b.activateLocked(t)
	}
	if opts.Highlighted != nil {
		// The active tab is always part of the selection.
		t.Highlighted = *opts.Highlighted || t.Active
	}
	if opts.Pinned != nil {
		t.Pinned = *opts.Pinned
	}
	return *t, nil
}

func (a tabsAPI) Create(ctx context.Context, opts platform.CreateTabOptions) (model.Tab, error) {
	if err := ctx.Err(); err != nil {
		return model.Tab{}, err
	}
	b := a.b
	b.mu.Lock()
	hook := b.hooks.CreateTabError
	b.mu.Unlock()
	if hook != nil {
		if err := hook(opts); err != nil {
			return model.Tab{}, err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	win, err := b.lookupWindowLocked(opts.WindowID)
	if err != nil {
		return model.Tab{}, err
	}
	url := opts.URL
	if url == "" {
		url = defaultNewTabURL
	}
	t := b.appendTabLocked(win, model.Tab{
		URL:         url,
		Pinned:      opts.Pinned,
		CookieStore: opts.CookieStore,
	})
	if last := len(win.tabs) - 1; opts.Index >= 0 && opts.Index < last {
		copy(win.tabs[opts.Index+1:], win.tabs[opts.Index:last])
		win.tabs[opts.Index] = t.ID
		b.reindexLocked(win)
	}
	if opts.Active || len(win.tabs) == 1 {
		b.activateLocked(t)
	}
	return *t, nil
}

func (a tabsAPI) Remove(ctx context.Context, ids []model.TabID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b := a.b
	b.mu.Lock()
	for _, id := range ids {
		if _, err := b.lookupTabLocked(id); err != nil {
			b.mu.Unlock()
			return err
		}
	}
	var closed []model.WindowID
	for _, id := range ids {
		t, ok := b.tabs[id]
		if !ok {
			continue
		}
		if w, ok := b.detachTabLocked(t); ok {
			closed = append(closed, w)
		}
		delete(b.tabs, id)
	}
	b.mu.Unlock()

	sort.Slice(closed, func(i, j int) bool { return closed[i] < closed[j] })
	events := make([]platform.Event, len(closed))
	for i, w := range closed {
		events[i] = platform.Event{Kind: platform.EventWindowRemoved, WindowID: w}
	}
	b.emit(events...)
	return nil
}
