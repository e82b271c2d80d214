package memory

import (
	"context"
	"fmt"

	"github.com/mj1618/tabshuttle/internal/model"
	"github.com/mj1618/tabshuttle/internal/platform"
)

type windowsAPI struct{ b *Browser }

func (w windowsAPI) List(ctx context.Context, opts platform.ListWindowsOptions) ([]model.Window, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := w.b
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []model.Window
	for _, win := range b.sortedWindowsLocked() {
		if opts.NormalOnly && !win.info.IsNormal() {
			continue
		}
		out = append(out, b.windowLocked(win, opts.Populate))
	}
	return out, nil
}

func (w windowsAPI) Get(ctx context.Context, id model.WindowID, populate bool) (model.Window, error) {
	if err := ctx.Err(); err != nil {
		return model.Window{}, err
	}
	b := w.b
	b.mu.Lock()
	defer b.mu.Unlock()
	win, err := b.lookupWindowLocked(id)
	if err != nil {
		return model.Window{}, err
	}
	return b.windowLocked(win, populate), nil
}

func (w windowsAPI) Create(ctx context.Context, opts platform.CreateWindowOptions) (model.Window, error) {
	if err := ctx.Err(); err != nil {
		return model.Window{}, err
	}
	b := w.b
	b.mu.Lock()

	var src *model.Tab
	if opts.TabID.Valid() {
		t, err := b.lookupTabLocked(opts.TabID)
		if err != nil {
			b.mu.Unlock()
			return model.Window{}, err
		}
		if b.windows[t.WindowID].info.Incognito != opts.Incognito {
			b.mu.Unlock()
			return model.Window{}, fmt.Errorf("tab %d cannot cross the private browsing boundary", t.ID)
		}
		src = t
	}

	win := b.newWindowLocked(model.Window{Type: model.WindowNormal, Incognito: opts.Incognito})
	var events []platform.Event
	if src != nil {
		if closed, ok := b.detachTabLocked(src); ok {
			events = append(events, platform.Event{Kind: platform.EventWindowRemoved, WindowID: closed})
		}
		src.WindowID = win.info.ID
		win.tabs = append(win.tabs, src.ID)
		b.reindexLocked(win)
		b.activateLocked(src)
	} else {
		url := opts.URL
		if url == "" {
			url = defaultNewTabURL
		}
		b.appendTabLocked(win, model.Tab{URL: url, Active: true, LastAccessed: b.clock().UnixMilli()})
	}
	if opts.Focused {
		b.setFocusLocked(win.info.ID)
		events = append(events, platform.Event{Kind: platform.EventFocusChanged, WindowID: win.info.ID})
	}
	out := b.windowLocked(win, true)
	b.mu.Unlock()

	b.emit(events...)
	return out, nil
}

func (w windowsAPI) Update(ctx context.Context, id model.WindowID, opts platform.UpdateWindowOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b := w.b
	b.mu.Lock()
	if _, err := b.lookupWindowLocked(id); err != nil {
		b.mu.Unlock()
		return err
	}
	var events []platform.Event
	if opts.Focused != nil && *opts.Focused && b.focused != id {
		b.setFocusLocked(id)
		events = append(events, platform.Event{Kind: platform.EventFocusChanged, WindowID: id})
	}
	b.mu.Unlock()
	b.emit(events...)
	return nil
}

func (w windowsAPI) Remove(ctx context.Context, id model.WindowID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b := w.b
	b.mu.Lock()
	win, err := b.lookupWindowLocked(id)
	if err != nil {
		b.mu.Unlock()
		return err
	}
	for _, tid := range win.tabs {
		delete(b.tabs, tid)
	}
	b.dropWindowLocked(id)
	b.mu.Unlock()

	b.emit(platform.Event{Kind: platform.EventWindowRemoved, WindowID: id})
	return nil
}
