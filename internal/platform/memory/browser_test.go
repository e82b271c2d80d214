package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/mj1618/tabshuttle/internal/model"
	"github.com/mj1618/tabshuttle/internal/platform"
)

func newTestBrowser() (*Browser, model.Window, model.Window) {
	b := NewBrowser()
	w1 := b.AddWindow(model.Window{Title: "one", Tabs: []model.Tab{
		{URL: "https://a.example", Active: true},
		{URL: "https://b.example"},
		{URL: "https://c.example"},
	}})
	w2 := b.AddWindow(model.Window{Title: "two", Tabs: []model.Tab{
		{URL: "https://d.example"},
	}})
	return b, w1, w2
}

func TestAddWindow_AssignsIDsAndFocus(t *testing.T) {
	b, w1, w2 := newTestBrowser()
	if w1.ID != 1 || w2.ID != 2 {
		t.Fatalf("window ids: got %d, %d", w1.ID, w2.ID)
	}
	if len(w1.Tabs) != 3 {
		t.Fatalf("expected 3 tabs, got %d", len(w1.Tabs))
	}
	for i, tab := range w1.Tabs {
		if tab.Index != i {
			t.Errorf("tab %d index: got %d, want %d", tab.ID, tab.Index, i)
		}
		if tab.CookieStore != model.DefaultCookieStore {
			t.Errorf("tab %d cookie store: got %q", tab.ID, tab.CookieStore)
		}
	}
	if !w2.Tabs[0].Active {
		t.Error("single tab should be active")
	}
	if got := b.FocusedWindow(); got != w1.ID {
		t.Errorf("focused: got %d, want %d", got, w1.ID)
	}
}

func TestAddWindow_IncognitoCookieStore(t *testing.T) {
	b := NewBrowser()
	w := b.AddWindow(model.Window{Incognito: true, Tabs: []model.Tab{{URL: "https://x.example", CookieStore: "firefox-container-1"}}})
	if w.Tabs[0].CookieStore != PrivateCookieStore {
		t.Errorf("got %q, want %q", w.Tabs[0].CookieStore, PrivateCookieStore)
	}
}

func TestTabs_MoveToTail(t *testing.T) {
	b, w1, w2 := newTestBrowser()
	p := b.Provider()
	ctx := context.Background()

	moved, err := p.Tabs.Move(ctx, []model.TabID{w1.Tabs[0].ID, w1.Tabs[1].ID}, platform.MoveOptions{WindowID: w2.ID, Index: -1})
	if err != nil {
		t.Fatal(err)
	}
	if len(moved) != 2 {
		t.Fatalf("expected 2 moved tabs, got %d", len(moved))
	}
	got, err := p.Windows.Get(ctx, w2.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	want := []model.TabID{w2.Tabs[0].ID, w1.Tabs[0].ID, w1.Tabs[1].ID}
	if len(got.Tabs) != len(want) {
		t.Fatalf("target tabs: got %d, want %d", len(got.Tabs), len(want))
	}
	for i, id := range want {
		if got.Tabs[i].ID != id {
			t.Errorf("target tab %d: got %d, want %d", i, got.Tabs[i].ID, id)
		}
		if got.Tabs[i].Index != i {
			t.Errorf("target tab %d index: got %d", i, got.Tabs[i].Index)
		}
	}
	src, _ := p.Windows.Get(ctx, w1.ID, true)
	if len(src.Tabs) != 1 || !src.Tabs[0].Active {
		t.Errorf("source should keep one active tab, got %+v", src.Tabs)
	}
}

func TestTabs_MoveAcrossPrivateBoundaryFails(t *testing.T) {
	b, w1, _ := newTestBrowser()
	priv := b.AddWindow(model.Window{Incognito: true, Tabs: []model.Tab{{URL: "https://p.example"}}})
	_, err := b.Provider().Tabs.Move(context.Background(), []model.TabID{w1.Tabs[0].ID}, platform.MoveOptions{WindowID: priv.ID, Index: -1})
	if err == nil {
		t.Fatal("expected error moving into a private window")
	}
}

func TestTabs_MoveUnknownWindow(t *testing.T) {
	b, w1, _ := newTestBrowser()
	_, err := b.Provider().Tabs.Move(context.Background(), []model.TabID{w1.Tabs[0].ID}, platform.MoveOptions{WindowID: 99, Index: -1})
	if !errors.Is(err, platform.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTabs_ActivateCollapsesSelection(t *testing.T) {
	b, w1, _ := newTestBrowser()
	if err := b.Highlight(w1.Tabs[1].ID, w1.Tabs[2].ID); err != nil {
		t.Fatal(err)
	}
	if err := b.Activate(w1.Tabs[2].ID); err != nil {
		t.Fatal(err)
	}
	tabs, _ := b.Provider().Tabs.Query(context.Background(), platform.TabQuery{WindowID: w1.ID, Highlighted: platform.Bool(true)})
	if len(tabs) != 1 || tabs[0].ID != w1.Tabs[2].ID {
		t.Errorf("activation should leave only the active tab highlighted, got %+v", tabs)
	}
}

func TestTabs_RemoveLastTabClosesWindow(t *testing.T) {
	b, _, w2 := newTestBrowser()
	events := b.Subscribe(8)
	if err := b.Provider().Tabs.Remove(context.Background(), []model.TabID{w2.Tabs[0].ID}); err != nil {
		t.Fatal(err)
	}
	ev := <-events
	if ev.Kind != platform.EventWindowRemoved || ev.WindowID != w2.ID {
		t.Errorf("got event %+v, want window_removed %d", ev, w2.ID)
	}
	if _, err := b.Provider().Windows.Get(context.Background(), w2.ID, false); !errors.Is(err, platform.ErrNotFound) {
		t.Errorf("window should be gone, got %v", err)
	}
}

func TestTabs_CreateAtIndex(t *testing.T) {
	b, w1, _ := newTestBrowser()
	tab, err := b.Provider().Tabs.Create(context.Background(), platform.CreateTabOptions{WindowID: w1.ID, URL: "https://new.example", Index: 1})
	if err != nil {
		t.Fatal(err)
	}
	if tab.Index != 1 {
		t.Errorf("index: got %d, want 1", tab.Index)
	}
	w, _ := b.Provider().Windows.Get(context.Background(), w1.ID, true)
	if w.Tabs[1].ID != tab.ID || w.Tabs[2].ID != w1.Tabs[1].ID {
		t.Errorf("unexpected order: %+v", w.Tabs)
	}
}

func TestWindows_CreateFromTabEmitsFocus(t *testing.T) {
	b, _, w2 := newTestBrowser()
	events := b.Subscribe(8)
	w, err := b.Provider().Windows.Create(context.Background(), platform.CreateWindowOptions{TabID: w2.Tabs[0].ID, Focused: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Tabs) != 1 || w.Tabs[0].ID != w2.Tabs[0].ID {
		t.Fatalf("new window should hold the seeded tab, got %+v", w.Tabs)
	}
	first, second := <-events, <-events
	if first.Kind != platform.EventWindowRemoved || first.WindowID != w2.ID {
		t.Errorf("first event: got %+v", first)
	}
	if second.Kind != platform.EventFocusChanged || second.WindowID != w.ID {
		t.Errorf("second event: got %+v", second)
	}
}

func TestMenus_RemoveDescendants(t *testing.T) {
	b := NewBrowser()
	m := b.Provider().Menus
	ctx := context.Background()
	for _, item := range []model.MenuItem{
		{ID: "root", Title: "root"},
		{ID: "child", ParentID: "root", Title: "child"},
		{ID: "grandchild", ParentID: "child", Title: "grandchild"},
		{ID: "other", Title: "other"},
	} {
		if err := m.Create(ctx, item); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.Remove(ctx, "root"); err != nil {
		t.Fatal(err)
	}
	state := b.Snapshot()
	if len(state.Menu) != 1 || state.Menu[0].ID != "other" {
		t.Errorf("expected only 'other' to remain, got %+v", state.Menu)
	}
}

func TestMenus_CreateValidation(t *testing.T) {
	m := NewBrowser().Provider().Menus
	ctx := context.Background()
	if err := m.Create(ctx, model.MenuItem{}); err == nil {
		t.Error("empty id should fail")
	}
	if err := m.Create(ctx, model.MenuItem{ID: "x", ParentID: "missing"}); !errors.Is(err, platform.ErrNotFound) {
		t.Errorf("missing parent: got %v", err)
	}
	if err := m.Create(ctx, model.MenuItem{ID: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := m.Create(ctx, model.MenuItem{ID: "a"}); err == nil {
		t.Error("duplicate id should fail")
	}
}

func TestMenus_RefreshCountsOnlyWhileShown(t *testing.T) {
	b, w1, _ := newTestBrowser()
	ctx := context.Background()
	_ = b.Provider().Menus.Refresh(ctx)
	if got := b.Snapshot().Refreshes; got != 0 {
		t.Errorf("refresh while hidden: got %d", got)
	}
	if err := b.ShowMenu(w1.Tabs[0].ID, model.ClickInfo{}); err != nil {
		t.Fatal(err)
	}
	_ = b.Provider().Menus.Refresh(ctx)
	if got := b.Snapshot().Refreshes; got != 1 {
		t.Errorf("refresh while shown: got %d, want 1", got)
	}
}

func TestRegisteredProvider(t *testing.T) {
	p, err := platform.NewProvider()
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Validate(); err != nil {
		t.Error(err)
	}
}
