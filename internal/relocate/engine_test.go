package relocate

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mj1618/tabshuttle/internal/config"
	"github.com/mj1618/tabshuttle/internal/model"
	"github.com/mj1618/tabshuttle/internal/platform"
	"github.com/mj1618/tabshuttle/internal/platform/memory"
)

func tabIDsOf(t *testing.T, b *memory.Browser, id model.WindowID) []model.TabID {
	t.Helper()
	w, err := b.Provider().Windows.Get(context.Background(), id, true)
	if err != nil {
		t.Fatalf("get window %d: %v", id, err)
	}
	return model.TabIDs(w.Tabs)
}

func getTab(t *testing.T, b *memory.Browser, id model.TabID) model.Tab {
	t.Helper()
	tab, err := b.Provider().Tabs.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get tab %d: %v", id, err)
	}
	return tab
}

// containerBrowser has window 1 with a highlighted selection of tabs 1-4
// spanning containers A and B and the default, plus an unselected tab 5,
// and window 2 holding tab 6.
func containerBrowser() *memory.Browser {
	b := memory.NewBrowser()
	b.AddWindow(model.Window{Title: "source", Tabs: []model.Tab{
		{URL: "https://one.example", Active: true, Highlighted: true},
		{URL: "https://two.example", CookieStore: "A", Highlighted: true},
		{URL: "https://three.example", CookieStore: "B", Highlighted: true},
		{URL: "https://four.example", Highlighted: true},
		{URL: "https://five.example"},
	}})
	b.AddWindow(model.Window{Title: "target", Tabs: []model.Tab{{URL: "https://six.example"}}})
	return b
}

func newEngine(b *memory.Browser, s config.Settings) *Engine {
	p := b.Provider()
	return NewEngine(p.Windows, p.Tabs, s)
}

func TestSelection(t *testing.T) {
	b := containerBrowser()
	e := newEngine(b, config.Default())
	ctx := context.Background()

	sel, err := e.Selection(ctx, model.Tab{ID: 3})
	if err != nil {
		t.Fatal(err)
	}
	if got := model.TabIDs(sel); !reflect.DeepEqual(got, []model.TabID{1, 2, 3, 4}) {
		t.Errorf("highlighted selection: got %v", got)
	}

	sel, err = e.Selection(ctx, model.Tab{ID: 5})
	if err != nil {
		t.Fatal(err)
	}
	if got := model.TabIDs(sel); !reflect.DeepEqual(got, []model.TabID{5}) {
		t.Errorf("single selection: got %v", got)
	}

	if _, err := e.Selection(ctx, model.Tab{ID: 404}); !errors.Is(err, ErrNoTab) {
		t.Errorf("missing tab: got %v, want ErrNoTab", err)
	}
}

func TestMove_ContainerBatching(t *testing.T) {
	b := containerBrowser()
	s := config.Default()
	s.MoveableContainers = []string{"A"}
	e := newEngine(b, s)

	if err := e.Move(context.Background(), model.Tab{ID: 1, WindowID: 1}, 2, false); err != nil {
		t.Fatal(err)
	}

	if got := tabIDsOf(t, b, 2); !reflect.DeepEqual(got, []model.TabID{6, 3, 1, 4}) {
		t.Errorf("target window: got %v, want [6 3 1 4]", got)
	}
	if got := tabIDsOf(t, b, 1); !reflect.DeepEqual(got, []model.TabID{5}) {
		t.Errorf("source window: got %v, want [5]", got)
	}
	state := b.Snapshot()
	if len(state.Windows) != 3 {
		t.Fatalf("expected a new window, got %d windows", len(state.Windows))
	}
	if got := model.TabIDs(state.Windows[2].Tabs); !reflect.DeepEqual(got, []model.TabID{2}) {
		t.Errorf("new window: got %v, want [2]", got)
	}
}

func TestMove_NewWindowContainerWithSeveralTabs(t *testing.T) {
	b := memory.NewBrowser()
	b.AddWindow(model.Window{Tabs: []model.Tab{
		{URL: "https://a.example", CookieStore: "A", Active: true, Highlighted: true},
		{URL: "https://b.example", CookieStore: "A", Highlighted: true},
		{URL: "https://c.example", CookieStore: "A", Highlighted: true},
		{URL: "https://d.example"},
	}})
	b.AddWindow(model.Window{Tabs: []model.Tab{{URL: "https://e.example"}}})
	s := config.Default()
	s.MoveableContainers = []string{"A"}

	if err := newEngine(b, s).Move(context.Background(), model.Tab{ID: 1}, 2, false); err != nil {
		t.Fatal(err)
	}
	if got := tabIDsOf(t, b, 3); !reflect.DeepEqual(got, []model.TabID{1, 2, 3}) {
		t.Errorf("new window: got %v, want [1 2 3]", got)
	}
	if got := tabIDsOf(t, b, 2); !reflect.DeepEqual(got, []model.TabID{5}) {
		t.Errorf("target window should be untouched, got %v", got)
	}
}

func TestMove_ToNewWindow(t *testing.T) {
	b := containerBrowser()
	e := newEngine(b, config.Default())
	if err := e.Move(context.Background(), model.Tab{ID: 4}, model.WindowIDNone, false); err != nil {
		t.Fatal(err)
	}
	// Containers A and B and the default each get their own window.
	state := b.Snapshot()
	if len(state.Windows) != 5 {
		t.Fatalf("expected 5 windows, got %d", len(state.Windows))
	}
	moved := map[model.TabID]bool{}
	for _, w := range state.Windows[2:] {
		for _, tab := range w.Tabs {
			moved[tab.ID] = true
		}
	}
	for _, id := range []model.TabID{1, 2, 3, 4} {
		if !moved[id] {
			t.Errorf("tab %d not in a new window", id)
		}
	}
	if got := tabIDsOf(t, b, 2); !reflect.DeepEqual(got, []model.TabID{6}) {
		t.Errorf("existing window should be untouched, got %v", got)
	}
}

func TestMove_ActivePreservation(t *testing.T) {
	b := memory.NewBrowser()
	b.AddWindow(model.Window{Tabs: []model.Tab{
		{URL: "https://a.example", Highlighted: true},
		{URL: "https://b.example", Active: true, Highlighted: true},
		{URL: "https://c.example", Highlighted: true},
	}})
	b.AddWindow(model.Window{Tabs: []model.Tab{{URL: "https://d.example"}}})
	s := config.Default()
	s.SwitchToTabAfterMoving = true

	if err := newEngine(b, s).Move(context.Background(), model.Tab{ID: 1}, 2, false); err != nil {
		t.Fatal(err)
	}

	if got := tabIDsOf(t, b, 2); !reflect.DeepEqual(got, []model.TabID{4, 1, 2, 3}) {
		t.Fatalf("target window: got %v", got)
	}
	activeCount := 0
	for _, id := range []model.TabID{1, 2, 3} {
		tab := getTab(t, b, id)
		if tab.Active {
			activeCount++
		}
		if !tab.Highlighted {
			t.Errorf("tab %d should be highlighted", id)
		}
	}
	if activeCount != 1 || !getTab(t, b, 2).Active {
		t.Errorf("only the originally active tab 2 should be active (active count %d)", activeCount)
	}
	if got := b.FocusedWindow(); got != 2 {
		t.Errorf("focused window: got %d, want 2", got)
	}
}

func TestMove_NoSwitchLeavesTargetActiveTab(t *testing.T) {
	b := containerBrowser()
	if err := newEngine(b, config.Default()).Move(context.Background(), model.Tab{ID: 1}, 2, false); err != nil {
		t.Fatal(err)
	}
	if !getTab(t, b, 6).Active {
		t.Error("target window's own tab should stay active")
	}
	if getTab(t, b, 1).Active {
		t.Error("moved tab should not be active without switching")
	}
	if got := b.FocusedWindow(); got != 1 {
		t.Errorf("focus should stay on window 1, got %d", got)
	}
}

func TestMove_ForcedSwitchWithoutActive(t *testing.T) {
	b := containerBrowser()
	if err := newEngine(b, config.Default()).Move(context.Background(), model.Tab{ID: 5}, 2, true); err != nil {
		t.Fatal(err)
	}
	tab := getTab(t, b, 5)
	if tab.WindowID != 2 || !tab.Active {
		t.Errorf("forced switch should activate the moved tab in window 2, got %+v", tab)
	}
}

func TestMove_BucketFailureDoesNotAbortOthers(t *testing.T) {
	b := containerBrowser()
	b.SetHooks(memory.Hooks{
		MoveError: func(ids []model.TabID, opts platform.MoveOptions) error {
			for _, id := range ids {
				if id == 3 {
					return errors.New("container B is locked")
				}
			}
			return nil
		},
	})
	if err := newEngine(b, config.Default()).Move(context.Background(), model.Tab{ID: 1}, 2, false); err != nil {
		t.Fatal(err)
	}
	if got := tabIDsOf(t, b, 2); !reflect.DeepEqual(got, []model.TabID{6, 2, 1, 4}) {
		t.Errorf("target window: got %v, want [6 2 1 4]", got)
	}
	if got := tabIDsOf(t, b, 1); !reflect.DeepEqual(got, []model.TabID{3, 5}) {
		t.Errorf("source window: got %v, want [3 5]", got)
	}
}

// privateBrowser has normal window 1 with a highlighted selection whose
// active tab is a privileged page, and private window 2.
func privateBrowser() *memory.Browser {
	b := memory.NewBrowser()
	b.AddWindow(model.Window{Tabs: []model.Tab{
		{URL: "https://a.example", Highlighted: true, Pinned: true},
		{URL: "about:config", Active: true, Highlighted: true},
		{URL: "https://c.example", Highlighted: true},
	}})
	b.AddWindow(model.Window{Incognito: true, Tabs: []model.Tab{{URL: "https://d.example"}}})
	return b
}

func TestReopen_FiltersPrivilegedAndMovesActive(t *testing.T) {
	b := privateBrowser()
	if err := newEngine(b, config.Default()).Reopen(context.Background(), model.Tab{ID: 1}, 2, false); err != nil {
		t.Fatal(err)
	}

	w, _ := b.Provider().Windows.Get(context.Background(), 2, true)
	if len(w.Tabs) != 3 {
		t.Fatalf("target should hold 1 original + 2 reopened tabs, got %+v", w.Tabs)
	}
	a, c := w.Tabs[1], w.Tabs[2]
	if a.URL != "https://a.example" || c.URL != "https://c.example" {
		t.Fatalf("reopened tabs out of order: %q, %q", a.URL, c.URL)
	}
	if !a.Active {
		t.Error("first surviving tab should become active")
	}
	if !a.Pinned {
		t.Error("pinned flag should carry over")
	}
	if c.Active || !c.Highlighted {
		t.Errorf("other reopened tab should be highlighted but inactive, got %+v", c)
	}
	if a.CookieStore != memory.PrivateCookieStore {
		t.Errorf("reopened tab cookie store: got %q", a.CookieStore)
	}

	for _, id := range []model.TabID{1, 2, 3} {
		if _, err := b.Provider().Tabs.Get(context.Background(), id); !errors.Is(err, platform.ErrNotFound) {
			t.Errorf("original tab %d should be closed, got err %v", id, err)
		}
	}
	if _, err := b.Provider().Windows.Get(context.Background(), 1, false); !errors.Is(err, platform.ErrNotFound) {
		t.Errorf("emptied source window should close, got err %v", err)
	}
}

func TestReopen_AllFilteredIsNoop(t *testing.T) {
	b := memory.NewBrowser()
	b.AddWindow(model.Window{Tabs: []model.Tab{{URL: "about:addons", Active: true}}})
	b.AddWindow(model.Window{Incognito: true, Tabs: []model.Tab{{URL: "https://d.example"}}})
	before := b.Snapshot()
	if err := newEngine(b, config.Default()).Reopen(context.Background(), model.Tab{ID: 1}, 2, false); err != nil {
		t.Fatal(err)
	}
	if after := b.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Errorf("reopen of privileged-only selection changed state:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestReopen_CreationFailureKeepsOriginals(t *testing.T) {
	b := privateBrowser()
	b.SetHooks(memory.Hooks{
		CreateTabError: func(opts platform.CreateTabOptions) error {
			if opts.URL == "https://c.example" {
				return errors.New("quota exceeded")
			}
			return nil
		},
	})
	err := newEngine(b, config.Default()).Reopen(context.Background(), model.Tab{ID: 1}, 2, false)
	if err == nil {
		t.Fatal("expected reopen to fail")
	}
	if got := tabIDsOf(t, b, 1); !reflect.DeepEqual(got, []model.TabID{1, 2, 3}) {
		t.Errorf("originals must survive a failed reopen, got %v", got)
	}
}

func TestReopen_IntoNewWindow(t *testing.T) {
	b := privateBrowser()
	s := config.Default()
	s.SwitchToTabAfterMoving = true
	if err := newEngine(b, s).Reopen(context.Background(), model.Tab{ID: 3}, model.WindowIDNone, false); err != nil {
		t.Fatal(err)
	}
	state := b.Snapshot()
	// The emptied source closes, leaving the private window and the new one.
	if len(state.Windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(state.Windows))
	}
	nw := state.Windows[1]
	if !nw.Incognito {
		t.Error("reopen from a normal window should open a private window")
	}
	if len(nw.Tabs) != 2 || nw.Tabs[0].URL != "https://a.example" || nw.Tabs[1].URL != "https://c.example" {
		t.Fatalf("new window tabs: %+v", nw.Tabs)
	}
	if !nw.Tabs[0].Active || !nw.Tabs[0].Pinned {
		t.Errorf("seed tab should be active and pinned, got %+v", nw.Tabs[0])
	}
	if state.Focused != nw.ID {
		t.Errorf("focused: got %d, want %d", state.Focused, nw.ID)
	}
}

func TestRelocate_Dispatch(t *testing.T) {
	b := privateBrowser()
	e := newEngine(b, config.Default())
	if err := e.Relocate(context.Background(), KindReopen, model.Tab{ID: 1}, 2, false); err != nil {
		t.Fatal(err)
	}
	if got := tabIDsOf(t, b, 2); len(got) != 3 {
		t.Errorf("target should hold 1 original + 2 reopened tabs, got %v", got)
	}
	if _, err := b.Provider().Tabs.Get(context.Background(), 1); !errors.Is(err, platform.ErrNotFound) {
		t.Errorf("reopen via Relocate should have closed originals, got err %v", err)
	}
}
