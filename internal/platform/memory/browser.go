package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mj1618/tabshuttle/internal/model"
	"github.com/mj1618/tabshuttle/internal/platform"
)

// PrivateCookieStore is the container id of tabs in incognito windows.
const PrivateCookieStore = "firefox-private"

const defaultNewTabURL = "about:newtab"

// Hooks let tests intercept host calls. Hooks run without the browser lock
// held, so they may block.
type Hooks struct {
	// BeforeMenuCreate runs before a menu item is stored.
	BeforeMenuCreate func(item model.MenuItem)
	// MoveError, when it returns non-nil, fails a Tabs.Move call.
	MoveError func(ids []model.TabID, opts platform.MoveOptions) error
	// CreateTabError, when it returns non-nil, fails a Tabs.Create call.
	CreateTabError func(opts platform.CreateTabOptions) error
}

// BadgeState is the toolbar button as last set.
type BadgeState struct {
	Text  string `yaml:"text,omitempty"  json:"text,omitempty"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
	Icon  string `yaml:"icon,omitempty"  json:"icon,omitempty"`
}

type window struct {
	info model.Window
	tabs []model.TabID
}

// Browser is a simulated browser. All methods are safe for concurrent use.
type Browser struct {
	mu sync.Mutex

	nextWindow model.WindowID
	nextTab    model.TabID
	windows    map[model.WindowID]*window
	order      []model.WindowID
	tabs       map[model.TabID]*model.Tab
	focused    model.WindowID
	lastFocus  model.WindowID

	menu      map[string]*model.MenuItem
	menuOrder []string
	menuShown bool
	menuTab   *model.Tab
	refreshes int

	badge BadgeState

	events chan platform.Event
	hooks  Hooks
	clock  func() time.Time
}

// Option configures a Browser.
type Option func(*Browser)

// WithHooks installs test hooks.
func WithHooks(h Hooks) Option {
	return func(b *Browser) { b.hooks = h }
}

// WithClock overrides the time source used for last-accessed stamps.
func WithClock(clock func() time.Time) Option {
	return func(b *Browser) { b.clock = clock }
}

// NewBrowser creates an empty browser.
func NewBrowser(opts ...Option) *Browser {
	b := &Browser{
		windows:   make(map[model.WindowID]*window),
		tabs:      make(map[model.TabID]*model.Tab),
		menu:      make(map[string]*model.MenuItem),
		focused:   model.WindowIDNone,
		lastFocus: model.WindowIDNone,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetHooks replaces the test hooks.
func (b *Browser) SetHooks(h Hooks) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hooks = h
}

// Subscribe starts event emission and returns the event stream. Events are
// only produced once a subscriber exists. Sends block when the buffer is
// full, so the subscriber must keep draining.
func (b *Browser) Subscribe(buffer int) <-chan platform.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.events == nil {
		b.events = make(chan platform.Event, buffer)
	}
	return b.events
}

// Close ends the event stream.
func (b *Browser) Close() {
	b.mu.Lock()
	ch := b.events
	b.events = nil
	b.mu.Unlock()
	if ch != nil {
		close(ch)
	}
}

// Provider exposes the browser through the platform interfaces.
func (b *Browser) Provider() *platform.Provider {
	return &platform.Provider{
		Windows: windowsAPI{b},
		Tabs:    tabsAPI{b},
		Menus:   menusAPI{b},
		Badge:   badgeAPI{b},
	}
}

// emit must be called without b.mu held.
func (b *Browser) emit(events ...platform.Event) {
	b.mu.Lock()
	ch := b.events
	b.mu.Unlock()
	if ch == nil {
		return
	}
	for _, ev := range events {
		ch <- ev
	}
}

// AddWindow inserts a window and its tabs without emitting events, the way
// windows that predate startup appear. Ids are assigned; the stored window
// is returned.
func (b *Browser) AddWindow(w model.Window) model.Window {
	b.mu.Lock()
	defer b.mu.Unlock()

	if w.Type == "" {
		w.Type = model.WindowNormal
	}
	tabs := w.Tabs
	w.Tabs = nil
	win := b.newWindowLocked(w)
	hasActive := false
	for _, t := range tabs {
		if t.Active && !hasActive {
			hasActive = true
		} else {
			t.Active = false
		}
		b.appendTabLocked(win, t)
	}
	if !hasActive && len(win.tabs) > 0 {
		first := b.tabs[win.tabs[0]]
		first.Active = true
		first.Highlighted = true
	}
	if w.Focused || b.focused == model.WindowIDNone && w.Type == model.WindowNormal {
		b.setFocusLocked(win.info.ID)
	}
	return b.windowLocked(win, true)
}

func (b *Browser) newWindowLocked(w model.Window) *window {
	b.nextWindow++
	w.ID = b.nextWindow
	w.Focused = false
	win := &window{info: w}
	b.windows[w.ID] = win
	b.order = append(b.order, w.ID)
	return win
}

func (b *Browser) appendTabLocked(win *window, t model.Tab) *model.Tab {
	b.nextTab++
	t.ID = b.nextTab
	t.WindowID = win.info.ID
	if win.info.Incognito {
		t.CookieStore = PrivateCookieStore
	} else if t.CookieStore == "" {
		t.CookieStore = model.DefaultCookieStore
	}
	if t.Active {
		t.Highlighted = true
	}
	tab := &t
	b.tabs[t.ID] = tab
	win.tabs = append(win.tabs, t.ID)
	b.reindexLocked(win)
	return tab
}

func (b *Browser) reindexLocked(win *window) {
	for i, id := range win.tabs {
		b.tabs[id].Index = i
	}
}

func (b *Browser) setFocusLocked(id model.WindowID) {
	b.focused = id
	if id != model.WindowIDNone {
		b.lastFocus = id
	}
}

// windowLocked renders win as a model value.
func (b *Browser) windowLocked(win *window, populate bool) model.Window {
	w := win.info
	w.Focused = w.ID == b.focused
	if w.Title == "" {
		for _, id := range win.tabs {
			if t := b.tabs[id]; t.Active {
				w.Title = t.Title
				break
			}
		}
	}
	if populate {
		w.Tabs = make([]model.Tab, 0, len(win.tabs))
		for _, id := range win.tabs {
			w.Tabs = append(w.Tabs, *b.tabs[id])
		}
	}
	return w
}

func (b *Browser) lookupWindowLocked(id model.WindowID) (*window, error) {
	win, ok := b.windows[id]
	if !ok {
		return nil, fmt.Errorf("window %d: %w", id, platform.ErrNotFound)
	}
	return win, nil
}

func (b *Browser) lookupTabLocked(id model.TabID) (*model.Tab, error) {
	t, ok := b.tabs[id]
	if !ok {
		return nil, fmt.Errorf("tab %d: %w", id, platform.ErrNotFound)
	}
	return t, nil
}

// detachTabLocked removes a tab from its window, handing activation to a
// neighbor. It returns the id of the window if the window became empty and
// was closed.
func (b *Browser) detachTabLocked(t *model.Tab) (model.WindowID, bool) {
	win := b.windows[t.WindowID]
	pos := -1
	for i, id := range win.tabs {
		if id == t.ID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return 0, false
	}
	win.tabs = append(win.tabs[:pos], win.tabs[pos+1:]...)
	b.reindexLocked(win)
	if len(win.tabs) == 0 {
		b.dropWindowLocked(win.info.ID)
		return win.info.ID, true
	}
	if t.Active {
		next := pos
		if next >= len(win.tabs) {
			next = len(win.tabs) - 1
		}
		b.activateLocked(b.tabs[win.tabs[next]])
	}
	return 0, false
}

func (b *Browser) dropWindowLocked(id model.WindowID) {
	delete(b.windows, id)
	for i, w := range b.order {
		if w == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	if b.focused == id {
		b.focused = model.WindowIDNone
	}
}

// activateLocked makes t the active tab of its window. Activation resets the
// window's multi-selection to the activated tab alone.
func (b *Browser) activateLocked(t *model.Tab) {
	win := b.windows[t.WindowID]
	for _, id := range win.tabs {
		other := b.tabs[id]
		other.Active = false
		other.Highlighted = false
	}
	t.Active = true
	t.Highlighted = true
	t.LastAccessed = b.clock().UnixMilli()
}

// sortedWindowsLocked returns windows in creation order.
func (b *Browser) sortedWindowsLocked() []*window {
	out := make([]*window, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.windows[id])
	}
	return out
}

// State is a point-in-time view of the whole browser.
type State struct {
	Focused   model.WindowID   `yaml:"focused"             json:"focused"`
	Windows   []model.Window   `yaml:"windows"             json:"windows"`
	Menu      []model.MenuItem `yaml:"menu,omitempty"      json:"menu,omitempty"`
	MenuShown bool             `yaml:"menu_shown"          json:"menu_shown"`
	Refreshes int              `yaml:"menu_refreshes"      json:"menu_refreshes"`
	Badge     BadgeState       `yaml:"badge"               json:"badge"`
}

// Snapshot returns the current state.
func (b *Browser) Snapshot() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := State{
		Focused:   b.focused,
		MenuShown: b.menuShown,
		Refreshes: b.refreshes,
		Badge:     b.badge,
	}
	for _, win := range b.sortedWindowsLocked() {
		s.Windows = append(s.Windows, b.windowLocked(win, true))
	}
	for _, id := range b.menuOrder {
		s.Menu = append(s.Menu, *b.menu[id])
	}
	return s
}

// MenuItems returns the menu items with the given parent, sorted by id.
func (b *Browser) MenuItems(parent string) []model.MenuItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []model.MenuItem
	for _, item := range b.menu {
		if item.ParentID == parent {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MenuItem returns one menu item.
func (b *Browser) MenuItem(id string) (model.MenuItem, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	item, ok := b.menu[id]
	if !ok {
		return model.MenuItem{}, false
	}
	return *item, true
}

// Badge returns the toolbar badge as last set.
func (b *Browser) Badge() BadgeState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.badge
}

// FocusedWindow returns the focused window id, or WindowIDNone.
func (b *Browser) FocusedWindow() model.WindowID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.focused
}

var backgroundCtx = context.Background()
