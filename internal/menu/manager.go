// Package menu builds the tab context menu that lists relocation targets.
//
// Each time the menu is shown a session is started with a fresh token. The
// submenu is built from a live window snapshot, and a build that finishes
// after a newer session started removes what it created instead of
// publishing it.
package menu

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/mj1618/tabshuttle/internal/logx"
	"github.com/mj1618/tabshuttle/internal/model"
	"github.com/mj1618/tabshuttle/internal/platform"
	"github.com/mj1618/tabshuttle/internal/relocate"
)

// Parent menu item ids.
const (
	MoveParentID   = "move-menu"
	ReopenParentID = "reopen-menu"
)

// Relocator carries out a click on a submenu entry.
type Relocator interface {
	Relocate(ctx context.Context, kind relocate.Kind, tab model.Tab, target model.WindowID, forceSwitch bool) error
}

// Manager owns the context menu and its session token.
type Manager struct {
	menus     platform.Menus
	windows   platform.Windows
	relocator Relocator

	mu      sync.Mutex
	issued  uint64
	current uint64
	items   []string
}

// NewManager creates a manager. Call Init before the first event.
func NewManager(menus platform.Menus, windows platform.Windows, relocator Relocator) *Manager {
	return &Manager{menus: menus, windows: windows, relocator: relocator}
}

// Init registers the two parent entries, disabled until a session fills
// them.
func (m *Manager) Init(ctx context.Context) error {
	for _, item := range []model.MenuItem{
		{ID: MoveParentID, Title: "Move to window"},
		{ID: ReopenParentID, Title: "Reopen in window"},
	} {
		item.Contexts = []model.MenuContext{model.MenuContextTab}
		if err := m.menus.Create(ctx, item); err != nil {
			return fmt.Errorf("create menu %s: %w", item.ID, err)
		}
	}
	return nil
}

// Current returns the token of the live session, or 0 when the menu is
// hidden.
func (m *Manager) Current() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Items returns the submenu ids published by the live session.
func (m *Manager) Items() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.items...)
}

// ItemID returns the submenu id for a target window in a session.
func ItemID(kind relocate.Kind, target model.WindowID, token uint64) string {
	return fmt.Sprintf("%s-%d-%d", kind, target, token)
}

// ParseItemID is the inverse of ItemID. ok is false for ids that are not
// submenu entries, including the parents.
func ParseItemID(id string) (kind relocate.Kind, target model.WindowID, ok bool) {
	parts := strings.Split(id, "-")
	if len(parts) != 3 {
		return "", 0, false
	}
	switch k := relocate.Kind(parts[0]); k {
	case relocate.KindMove, relocate.KindReopen:
		kind = k
	default:
		return "", 0, false
	}
	w, err := strconv.Atoi(parts[1])
	if err != nil || w < 1 {
		return "", 0, false
	}
	if _, err := strconv.ParseUint(parts[2], 10, 64); err != nil {
		return "", 0, false
	}
	return kind, model.WindowID(w), true
}

// Title is the submenu label for a target window.
func Title(w model.Window) string {
	title := w.Title
	if title == "" {
		title = "Window " + strconv.Itoa(int(w.ID))
	}
	return fmt.Sprintf("%s (%d tabs)", title, len(w.Tabs))
}

type target struct {
	id    model.WindowID
	title string
}

// sortTargets orders by title, then id for equal titles.
func sortTargets(ts []target) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].title != ts[j].title {
			return ts[i].title < ts[j].title
		}
		return ts[i].id < ts[j].id
	})
}

// Session is a menu session that has been started but not yet built.
type Session struct {
	Token    uint64
	tab      model.Tab
	leftover []string
}

// OnShown builds the submenu for a menu opened on tab. Only tab-context
// menus are handled.
func (m *Manager) OnShown(ctx context.Context, info model.ClickInfo, tab *model.Tab) error {
	s, ok := m.Begin(info, tab)
	if !ok {
		return nil
	}
	return m.Build(ctx, s)
}

// Begin issues the token for a newly shown menu and takes over the entries
// of a session that was never hidden. It does not call the host, so it can
// run in event order ahead of a later hide. ok is false for menus that are
// not shown on a tab.
func (m *Manager) Begin(info model.ClickInfo, tab *model.Tab) (s Session, ok bool) {
	if tab == nil || !info.HasContext(model.MenuContextTab) {
		return Session{}, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued++
	m.current = m.issued
	s = Session{Token: m.issued, tab: *tab, leftover: m.items}
	m.items = nil
	return s, true
}

// Build fills the submenu for a session started by Begin. A session that
// is no longer current when the build settles removes what it created.
func (m *Manager) Build(ctx context.Context, s Session) error {
	token, tab := s.Token, s.tab
	log := logx.WithSession(logx.WithTab(logx.Ctx(ctx), tab), token)
	if err := m.removeAll(ctx, s.leftover); err != nil {
		log.Debug("remove leftover menu items failed", "err", err)
	}

	wins, err := m.windows.List(ctx, platform.ListWindowsOptions{NormalOnly: true, Populate: true})
	if err != nil {
		m.abandon(ctx, token)
		return fmt.Errorf("list windows: %w", err)
	}
	incognito, err := m.sourceIncognito(ctx, wins, tab.WindowID)
	if err != nil {
		m.abandon(ctx, token)
		return err
	}

	var moves, reopens []target
	for _, w := range wins {
		if w.ID == tab.WindowID {
			continue
		}
		t := target{id: w.ID, title: Title(w)}
		if w.Incognito == incognito {
			moves = append(moves, t)
		} else {
			reopens = append(reopens, t)
		}
	}
	sortTargets(moves)
	sortTargets(reopens)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created []string
	)
	build := func(kind relocate.Kind, parent string, ts []target) {
		defer wg.Done()
		// Entries display in creation order, so each list is created in turn.
		for _, t := range ts {
			id := ItemID(kind, t.id, token)
			err := m.menus.Create(ctx, model.MenuItem{
				ID:       id,
				ParentID: parent,
				Title:    t.title,
				Enabled:  true,
				Contexts: []model.MenuContext{model.MenuContextTab},
			})
			if err != nil {
				log.Debug("create menu item failed", "item", id, "err", err)
				continue
			}
			mu.Lock()
			created = append(created, id)
			mu.Unlock()
		}
	}
	enable := func(parent string, on bool) {
		defer wg.Done()
		if err := m.menus.Update(ctx, parent, platform.MenuUpdate{Enabled: platform.Bool(on)}); err != nil {
			log.Debug("update menu failed", "item", parent, "err", err)
		}
	}
	wg.Add(4)
	go build(relocate.KindMove, MoveParentID, moves)
	go build(relocate.KindReopen, ReopenParentID, reopens)
	go enable(MoveParentID, len(moves) > 0)
	go enable(ReopenParentID, len(reopens) > 0)
	wg.Wait()

	m.mu.Lock()
	stale := m.current != token
	hidden := m.current == 0
	if !stale {
		m.items = created
	}
	m.mu.Unlock()

	if stale {
		log.Debug("menu session superseded", "discarded", len(created))
		m.removeAll(ctx, created)
		if hidden {
			// The parents may have been re-enabled after the menu closed.
			m.disableParents(ctx)
		}
		return nil
	}
	log.Debug("menu session built", "move", len(moves), "reopen", len(reopens))
	if err := m.menus.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh menu: %w", err)
	}
	return nil
}

func (m *Manager) sourceIncognito(ctx context.Context, wins []model.Window, id model.WindowID) (bool, error) {
	for _, w := range wins {
		if w.ID == id {
			return w.Incognito, nil
		}
	}
	w, err := m.windows.Get(ctx, id, false)
	if err != nil {
		return false, fmt.Errorf("get window %d: %w", id, err)
	}
	return w.Incognito, nil
}

// abandon disables the parents of a session whose build failed, unless a
// newer session owns them by now.
func (m *Manager) abandon(ctx context.Context, token uint64) {
	m.mu.Lock()
	live := m.current == token
	m.mu.Unlock()
	if !live {
		return
	}
	if err := m.disableParents(ctx); err != nil {
		logx.Ctx(ctx).Debug("disable menu failed", "err", err)
	}
}

// OnHidden ends the live session.
func (m *Manager) OnHidden(ctx context.Context) error {
	m.mu.Lock()
	items := m.items
	m.items = nil
	m.current = 0
	m.mu.Unlock()

	err := m.disableParents(ctx)
	return errors.Join(err, m.removeAll(ctx, items))
}

func (m *Manager) disableParents(ctx context.Context) error {
	var errs []error
	for _, id := range []string{MoveParentID, ReopenParentID} {
		if err := m.menus.Update(ctx, id, platform.MenuUpdate{Enabled: platform.Bool(false)}); err != nil {
			errs = append(errs, fmt.Errorf("disable menu %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) removeAll(ctx context.Context, ids []string) error {
	var errs []error
	for _, id := range ids {
		if err := m.menus.Remove(ctx, id); err != nil && !errors.Is(err, platform.ErrNotFound) {
			errs = append(errs, fmt.Errorf("remove menu %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// OnClicked relocates tab to the window a submenu entry stands for. Clicks
// on other entries are ignored. The entry may already be gone, since the
// menu hides as it is clicked; the target is read from the id alone.
func (m *Manager) OnClicked(ctx context.Context, info model.ClickInfo, tab *model.Tab) error {
	kind, win, ok := ParseItemID(info.MenuItemID)
	if !ok || tab == nil {
		return nil
	}
	logx.WithTab(logx.Ctx(ctx), *tab).Debug("menu clicked", "kind", string(kind), "target", int(win))
	return m.relocator.Relocate(ctx, kind, *tab, win, info.ForcesSwitch())
}
