package memory

import (
	"fmt"

	"github.com/mj1618/tabshuttle/internal/model"
	"github.com/mj1618/tabshuttle/internal/platform"
)

// The methods in this file simulate user input. Each mutates state the way
// the browser would and emits the matching event.

// Focus gives focus to a window, or to nothing when id is WindowIDNone.
func (b *Browser) Focus(id model.WindowID) error {
	b.mu.Lock()
	if id != model.WindowIDNone {
		if _, err := b.lookupWindowLocked(id); err != nil {
			b.mu.Unlock()
			return err
		}
	}
	b.setFocusLocked(id)
	b.mu.Unlock()
	b.emit(platform.Event{Kind: platform.EventFocusChanged, WindowID: id})
	return nil
}

// CloseWindow closes a window with all its tabs.
func (b *Browser) CloseWindow(id model.WindowID) error {
	return windowsAPI{b}.Remove(backgroundCtx, id)
}

// Activate selects a tab in its window.
func (b *Browser) Activate(id model.TabID) error {
	_, err := tabsAPI{b}.Update(backgroundCtx, id, platform.UpdateTabOptions{Active: platform.Bool(true)})
	return err
}

// Highlight adds tabs to their window's multi-selection.
func (b *Browser) Highlight(ids ...model.TabID) error {
	for _, id := range ids {
		if _, err := (tabsAPI{b}).Update(backgroundCtx, id, platform.UpdateTabOptions{Highlighted: platform.Bool(true)}); err != nil {
			return err
		}
	}
	return nil
}

// ShowMenu opens the tab context menu on a tab.
func (b *Browser) ShowMenu(id model.TabID, click model.ClickInfo) error {
	b.mu.Lock()
	t, err := b.lookupTabLocked(id)
	if err != nil {
		b.mu.Unlock()
		return err
	}
	tab := *t
	b.menuShown = true
	b.menuTab = &tab
	b.mu.Unlock()

	if len(click.Contexts) == 0 {
		click.Contexts = []model.MenuContext{model.MenuContextTab}
	}
	b.emit(platform.Event{Kind: platform.EventMenuShown, Tab: &tab, Click: click})
	return nil
}

// HideMenu closes the context menu.
func (b *Browser) HideMenu() {
	b.mu.Lock()
	b.menuShown = false
	b.mu.Unlock()
	b.emit(platform.Event{Kind: platform.EventMenuHidden})
}

// ClickMenu activates a menu item on the tab the menu was shown for. The
// menu is hidden afterwards, as the browser does.
func (b *Browser) ClickMenu(itemID string, click model.ClickInfo) error {
	b.mu.Lock()
	item, ok := b.menu[itemID]
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("menu item %q: %w", itemID, platform.ErrNotFound)
	}
	if !item.Enabled {
		b.mu.Unlock()
		return fmt.Errorf("menu item %q is disabled", itemID)
	}
	if b.menuTab == nil {
		b.mu.Unlock()
		return fmt.Errorf("no menu shown")
	}
	tab := *b.menuTab
	if current, ok := b.tabs[tab.ID]; ok {
		tab = *current
	}
	b.mu.Unlock()

	click.MenuItemID = itemID
	if len(click.Contexts) == 0 {
		click.Contexts = []model.MenuContext{model.MenuContextTab}
	}
	b.emit(platform.Event{Kind: platform.EventMenuClicked, Tab: &tab, Click: click})
	b.HideMenu()
	return nil
}

// ClickAction presses the toolbar button in the focused window.
func (b *Browser) ClickAction(click model.ClickInfo) error {
	tab, err := b.activeTabOfFocus()
	if err != nil {
		return err
	}
	b.emit(platform.Event{Kind: platform.EventActionClicked, Tab: &tab, Click: click})
	return nil
}

// RunCommand fires a keyboard shortcut.
func (b *Browser) RunCommand(name string) {
	b.emit(platform.Event{Kind: platform.EventCommand, Command: name})
}

func (b *Browser) activeTabOfFocus() (model.Tab, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	win, err := b.lookupWindowLocked(b.lastFocus)
	if err != nil {
		return model.Tab{}, fmt.Errorf("no focused window: %w", err)
	}
	for _, id := range win.tabs {
		if t := b.tabs[id]; t.Active {
			return *t, nil
		}
	}
	return model.Tab{}, fmt.Errorf("window %d has no active tab", win.info.ID)
}
