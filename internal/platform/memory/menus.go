package memory

import (
	"context"
	"fmt"

	"github.com/mj1618/tabshuttle/internal/model"
	"github.com/mj1618/tabshuttle/internal/platform"
)

type menusAPI struct{ b *Browser }

func (m menusAPI) Create(ctx context.Context, item model.MenuItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b := m.b
	b.mu.Lock()
	hook := b.hooks.BeforeMenuCreate
	b.mu.Unlock()
	if hook != nil {
		hook(item)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if item.ID == "" {
		return fmt.Errorf("menu item id is required")
	}
	if _, dup := b.menu[item.ID]; dup {
		return fmt.Errorf("duplicate menu item id %q", item.ID)
	}
	if item.ParentID != "" {
		if _, ok := b.menu[item.ParentID]; !ok {
			return fmt.Errorf("menu parent %q: %w", item.ParentID, platform.ErrNotFound)
		}
	}
	stored := item
	b.menu[item.ID] = &stored
	b.menuOrder = append(b.menuOrder, item.ID)
	return nil
}

func (m menusAPI) Update(ctx context.Context, id string, u platform.MenuUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b := m.b
	b.mu.Lock()
	defer b.mu.Unlock()
	item, ok := b.menu[id]
	if !ok {
		return fmt.Errorf("menu item %q: %w", id, platform.ErrNotFound)
	}
	if u.Title != nil {
		item.Title = *u.Title
	}
	if u.Enabled != nil {
		item.Enabled = *u.Enabled
	}
	return nil
}

// Remove deletes an item and its descendants.
func (m menusAPI) Remove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b := m.b
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.menu[id]; !ok {
		return fmt.Errorf("menu item %q: %w", id, platform.ErrNotFound)
	}
	doomed := map[string]bool{id: true}
	for changed := true; changed; {
		changed = false
		for _, item := range b.menu {
			if !doomed[item.ID] && doomed[item.ParentID] {
				doomed[item.ID] = true
				changed = true
			}
		}
	}
	kept := b.menuOrder[:0]
	for _, mid := range b.menuOrder {
		if doomed[mid] {
			delete(b.menu, mid)
			continue
		}
		kept = append(kept, mid)
	}
	b.menuOrder = kept
	return nil
}

func (m menusAPI) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b := m.b
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.menuShown {
		b.refreshes++
	}
	return nil
}
