package platform

import (
	"context"

	"github.com/mj1618/tabshuttle/internal/model"
)

// Windows enumerates and mutates browser windows.
type Windows interface {
	List(ctx context.Context, opts ListWindowsOptions) ([]model.Window, error)
	Get(ctx context.Context, id model.WindowID, populate bool) (model.Window, error)
	Create(ctx context.Context, opts CreateWindowOptions) (model.Window, error)
	Update(ctx context.Context, id model.WindowID, opts UpdateWindowOptions) error
	Remove(ctx context.Context, id model.WindowID) error
}

// Tabs enumerates and mutates browser tabs.
type Tabs interface {
	Query(ctx context.Context, q TabQuery) ([]model.Tab, error)
	Get(ctx context.Context, id model.TabID) (model.Tab, error)
	// Move relocates tabs in the order given.
	Move(ctx context.Context, ids []model.TabID, opts MoveOptions) ([]model.Tab, error)
	Update(ctx context.Context, id model.TabID, opts UpdateTabOptions) (model.Tab, error)
	Create(ctx context.Context, opts CreateTabOptions) (model.Tab, error)
	// Remove closes all tabs in one call.
	Remove(ctx context.Context, ids []model.TabID) error
}

// Menus manages context menu entries.
type Menus interface {
	Create(ctx context.Context, item model.MenuItem) error
	Update(ctx context.Context, id string, u MenuUpdate) error
	Remove(ctx context.Context, id string) error
	// Refresh re-renders a menu that is currently shown.
	Refresh(ctx context.Context) error
}

// Badge mutates the toolbar button.
type Badge interface {
	SetText(ctx context.Context, text string) error
	SetColor(ctx context.Context, c BadgeColor) error
	SetTitle(ctx context.Context, title string) error
	SetIcon(ctx context.Context, path string) error
}
