package memory

import (
	"context"

	"github.com/mj1618/tabshuttle/internal/platform"
)

type badgeAPI struct{ b *Browser }

func (a badgeAPI) SetText(ctx context.Context, text string) error {
	return a.set(ctx, func(s *BadgeState) { s.Text = text })
}

func (a badgeAPI) SetColor(ctx context.Context, c platform.BadgeColor) error {
	return a.set(ctx, func(s *BadgeState) { s.Color = c.String() })
}

func (a badgeAPI) SetTitle(ctx context.Context, title string) error {
	return a.set(ctx, func(s *BadgeState) { s.Title = title })
}

func (a badgeAPI) SetIcon(ctx context.Context, path string) error {
	return a.set(ctx, func(s *BadgeState) { s.Icon = path })
}

func (a badgeAPI) set(ctx context.Context, fn func(*BadgeState)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.b.mu.Lock()
	defer a.b.mu.Unlock()
	fn(&a.b.badge)
	return nil
}
