// Package badge draws the toolbar button state that shows which window a
// move would land in.
package badge

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mj1618/tabshuttle/internal/config"
	"github.com/mj1618/tabshuttle/internal/model"
	"github.com/mj1618/tabshuttle/internal/platform"
)

var (
	ColorNormal    = platform.BadgeColor{0x0a, 0x84, 0xff, 0xff}
	ColorIncognito = platform.BadgeColor{0x80, 0x00, 0xd7, 0xff}
)

const (
	IconNormal    = "icons/target-normal.png"
	IconIncognito = "icons/target-incognito.png"
	IconIdle      = "icons/idle.png"

	defaultTitle = "Move tab to window"
	maxCount     = 99
)

// Refresher updates the badge for a target window.
type Refresher struct {
	windows  platform.Windows
	badge    platform.Badge
	settings config.Settings
}

// NewRefresher creates a Refresher.
func NewRefresher(windows platform.Windows, badge platform.Badge, settings config.Settings) *Refresher {
	return &Refresher{windows: windows, badge: badge, settings: settings}
}

// Refresh shows the target's tab count, privacy mode and title. Invalid or
// vanished targets reset the button to idle.
func (r *Refresher) Refresh(ctx context.Context, target model.WindowID) error {
	if !target.Valid() {
		return r.reset(ctx)
	}
	w, err := r.windows.Get(ctx, target, true)
	if err != nil {
		if resetErr := r.reset(ctx); resetErr != nil {
			return resetErr
		}
		return fmt.Errorf("badge target %d: %w", target, err)
	}

	title := "Move to: " + w.Title
	if w.Title == "" {
		title = fmt.Sprintf("Move to window %d", w.ID)
	}
	if err := r.badge.SetTitle(ctx, title); err != nil {
		return fmt.Errorf("set badge title: %w", err)
	}
	icon, color := IconNormal, ColorNormal
	if w.Incognito {
		icon, color = IconIncognito, ColorIncognito
	}
	if err := r.badge.SetIcon(ctx, icon); err != nil {
		return fmt.Errorf("set badge icon: %w", err)
	}
	if !r.settings.ShowRecencyBadge {
		return r.badge.SetText(ctx, "")
	}
	if err := r.badge.SetColor(ctx, color); err != nil {
		return fmt.Errorf("set badge color: %w", err)
	}
	return r.badge.SetText(ctx, CountText(len(w.Tabs)))
}

func (r *Refresher) reset(ctx context.Context) error {
	if err := r.badge.SetText(ctx, ""); err != nil {
		return fmt.Errorf("clear badge text: %w", err)
	}
	if err := r.badge.SetTitle(ctx, defaultTitle); err != nil {
		return fmt.Errorf("set badge title: %w", err)
	}
	return r.badge.SetIcon(ctx, IconIdle)
}

// CountText renders a tab count for the badge, capped at "99+".
func CountText(n int) string {
	if n > maxCount {
		return strconv.Itoa(maxCount) + "+"
	}
	return strconv.Itoa(n)
}
