package platform

import (
	"fmt"
	"strings"

	"github.com/mj1618/tabshuttle/internal/model"
)

// ListWindowsOptions controls window enumeration.
type ListWindowsOptions struct {
	NormalOnly bool // Only return windows of type normal
	Populate   bool // Fill in each window's Tabs
}

// CreateWindowOptions describes a window to open.
type CreateWindowOptions struct {
	TabID     model.TabID // Move this existing tab into the new window (TabIDNone = unset)
	URL       string      // Open this URL when TabID is unset
	Incognito bool
	Focused   bool
}

// UpdateWindowOptions changes window state.
type UpdateWindowOptions struct {
	Focused *bool
}

// TabQuery filters tabs. Zero-valued fields do not filter.
type TabQuery struct {
	WindowID      model.WindowID
	CurrentWindow bool // Restrict to the last focused window
	Active        *bool
	Highlighted   *bool
}

// MoveOptions places moved tabs. Index -1 appends at the tail.
type MoveOptions struct {
	WindowID model.WindowID
	Index    int
}

// UpdateTabOptions changes tab state. Nil fields are left untouched.
type UpdateTabOptions struct {
	Active      *bool
	Highlighted *bool
	Pinned      *bool
}

// CreateTabOptions describes a tab to open.
type CreateTabOptions struct {
	WindowID    model.WindowID
	URL         string
	Active      bool
	Pinned      bool
	CookieStore string
	Index       int // -1 appends
}

// MenuUpdate changes a menu item. Nil fields are left untouched.
type MenuUpdate struct {
	Title   *string
	Enabled *bool
}

// BadgeColor is an RGBA badge background.
type BadgeColor [4]uint8

// String renders the color as #rrggbbaa.
func (c BadgeColor) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c[0], c[1], c[2], c[3])
}

// ParseBadgeColor parses "#rrggbb" or "#rrggbbaa".
func ParseBadgeColor(s string) (BadgeColor, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return BadgeColor{}, fmt.Errorf("invalid color %q: expected #rrggbb or #rrggbbaa", s)
	}
	if len(s) == 6 {
		s += "ff"
	}
	var c BadgeColor
	if _, err := fmt.Sscanf(s, "%02x%02x%02x%02x", &c[0], &c[1], &c[2], &c[3]); err != nil {
		return BadgeColor{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

// Bool returns a pointer to b, for option structs.
func Bool(b bool) *bool { return &b }

// String returns a pointer to s, for option structs.
func String(s string) *string { return &s }
