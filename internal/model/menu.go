package model

// MenuContext is where a menu item is shown.
type MenuContext string

const (
	MenuContextTab    MenuContext = "tab"
	MenuContextAction MenuContext = "browser_action"
	MenuContextPage   MenuContext = "page"
)

// MenuItem is a context menu entry as the host holds it.
type MenuItem struct {
	ID       string        `yaml:"id"                json:"id"`
	ParentID string        `yaml:"parent,omitempty"  json:"parent,omitempty"`
	Title    string        `yaml:"title"             json:"title"`
	Enabled  bool          `yaml:"enabled"           json:"enabled"`
	Contexts []MenuContext `yaml:"contexts,omitempty" json:"contexts,omitempty"`
}

// Modifier is a keyboard modifier held during a click.
type Modifier string

const (
	ModShift Modifier = "Shift"
	ModCtrl  Modifier = "Ctrl"
	ModAlt   Modifier = "Alt"
)

// ClickInfo describes a menu or toolbar click.
type ClickInfo struct {
	MenuItemID string        `yaml:"menu_item,omitempty" json:"menu_item,omitempty"`
	Contexts   []MenuContext `yaml:"contexts,omitempty"  json:"contexts,omitempty"`
	Modifiers  []Modifier    `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`
	Button     int           `yaml:"button,omitempty"    json:"button,omitempty"`
}

// HasContext reports whether c includes ctx.
func (c ClickInfo) HasContext(ctx MenuContext) bool {
	for _, x := range c.Contexts {
		if x == ctx {
			return true
		}
	}
	return false
}

// ForcesSwitch reports whether the click asks for the moved tab to be
// activated: shift held, or any button other than the primary one.
func (c ClickInfo) ForcesSwitch() bool {
	if c.Button != 0 {
		return true
	}
	for _, m := range c.Modifiers {
		if m == ModShift {
			return true
		}
	}
	return false
}
