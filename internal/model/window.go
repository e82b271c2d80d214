package model

// WindowID identifies a live browser window. Valid ids are positive.
type WindowID int

// WindowIDNone is the sentinel the host uses for "no window", e.g. when focus
// leaves the browser entirely.
const WindowIDNone WindowID = -1

// Valid reports whether id refers to a real window.
func (id WindowID) Valid() bool { return id > 0 }

// WindowType is the host's window classification.
type WindowType string

const (
	WindowNormal   WindowType = "normal"
	WindowPopup    WindowType = "popup"
	WindowPanel    WindowType = "panel"
	WindowDevtools WindowType = "devtools"
)

// Window represents a browser window.
type Window struct {
	ID        WindowID   `yaml:"id"                  json:"id"`
	Type      WindowType `yaml:"type"                json:"type"`
	Incognito bool       `yaml:"incognito,omitempty" json:"incognito,omitempty"`
	Title     string     `yaml:"title,omitempty"     json:"title,omitempty"`
	Focused   bool       `yaml:"focused,omitempty"   json:"focused,omitempty"`
	Tabs      []Tab      `yaml:"tabs,omitempty"      json:"tabs,omitempty"`
}

// IsNormal reports whether w is a regular top-level window.
func (w Window) IsNormal() bool { return w.Type == WindowNormal }
