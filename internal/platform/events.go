package platform

import "github.com/mj1618/tabshuttle/internal/model"

// EventKind names a host event.
type EventKind string

const (
	EventFocusChanged  EventKind = "focus_changed"
	EventWindowRemoved EventKind = "window_removed"
	EventMenuShown     EventKind = "menu_shown"
	EventMenuHidden    EventKind = "menu_hidden"
	EventMenuClicked   EventKind = "menu_clicked"
	EventActionClicked EventKind = "action_clicked"
	EventCommand       EventKind = "command"
)

// Event is a host event. Which fields are set depends on Kind.
type Event struct {
	Kind     EventKind
	WindowID model.WindowID  // focus_changed, window_removed
	Tab      *model.Tab      // menu_shown, menu_clicked, action_clicked
	Click    model.ClickInfo // menu_shown, menu_clicked, action_clicked
	Command  string          // command
}
