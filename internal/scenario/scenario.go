// Package scenario replays scripted user input against a simulated browser
// running the background.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/tabshuttle/internal/model"
)

// Step actions.
const (
	DoFocus       = "focus"
	DoClose       = "close"
	DoActivate    = "activate"
	DoHighlight   = "highlight"
	DoShowMenu    = "show-menu"
	DoHideMenu    = "hide-menu"
	DoClickMenu   = "click-menu"
	DoCommand     = "command"
	DoClickAction = "click-action"
	DoWait        = "wait"
)

// Scenario is a starting browser layout and the input to replay on it.
type Scenario struct {
	Windows []model.Window `yaml:"windows"`
	Steps   []Step         `yaml:"steps,omitempty"`
}

// Step is one user action. Which fields apply depends on Do.
type Step struct {
	Do      string         `yaml:"do"                json:"do"`
	Window  model.WindowID `yaml:"window,omitempty"  json:"window,omitempty"`
	Tab     model.TabID    `yaml:"tab,omitempty"     json:"tab,omitempty"`
	Tabs    []model.TabID  `yaml:"tabs,omitempty"    json:"tabs,omitempty"`
	Item    string         `yaml:"item,omitempty"    json:"item,omitempty"`
	Kind    string         `yaml:"kind,omitempty"    json:"kind,omitempty"`
	Command string         `yaml:"command,omitempty" json:"command,omitempty"`
	Shift   bool           `yaml:"shift,omitempty"   json:"shift,omitempty"`
	Button  int            `yaml:"button,omitempty"  json:"button,omitempty"`
	// NoWait skips handling the events the step caused, so that the next
	// step overlaps with them.
	NoWait bool `yaml:"no_wait,omitempty" json:"no_wait,omitempty"`
}

// Click returns the click details the step carries.
func (s Step) Click() model.ClickInfo {
	c := model.ClickInfo{Button: s.Button}
	if s.Shift {
		c.Modifiers = []model.Modifier{model.ModShift}
	}
	return c
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that every step names a known action with its arguments.
func (s *Scenario) Validate() error {
	if len(s.Windows) == 0 {
		return fmt.Errorf("scenario has no windows")
	}
	for i, w := range s.Windows {
		if len(w.Tabs) == 0 {
			return fmt.Errorf("window %d has no tabs", i+1)
		}
	}
	for i, step := range s.Steps {
		if err := step.Validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

// Validate checks one step.
func (s Step) Validate() error {
	switch s.Do {
	case DoFocus:
		if s.Window == 0 {
			return fmt.Errorf("%s requires window (use -1 for none)", s.Do)
		}
	case DoClose:
		if !s.Window.Valid() {
			return fmt.Errorf("%s requires window", s.Do)
		}
	case DoActivate, DoShowMenu:
		if s.Tab < 1 {
			return fmt.Errorf("%s requires tab", s.Do)
		}
	case DoHighlight:
		if len(s.Tabs) == 0 {
			return fmt.Errorf("%s requires tabs", s.Do)
		}
	case DoClickMenu:
		if s.Item == "" && !s.Window.Valid() {
			return fmt.Errorf("%s requires item or window", s.Do)
		}
	case DoCommand:
		if s.Command == "" {
			return fmt.Errorf("%s requires command", s.Do)
		}
	case DoHideMenu, DoClickAction, DoWait:
	case "":
		return fmt.Errorf("missing do")
	default:
		return fmt.Errorf("unknown action %q", s.Do)
	}
	return nil
}

// Default is the layout used when no scenario is given: two normal windows
// and a private one.
func Default() *Scenario {
	return &Scenario{Windows: []model.Window{
		{Title: "Window 1", Tabs: []model.Tab{
			{URL: "https://example.com/", Title: "Example", Active: true},
			{URL: "https://example.org/", Title: "Example Org"},
		}},
		{Title: "Window 2", Tabs: []model.Tab{{URL: "https://example.net/", Title: "Example Net"}}},
		{Title: "Private", Incognito: true, Tabs: []model.Tab{{URL: "about:privatebrowsing", Title: "Private Browsing"}}},
	}}
}
