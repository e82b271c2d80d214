package scenario

import (
	"context"
	"fmt"

	"pkt.systems/pslog"

	"github.com/mj1618/tabshuttle/internal/background"
	"github.com/mj1618/tabshuttle/internal/config"
	"github.com/mj1618/tabshuttle/internal/menu"
	"github.com/mj1618/tabshuttle/internal/output"
	"github.com/mj1618/tabshuttle/internal/platform"
	"github.com/mj1618/tabshuttle/internal/platform/memory"
	"github.com/mj1618/tabshuttle/internal/relocate"
)

// eventBuffer bounds how many events may queue between two settles.
const eventBuffer = 256

// Runner drives a memory browser and the background attached to it.
type Runner struct {
	Browser    *memory.Browser
	Background *background.Background

	log    pslog.Logger
	events <-chan platform.Event
}

// NewRunner builds the scenario's windows and starts the background on them.
func NewRunner(ctx context.Context, s *Scenario, settings config.Settings, log pslog.Logger) (*Runner, error) {
	b := memory.NewBrowser()
	for _, w := range s.Windows {
		b.AddWindow(w)
	}
	events := b.Subscribe(eventBuffer)
	bg, err := background.New(b.Provider(), settings, log)
	if err != nil {
		return nil, err
	}
	if err := bg.Start(ctx); err != nil {
		return nil, err
	}
	return &Runner{Browser: b, Background: bg, log: log, events: events}, nil
}

// Run applies every step of s in order.
func (r *Runner) Run(ctx context.Context, s *Scenario) error {
	for i, step := range s.Steps {
		if err := r.Apply(ctx, step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Do, err)
		}
	}
	return r.Settle(ctx)
}

// Apply performs one step and, unless the step says otherwise, waits for
// the background to handle what it caused.
func (r *Runner) Apply(ctx context.Context, step Step) error {
	if err := step.Validate(); err != nil {
		return err
	}
	r.log.Debug("scenario step", "do", step.Do)
	b := r.Browser
	var err error
	switch step.Do {
	case DoFocus:
		err = b.Focus(step.Window)
	case DoClose:
		err = b.CloseWindow(step.Window)
	case DoActivate:
		err = b.Activate(step.Tab)
	case DoHighlight:
		err = b.Highlight(step.Tabs...)
	case DoShowMenu:
		err = b.ShowMenu(step.Tab, step.Click())
	case DoHideMenu:
		b.HideMenu()
	case DoClickMenu:
		err = b.ClickMenu(r.itemID(step), step.Click())
	case DoCommand:
		b.RunCommand(step.Command)
	case DoClickAction:
		err = b.ClickAction(step.Click())
	case DoWait:
		return r.Settle(ctx)
	}
	if err != nil || step.NoWait {
		return err
	}
	return r.Settle(ctx)
}

// itemID resolves a click-menu step to an entry of the live session when
// the step names a window instead of an entry id.
func (r *Runner) itemID(step Step) string {
	if step.Item != "" {
		return step.Item
	}
	kind := relocate.KindMove
	if step.Kind != "" {
		kind = relocate.Kind(step.Kind)
	}
	return menu.ItemID(kind, step.Window, r.Background.Menu.Current())
}

// Settle waits until every event raised so far has been handled.
func (r *Runner) Settle(ctx context.Context) error {
	if err := r.Background.Settle(ctx, r.events); err != nil {
		return err
	}
	r.Background.Wait()
	return nil
}

// State reports the browser and the background's view of it.
func (r *Runner) State() output.StateResult {
	return output.StateResult{
		State:   r.Browser.Snapshot(),
		Recency: r.Background.Recency(),
		Session: r.Background.Menu.Current(),
	}
}

// Close ends the event stream.
func (r *Runner) Close() {
	r.Browser.Close()
}
