package logx

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/mj1618/tabshuttle/internal/model"
	"pkt.systems/pslog"
)

func TestNew_DebugGating(t *testing.T) {
	var quiet bytes.Buffer
	New(&quiet, false).Debug("hidden")
	if quiet.Len() != 0 {
		t.Errorf("debug entry written without debug enabled: %s", quiet.String())
	}

	var loud bytes.Buffer
	New(&loud, true).Debug("shown")
	if loud.Len() == 0 {
		t.Error("debug entry missing with debug enabled")
	}
}

func TestWithTabAddsFields(t *testing.T) {
	capture := &logCapture{}
	logger := pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
	WithTab(logger, model.Tab{ID: 12, WindowID: 3}).Info("hello")

	entry := capture.firstEntry(t)
	if entry["tab"] != float64(12) {
		t.Errorf("expected tab field, got %+v", entry)
	}
	if entry["window"] != float64(3) {
		t.Errorf("expected window field, got %+v", entry)
	}
}

func TestWithWindowSkipsSentinel(t *testing.T) {
	capture := &logCapture{}
	logger := pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
	WithWindow(logger, model.WindowIDNone).Info("hello")

	entry := capture.firstEntry(t)
	if _, ok := entry["window"]; ok {
		t.Errorf("did not expect window field for the none sentinel, got %+v", entry)
	}
}

func TestWithSession(t *testing.T) {
	capture := &logCapture{}
	logger := pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
	ctx := WithLogger(context.Background(), logger)
	WithSession(Ctx(ctx), 7).Info("hello")

	entry := capture.firstEntry(t)
	if entry["session"] != float64(7) {
		t.Errorf("expected session field, got %+v", entry)
	}
}

type logCapture struct {
	buf bytes.Buffer
}

func (c *logCapture) Write(p []byte) (int, error) {
	return c.buf.Write(p)
}

func (c *logCapture) firstEntry(t *testing.T) map[string]any {
	t.Helper()
	data := c.buf.Bytes()
	idx := bytes.IndexByte(data, '\n')
	if idx == -1 {
		idx = len(data)
	}
	line := bytes.TrimSpace(data[:idx])
	entry := map[string]any{}
	if err := json.Unmarshal(line, &entry); err != nil {
		t.Fatalf("parse log entry: %v", err)
	}
	return entry
}
