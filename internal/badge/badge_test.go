package badge

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/mj1618/tabshuttle/internal/config"
	"github.com/mj1618/tabshuttle/internal/model"
	"github.com/mj1618/tabshuttle/internal/platform/memory"
)

func newBrowser() (*memory.Browser, model.Window, model.Window) {
	b := memory.NewBrowser()
	w1 := b.AddWindow(model.Window{Title: "Work", Tabs: []model.Tab{
		{URL: "https://a.example"}, {URL: "https://b.example"}, {URL: "https://c.example"},
	}})
	w2 := b.AddWindow(model.Window{Title: "Secret", Incognito: true, Tabs: []model.Tab{
		{URL: "https://d.example"},
	}})
	return b, w1, w2
}

func TestRefresh_NormalTarget(t *testing.T) {
	b, w1, _ := newBrowser()
	p := b.Provider()
	r := NewRefresher(p.Windows, p.Badge, config.Default())
	if err := r.Refresh(context.Background(), w1.ID); err != nil {
		t.Fatal(err)
	}
	got := b.Badge()
	if got.Text != "3" {
		t.Errorf("text: got %q, want 3", got.Text)
	}
	if got.Color != ColorNormal.String() {
		t.Errorf("color: got %q", got.Color)
	}
	if got.Title != "Move to: Work" {
		t.Errorf("title: got %q", got.Title)
	}
	if got.Icon != IconNormal {
		t.Errorf("icon: got %q", got.Icon)
	}
}

func TestRefresh_IncognitoTarget(t *testing.T) {
	b, _, w2 := newBrowser()
	p := b.Provider()
	r := NewRefresher(p.Windows, p.Badge, config.Default())
	if err := r.Refresh(context.Background(), w2.ID); err != nil {
		t.Fatal(err)
	}
	got := b.Badge()
	if got.Color != ColorIncognito.String() || got.Icon != IconIncognito {
		t.Errorf("got %+v, want incognito styling", got)
	}
}

func TestRefresh_BadgeDisabled(t *testing.T) {
	b, w1, _ := newBrowser()
	p := b.Provider()
	s := config.Default()
	s.ShowRecencyBadge = false
	r := NewRefresher(p.Windows, p.Badge, s)
	if err := r.Refresh(context.Background(), w1.ID); err != nil {
		t.Fatal(err)
	}
	got := b.Badge()
	if got.Text != "" {
		t.Errorf("text should be empty when the badge is disabled, got %q", got.Text)
	}
	if got.Title != "Move to: Work" {
		t.Errorf("title should still be set, got %q", got.Title)
	}
}

func TestRefresh_InvalidAndMissingTargets(t *testing.T) {
	b, w1, _ := newBrowser()
	p := b.Provider()
	r := NewRefresher(p.Windows, p.Badge, config.Default())
	ctx := context.Background()
	_ = r.Refresh(ctx, w1.ID)

	if err := r.Refresh(ctx, model.WindowIDNone); err != nil {
		t.Fatal(err)
	}
	if got := b.Badge(); got.Text != "" || got.Icon != IconIdle {
		t.Errorf("none sentinel should reset the badge, got %+v", got)
	}

	_ = r.Refresh(ctx, w1.ID)
	if err := r.Refresh(ctx, 99); err == nil {
		t.Error("expected error for a missing window")
	}
	if got := b.Badge(); got.Text != "" || got.Icon != IconIdle {
		t.Errorf("missing window should reset the badge, got %+v", got)
	}
}

func TestCountText(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"}, {7, "7"}, {99, "99"}, {100, "99+"}, {2500, "99+"},
	}
	for _, tt := range tests {
		if got := CountText(tt.n); got != tt.want {
			t.Errorf("CountText(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestRenderIcon(t *testing.T) {
	data, err := RenderIcon("12", false)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("not a valid PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != IconSize || b.Dy() != IconSize {
		t.Errorf("size: got %dx%d", b.Dx(), b.Dy())
	}
	// Corner keeps the background; some pixel near the middle is text white.
	r, g, bl, _ := img.At(0, 0).RGBA()
	if uint8(r>>8) != ColorNormal[0] || uint8(g>>8) != ColorNormal[1] || uint8(bl>>8) != ColorNormal[2] {
		t.Errorf("corner pixel is not the background color")
	}
	foundWhite := false
	for y := 0; y < IconSize && !foundWhite; y++ {
		for x := 0; x < IconSize; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r == 0xffff && g == 0xffff && bl == 0xffff {
				foundWhite = true
				break
			}
		}
	}
	if !foundWhite {
		t.Error("expected text pixels in the icon")
	}
}
