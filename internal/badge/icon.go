package badge

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/mj1618/tabshuttle/internal/platform"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// IconSize is the edge length of rendered icons in pixels.
const IconSize = 32

// RenderIcon draws a square icon with text centered on a background of the
// badge color for the given privacy mode, and returns it PNG-encoded.
func RenderIcon(text string, incognito bool) ([]byte, error) {
	bg := ColorNormal
	if incognito {
		bg = ColorIncognito
	}
	img := DrawIcon(text, bg)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// DrawIcon returns the icon as an RGBA image.
func DrawIcon(text string, bg platform.BadgeColor) *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, IconSize, IconSize))
	fill := color.RGBA{R: bg[0], G: bg[1], B: bg[2], A: bg[3]}
	draw.Draw(rgba, rgba.Bounds(), &image.Uniform{C: fill}, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: face,
	}
	width := d.MeasureString(text).Ceil()
	x := (IconSize - width) / 2
	if x < 0 {
		x = 0
	}
	// The baseline sits so that the glyph box (ascent 11, descent 2) is
	// vertically centered.
	y := (IconSize + face.Ascent - face.Descent) / 2
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
	return rgba
}
