package display

import (
	"fmt"
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Default palette colors.
const (
	DefaultOnColor  = "#ffffff"
	DefaultOffColor = "#000000"
)

// Palette maps the two pixel states to output colors.
type Palette struct {
	On  color.RGBA
	Off color.RGBA
}

// DefaultPalette returns white pixels on black.
func DefaultPalette() Palette {
	p, _ := ParsePalette(DefaultOnColor, DefaultOffColor)
	return p
}

// ParsePalette builds a palette from two hex color strings such as
// "#33ff66". An empty string selects the default for that state.
func ParsePalette(on, off string) (Palette, error) {
	if on == "" {
		on = DefaultOnColor
	}
	if off == "" {
		off = DefaultOffColor
	}
	onc, err := parseHex(on)
	if err != nil {
		return Palette{}, err
	}
	offc, err := parseHex(off)
	if err != nil {
		return Palette{}, err
	}
	return Palette{On: onc, Off: offc}, nil
}

func parseHex(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("display: invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Color returns the output color for a pixel state.
func (p Palette) Color(on bool) color.RGBA {
	if on {
		return p.On
	}
	return p.Off
}

// tcellColor converts a palette entry to a true-color tcell color.
func tcellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Contrast returns a color readable on top of the palette's off color.
func (p Palette) Contrast() color.RGBA {
	off, _ := colorful.MakeColor(p.Off)
	l, _, _ := off.Lab()
	if l > 0.5 {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: 0x00, G: 0xff, B: 0x00, A: 0xff}
}
