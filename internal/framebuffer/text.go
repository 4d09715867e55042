package framebuffer

import (
	"image"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Fallback metrics used when a font reports none.
const (
	fallbackAscent  = 8
	fallbackDescent = 2
)

// coverageThreshold is the minimum glyph coverage that lights a pixel.
const coverageThreshold = 128

// SetFont selects the font used by DrawStr. A nil face selects the
// built-in 7x13 font. Existing pixels are not affected.
func (fb *Framebuffer) SetFont(face xfont.Face) {
	if face == nil {
		face = basicfont.Face7x13
	}
	fb.face = face
}

// Font returns the active font.
func (fb *Framebuffer) Font() xfont.Face { return fb.face }

// FontAscentDescent returns the active font's ascent and descent in pixels.
func (fb *Framebuffer) FontAscentDescent() (ascent, descent int) {
	return Metrics(fb.face)
}

// Metrics returns the ascent and descent of face in whole pixels, falling
// back to 8 and 2 when the face reports no ascent.
func Metrics(face xfont.Face) (ascent, descent int) {
	if face == nil {
		return fallbackAscent, fallbackDescent
	}
	m := face.Metrics()
	ascent = m.Ascent.Ceil()
	descent = m.Descent.Ceil()
	if ascent <= 0 {
		return fallbackAscent, fallbackDescent
	}
	return ascent, descent
}

// StrWidth returns the advance width of s in the active font.
func (fb *Framebuffer) StrWidth(s string) int {
	return xfont.MeasureString(fb.face, s).Ceil()
}

// DrawStr draws s with its baseline on row y and returns the advance width.
// The glyph box top is y minus the font ascent.
func (fb *Framebuffer) DrawStr(x, y int, s string) int {
	if s == "" {
		return 0
	}

	ascent, descent := fb.FontAscentDescent()
	top := y - ascent
	bounds, advance := xfont.BoundString(fb.face, s)
	width := advance.Ceil()
	if top >= fb.height || y+descent < 0 || x >= fb.width {
		return width
	}

	// Rasterize into a mask whose origin is the pen position on the baseline.
	rect := image.Rect(bounds.Min.X.Floor(), bounds.Min.Y.Floor(), bounds.Max.X.Ceil(), bounds.Max.Y.Ceil())
	if rect.Empty() {
		return width
	}
	mask := image.NewAlpha(rect)
	d := xfont.Drawer{Dst: mask, Src: image.Opaque, Face: fb.face}
	d.DrawString(s)

	for my := rect.Min.Y; my < rect.Max.Y; my++ {
		row := mask.Pix[(my-rect.Min.Y)*mask.Stride:]
		for mx := rect.Min.X; mx < rect.Max.X; mx++ {
			if row[mx-rect.Min.X] >= coverageThreshold {
				fb.set(x+mx, top+ascent+my)
			}
		}
	}
	return width
}

// DrawUTF8 is DrawStr; strings are always treated as UTF-8.
func (fb *Framebuffer) DrawUTF8(x, y int, s string) int {
	return fb.DrawStr(x, y, s)
}
