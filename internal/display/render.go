package display

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Render converts a frame to a colored, scaled image.
//
// Each display pixel becomes an sx by sy block. When opts.FPS is positive
// the rate is drawn in the top-left corner.
func Render(frame *image.Gray, palette Palette, opts PresentOptions) *image.RGBA {
	b := frame.Bounds()
	native := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			native.SetRGBA(x, y, palette.Color(lit(frame, b.Min.X+x, b.Min.Y+y, opts.Invert)))
		}
	}

	sx, sy := opts.Scale()
	if sx == 1 && sy == 1 {
		drawFPS(native, palette, opts.FPS)
		return native
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()*sx, b.Dy()*sy))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), native, native.Bounds(), draw.Src, nil)
	drawFPS(out, palette, opts.FPS)
	return out
}

func drawFPS(dst *image.RGBA, palette Palette, fps int) {
	if fps <= 0 {
		return
	}
	face := basicfont.Face7x13
	d := &xfont.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Color(palette.Contrast())),
		Face: face,
		Dot:  fixed.P(4, 4+face.Ascent),
	}
	d.DrawString(fmt.Sprintf("%d FPS", fps))
}
