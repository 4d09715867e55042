package framebuffer

import (
	"image"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Framebuffer is a monochrome pixel grid with a current draw color and font.
//
// A Framebuffer is not safe for concurrent use.
type Framebuffer struct {
	width  int
	height int
	pix    *image.Gray

	color Color
	face  xfont.Face
}

// New creates a cleared framebuffer drawing in On with the built-in font.
func New(width, height int) (*Framebuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	return &Framebuffer{
		width:  width,
		height: height,
		pix:    image.NewGray(image.Rect(0, 0, width, height)),
		color:  On,
		face:   basicfont.Face7x13,
	}, nil
}

// Width returns the display width in pixels.
func (fb *Framebuffer) Width() int { return fb.width }

// Height returns the display height in pixels.
func (fb *Framebuffer) Height() int { return fb.height }

// Bounds returns the display rectangle.
func (fb *Framebuffer) Bounds() image.Rectangle { return fb.pix.Rect }

// Image returns the pixel storage. Callers must treat it as read-only.
func (fb *Framebuffer) Image() *image.Gray { return fb.pix }

// Snapshot returns a copy of the current pixels.
func (fb *Framebuffer) Snapshot() *image.Gray {
	out := image.NewGray(fb.pix.Rect)
	copy(out.Pix, fb.pix.Pix)
	return out
}

// Clear turns every pixel off. The draw color is unchanged.
func (fb *Framebuffer) Clear() {
	clear(fb.pix.Pix)
}

// SetDrawColor sets the color used by subsequent drawing operations.
func (fb *Framebuffer) SetDrawColor(c Color) {
	fb.color = ColorFrom(c)
}

// DrawColor returns the current draw color.
func (fb *Framebuffer) DrawColor() Color { return fb.color }

// Pixel reports the color of the pixel at (x, y). Out of range pixels are Off.
func (fb *Framebuffer) Pixel(x, y int) Color {
	if !fb.inBounds(x, y) {
		return Off
	}
	if fb.pix.Pix[y*fb.pix.Stride+x] != offLevel {
		return On
	}
	return Off
}

// Lit returns the coordinates of every lit pixel in row-major order.
func (fb *Framebuffer) Lit() []image.Point {
	var pts []image.Point
	for y := 0; y < fb.height; y++ {
		row := fb.pix.Pix[y*fb.pix.Stride : y*fb.pix.Stride+fb.width]
		for x, v := range row {
			if v != offLevel {
				pts = append(pts, image.Pt(x, y))
			}
		}
	}
	return pts
}

// DrawPixel writes a single pixel in the current draw color.
func (fb *Framebuffer) DrawPixel(x, y int) {
	fb.set(x, y)
}

func (fb *Framebuffer) inBounds(x, y int) bool {
	return x >= 0 && x < fb.width && y >= 0 && y < fb.height
}

// set is the single clipped write path used by every primitive.
func (fb *Framebuffer) set(x, y int) {
	if !fb.inBounds(x, y) {
		return
	}
	fb.pix.Pix[y*fb.pix.Stride+x] = fb.color.level()
}

// span fills the inclusive horizontal run [x0, x1] on row y.
func (fb *Framebuffer) span(x0, x1, y int) {
	if y < 0 || y >= fb.height {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	x0 = max(x0, 0)
	x1 = min(x1, fb.width-1)
	if x0 > x1 {
		return
	}
	level := fb.color.level()
	row := fb.pix.Pix[y*fb.pix.Stride:]
	for x := x0; x <= x1; x++ {
		row[x] = level
	}
}
