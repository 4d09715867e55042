package bitmap

import (
	"image"
	"image/color"
)

// Mono is a two-level image stored as packed rows, most significant bit
// first, with a stride of ceil(width/8) bytes.
type Mono struct {
	width  int
	height int
	stride int
	bits   []byte
}

// NewMono creates an all-off w×h image. Negative sizes are treated as zero.
func NewMono(w, h int) *Mono {
	w = max(w, 0)
	h = max(h, 0)
	stride := Stride(w)
	return &Mono{
		width:  w,
		height: h,
		stride: stride,
		bits:   make([]byte, stride*h),
	}
}

// Width returns the image width.
func (m *Mono) Width() int { return m.width }

// Height returns the image height.
func (m *Mono) Height() int { return m.height }

// Stride returns the row length in bytes.
func (m *Mono) Stride() int { return m.stride }

// Bits returns the packed rows. Callers must treat the slice as read-only.
func (m *Mono) Bits() []byte { return m.bits }

// Bit reports whether the pixel at (x, y) is on.
func (m *Mono) Bit(x, y int) bool {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return false
	}
	return bitAt(m.bits, y*m.stride+x/8, x)
}

// Set turns the pixel at (x, y) on or off.
func (m *Mono) Set(x, y int, on bool) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	idx := y*m.stride + x/8
	mask := byte(1) << (7 - uint(x%8))
	if on {
		m.bits[idx] |= mask
	} else {
		m.bits[idx] &^= mask
	}
}

// Invert flips every pixel in place. Padding bits stay clear.
func (m *Mono) Invert() {
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			m.Set(x, y, !m.Bit(x, y))
		}
	}
}

// Lit returns the coordinates of all on pixels in row-major order.
func (m *Mono) Lit() []image.Point {
	var pts []image.Point
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.Bit(x, y) {
				pts = append(pts, image.Pt(x, y))
			}
		}
	}
	return pts
}

// ColorModel implements image.Image.
func (m *Mono) ColorModel() color.Model { return color.GrayModel }

// Bounds implements image.Image.
func (m *Mono) Bounds() image.Rectangle { return image.Rect(0, 0, m.width, m.height) }

// At implements image.Image. On pixels are white.
func (m *Mono) At(x, y int) color.Color {
	if m.Bit(x, y) {
		return color.Gray{Y: 0xff}
	}
	return color.Gray{Y: 0}
}

// BlitMono overlays the on pixels of m at (x, y) in the target's draw color.
func BlitMono(dst Target, m *Mono, x, y int) {
	if m == nil {
		return
	}
	BlitPacked(dst, x, y, m.width, m.height, m.bits, WithStride(m.stride))
}

// thresholdLevel is the gray level at and above which a pixel is on.
const thresholdLevel = 128

// Threshold converts img to a two-level image. Pixels whose gray level is
// at least 128 are on. Two-level sources pass through unchanged.
func Threshold(img image.Image) *Mono {
	if m, ok := img.(*Mono); ok {
		out := NewMono(m.width, m.height)
		copy(out.bits, m.bits)
		return out
	}

	b := img.Bounds()
	out := NewMono(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray) //nolint:errcheck // GrayModel always returns color.Gray
			if g.Y >= thresholdLevel {
				out.Set(x-b.Min.X, y-b.Min.Y, true)
			}
		}
	}
	return out
}
