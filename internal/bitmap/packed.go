package bitmap

import "image"

// Target receives pixel writes. Writes outside Bounds must be ignored.
type Target interface {
	DrawPixel(x, y int)
	Bounds() image.Rectangle
}

// packedOptions configures a packed blit.
type packedOptions struct {
	stride int
	invert bool
}

// PackedOption configures BlitPacked.
type PackedOption func(*packedOptions)

// WithStride sets the number of bytes per row. The default is ceil(w/8).
func WithStride(stride int) PackedOption {
	return func(o *packedOptions) {
		o.stride = stride
	}
}

// WithInvert flips every decoded bit before it is drawn.
func WithInvert(invert bool) PackedOption {
	return func(o *packedOptions) {
		o.invert = invert
	}
}

// Stride returns the default row length in bytes for a w pixel wide bitmap.
func Stride(w int) int {
	if w <= 0 {
		return 0
	}
	return (w + 7) / 8
}

// BlitPacked draws a w×h packed 1-bpp bitmap with its top-left corner at
// (x, y). Bit 7 of a row's first byte is column 0. Bytes missing from a
// short buffer decode as unset. Only the part of the bitmap that overlaps
// dst.Bounds() is visited, so the cost is bounded by the target size.
func BlitPacked(dst Target, x, y, w, h int, data []byte, opts ...PackedOption) {
	o := packedOptions{stride: Stride(w)}
	for _, opt := range opts {
		opt(&o)
	}
	if w <= 0 || h <= 0 || o.stride < 0 {
		return
	}

	b := dst.Bounds()
	r0, r1 := visibleSpan(y, h, b.Min.Y, b.Max.Y)
	c0, c1 := visibleSpan(x, w, b.Min.X, b.Max.X)
	if !o.invert && o.stride > 0 {
		// Rows past the end of data decode as unset and draw nothing.
		if rows := (len(data) + o.stride - 1) / o.stride; rows < r1 {
			r1 = rows
		}
	}

	for r := r0; r < r1; r++ {
		rowOff := r * o.stride
		for c := c0; c < c1; c++ {
			if bitAt(data, rowOff+c/8, c) != o.invert {
				dst.DrawPixel(x+c, y+r)
			}
		}
	}
}

// visibleSpan returns the half-open index range [lo, hi) of an n long run
// starting at origin that falls inside [start, end).
func visibleSpan(origin, n, start, end int) (lo, hi int) {
	lo, hi = 0, n
	if d := start - origin; d > lo {
		lo = d
	}
	if d := end - origin; d < hi {
		hi = d
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// bitAt extracts column c's bit from data[idx], treating bytes past the end
// of data as zero.
func bitAt(data []byte, idx, c int) bool {
	if idx < 0 || idx >= len(data) {
		return false
	}
	return data[idx]>>(7-uint(c%8))&1 == 1
}
