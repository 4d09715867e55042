package framebuffer

import "math"

// maxRadius bounds circle radii. Larger circles are treated as out of range
// and draw nothing.
const maxRadius = 1 << 15

// lineClipLimit is the coordinate magnitude above which lines are clipped
// to the display before rasterizing.
const lineClipLimit = 1 << 14

// Circle sections for partial circles.
const (
	sectionUpperRight uint8 = 1 << iota
	sectionUpperLeft
	sectionLowerLeft
	sectionLowerRight

	sectionAll = sectionUpperRight | sectionUpperLeft | sectionLowerLeft | sectionLowerRight
)

// DrawLine draws a line between two inclusive endpoints.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int) {
	if outsideLimit(x0, y0) || outsideLimit(x1, y1) {
		var ok bool
		x0, y0, x1, y1, ok = fb.clipLine(x0, y0, x1, y1)
		if !ok {
			return
		}
	}

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy

	for {
		fb.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// DrawHLine draws a horizontal line of w pixels starting at (x, y).
func (fb *Framebuffer) DrawHLine(x, y, w int) {
	if w <= 0 {
		return
	}
	fb.span(x, x+w-1, y)
}

// DrawVLine draws a vertical line of h pixels starting at (x, y).
func (fb *Framebuffer) DrawVLine(x, y, h int) {
	if h <= 0 || x < 0 || x >= fb.width {
		return
	}
	y0 := max(y, 0)
	y1 := min(y+h-1, fb.height-1)
	for yy := y0; yy <= y1; yy++ {
		fb.set(x, yy)
	}
}

// DrawBox fills a w×h rectangle with its top-left corner at (x, y).
func (fb *Framebuffer) DrawBox(x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	y0 := max(y, 0)
	y1 := min(y+h-1, fb.height-1)
	for yy := y0; yy <= y1; yy++ {
		fb.span(x, x+w-1, yy)
	}
}

// DrawFrame outlines a w×h rectangle with its top-left corner at (x, y).
func (fb *Framebuffer) DrawFrame(x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	fb.DrawHLine(x, y, w)
	fb.DrawHLine(x, y+h-1, w)
	if h > 2 {
		fb.DrawVLine(x, y+1, h-2)
		fb.DrawVLine(x+w-1, y+1, h-2)
	}
}

// DrawCircle outlines a circle of radius r centered on (cx, cy).
func (fb *Framebuffer) DrawCircle(cx, cy, r int) {
	fb.circle(cx, cy, r, sectionAll)
}

// DrawDisc fills a circle of radius r centered on (cx, cy).
func (fb *Framebuffer) DrawDisc(cx, cy, r int) {
	fb.disc(cx, cy, r, sectionAll)
}

// DrawRFrame outlines a w×h rectangle with corners rounded to radius r.
// The radius is reduced to fit the rectangle.
func (fb *Framebuffer) DrawRFrame(x, y, w, h, r int) {
	if w <= 0 || h <= 0 {
		return
	}
	r = fitRadius(w, h, r)
	if r == 0 {
		fb.DrawFrame(x, y, w, h)
		return
	}

	xl, yu := x+r, y+r
	xr, yl := x+w-1-r, y+h-1-r

	fb.circle(xl, yu, r, sectionUpperLeft)
	fb.circle(xr, yu, r, sectionUpperRight)
	fb.circle(xl, yl, r, sectionLowerLeft)
	fb.circle(xr, yl, r, sectionLowerRight)

	if ww := xr - xl - 1; ww > 0 {
		fb.DrawHLine(xl+1, y, ww)
		fb.DrawHLine(xl+1, y+h-1, ww)
	}
	if hh := yl - yu - 1; hh > 0 {
		fb.DrawVLine(x, yu+1, hh)
		fb.DrawVLine(x+w-1, yu+1, hh)
	}
}

// DrawRBox fills a w×h rectangle with corners rounded to radius r.
// The radius is reduced to fit the rectangle.
func (fb *Framebuffer) DrawRBox(x, y, w, h, r int) {
	if w <= 0 || h <= 0 {
		return
	}
	r = fitRadius(w, h, r)
	if r == 0 {
		fb.DrawBox(x, y, w, h)
		return
	}

	xl, yu := x+r, y+r
	xr, yl := x+w-1-r, y+h-1-r

	fb.disc(xl, yu, r, sectionUpperLeft)
	fb.disc(xr, yu, r, sectionUpperRight)
	fb.disc(xl, yl, r, sectionLowerLeft)
	fb.disc(xr, yl, r, sectionLowerRight)

	fb.DrawBox(xl, y, xr-xl+1, h)
	fb.DrawBox(x, yu, r, yl-yu+1)
	fb.DrawBox(xr+1, yu, r, yl-yu+1)
}

// DrawTriangle fills the triangle spanned by three vertices.
func (fb *Framebuffer) DrawTriangle(x0, y0, x1, y1, x2, y2 int) {
	// Sort vertices by y.
	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}
	if y1 > y2 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}
	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}

	if y0 == y2 {
		fb.span(min(x0, x1, x2), max(x0, x1, x2), y0)
		return
	}

	top := max(y0, 0)
	bottom := min(y2, fb.height-1)
	for y := top; y <= bottom; y++ {
		xa := interpolate(x0, y0, x2, y2, y)
		var xb int
		if y < y1 {
			xb = interpolate(x0, y0, x1, y1, y)
		} else {
			xb = interpolate(x1, y1, x2, y2, y)
		}
		fb.span(xa, xb, y)
	}
}

// circle plots the selected sections of a midpoint circle.
func (fb *Framebuffer) circle(cx, cy, r int, sections uint8) {
	if r < 0 || r > maxRadius {
		return
	}
	if r == 0 {
		fb.set(cx, cy)
		return
	}
	if cx+r < 0 || cx-r >= fb.width || cy+r < 0 || cy-r >= fb.height {
		return
	}

	f := 1 - r
	ddx := 1
	ddy := -2 * r
	x, y := 0, r

	fb.circlePoints(cx, cy, x, y, sections)
	for x < y {
		if f >= 0 {
			y--
			ddy += 2
			f += ddy
		}
		x++
		ddx += 2
		f += ddx
		fb.circlePoints(cx, cy, x, y, sections)
	}
}

func (fb *Framebuffer) circlePoints(cx, cy, x, y int, sections uint8) {
	if sections&sectionUpperRight != 0 {
		fb.set(cx+x, cy-y)
		fb.set(cx+y, cy-x)
	}
	if sections&sectionUpperLeft != 0 {
		fb.set(cx-x, cy-y)
		fb.set(cx-y, cy-x)
	}
	if sections&sectionLowerRight != 0 {
		fb.set(cx+x, cy+y)
		fb.set(cx+y, cy+x)
	}
	if sections&sectionLowerLeft != 0 {
		fb.set(cx-x, cy+y)
		fb.set(cx-y, cy+x)
	}
}

// disc fills the selected sections of a midpoint circle with spans.
func (fb *Framebuffer) disc(cx, cy, r int, sections uint8) {
	if r < 0 || r > maxRadius {
		return
	}
	if r == 0 {
		fb.set(cx, cy)
		return
	}
	if cx+r < 0 || cx-r >= fb.width || cy+r < 0 || cy-r >= fb.height {
		return
	}

	f := 1 - r
	ddx := 1
	ddy := -2 * r
	x, y := 0, r

	fb.discSpans(cx, cy, x, y, sections)
	for x < y {
		if f >= 0 {
			y--
			ddy += 2
			f += ddy
		}
		x++
		ddx += 2
		f += ddx
		fb.discSpans(cx, cy, x, y, sections)
	}
}

func (fb *Framebuffer) discSpans(cx, cy, x, y int, sections uint8) {
	if sections&sectionUpperRight != 0 {
		fb.span(cx, cx+x, cy-y)
		fb.span(cx, cx+y, cy-x)
	}
	if sections&sectionUpperLeft != 0 {
		fb.span(cx-x, cx, cy-y)
		fb.span(cx-y, cx, cy-x)
	}
	if sections&sectionLowerRight != 0 {
		fb.span(cx, cx+x, cy+y)
		fb.span(cx, cx+y, cy+x)
	}
	if sections&sectionLowerLeft != 0 {
		fb.span(cx-x, cx, cy+y)
		fb.span(cx-y, cx, cy+x)
	}
}

// clipLine clips a segment to the display using Cohen-Sutherland.
func (fb *Framebuffer) clipLine(x0, y0, x1, y1 int) (int, int, int, int, bool) {
	const (
		inside = 0
		left   = 1
		right  = 2
		below  = 4
		above  = 8
	)
	xmin, ymin := 0.0, 0.0
	xmax, ymax := float64(fb.width-1), float64(fb.height-1)

	code := func(x, y float64) int {
		c := inside
		switch {
		case x < xmin:
			c |= left
		case x > xmax:
			c |= right
		}
		switch {
		case y < ymin:
			c |= below
		case y > ymax:
			c |= above
		}
		return c
	}

	fx0, fy0, fx1, fy1 := float64(x0), float64(y0), float64(x1), float64(y1)
	c0, c1 := code(fx0, fy0), code(fx1, fy1)
	for {
		switch {
		case c0|c1 == 0:
			return int(math.Round(fx0)), int(math.Round(fy0)), int(math.Round(fx1)), int(math.Round(fy1)), true
		case c0&c1 != 0:
			return 0, 0, 0, 0, false
		}

		out := c0
		if out == 0 {
			out = c1
		}
		var x, y float64
		switch {
		case out&above != 0:
			x = fx0 + (fx1-fx0)*(ymax-fy0)/(fy1-fy0)
			y = ymax
		case out&below != 0:
			x = fx0 + (fx1-fx0)*(ymin-fy0)/(fy1-fy0)
			y = ymin
		case out&right != 0:
			y = fy0 + (fy1-fy0)*(xmax-fx0)/(fx1-fx0)
			x = xmax
		default:
			y = fy0 + (fy1-fy0)*(xmin-fx0)/(fx1-fx0)
			x = xmin
		}

		if out == c0 {
			fx0, fy0 = x, y
			c0 = code(fx0, fy0)
		} else {
			fx1, fy1 = x, y
			c1 = code(fx1, fy1)
		}
	}
}

func outsideLimit(x, y int) bool {
	return abs(x) > lineClipLimit || abs(y) > lineClipLimit
}

// fitRadius reduces r so four corners fit inside a w×h rectangle.
func fitRadius(w, h, r int) int {
	if r <= 0 {
		return 0
	}
	limit := (min(w, h) - 1) / 2
	return min(r, limit)
}

// interpolate returns the x coordinate on the edge (x0,y0)-(x1,y1) at row y.
func interpolate(x0, y0, x1, y1, y int) int {
	if y1 == y0 {
		return x0
	}
	dx := float64(x1) - float64(x0)
	return x0 + int(math.Round(dx*(float64(y)-float64(y0))/(float64(y1)-float64(y0))))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
