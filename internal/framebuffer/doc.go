// Package framebuffer provides a monochrome in-memory display surface with
// u8g2-style drawing primitives.
//
// The framebuffer stores one intensity byte per pixel (0 for off, 255 for
// on) and tracks a binary draw color that every primitive writes with.
// All writes are clipped to the display bounds: drawing outside the
// surface is silently discarded and never reported as an error.
//
// # Coordinates
//
// The origin is the top-left pixel. Boxes and frames take a top-left corner
// plus width and height; a width or height of zero or less draws nothing.
// Circles and discs are centered on (cx, cy) and span 2r+1 pixels.
//
// # Text
//
// DrawStr places text on a baseline: y names the baseline row and the
// active font's ascent is subtracted to find the glyph box top. Glyphs are
// rasterized through golang.org/x/image/font without anti-aliasing, so any
// glyph coverage of at least one half turns the pixel on.
//
//	fb, _ := framebuffer.New(128, 64)
//	fb.Clear()
//	fb.SetDrawColor(framebuffer.On)
//	fb.DrawFrame(0, 0, 128, 64)
//	fb.DrawStr(2, 12, "hello")
package framebuffer
