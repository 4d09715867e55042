// Package app wires the monolcd components together and drives the tick
// loop.
//
// An Application owns the framebuffer, the font provider, the bitmap
// blitter, the reload loop and the display sink. Run ticks the loop every
// poll interval, or sooner when the file notifier reports a change, and
// presents each resulting frame.
package app
