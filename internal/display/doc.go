// Package display presents framebuffer snapshots to the outside world.
//
// A Sink receives one grayscale frame per tick together with the
// presentation options (pixel scale, inversion and frame rate). Three
// sinks are provided:
//
//   - Terminal draws the frame into a tcell screen using half-block
//     cells and forwards key presses to a Controls implementation.
//   - PNG writes every presented frame to an image file.
//   - Memory keeps the last frame for tests and headless runs.
//
// Multi fans a frame out to several sinks.
package display
