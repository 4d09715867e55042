package framebuffer

import "errors"

// ErrInvalidSize is returned when a framebuffer is created with a
// non-positive width or height.
var ErrInvalidSize = errors.New("framebuffer: width and height must be positive")
