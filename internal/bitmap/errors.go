package bitmap

import "errors"

var (
	// ErrEmptyPath is returned when a file blit names no file.
	ErrEmptyPath = errors.New("bitmap: empty path")

	// ErrEmptyImage is returned when a decoded image has no pixels.
	ErrEmptyImage = errors.New("bitmap: image has no pixels")

	// ErrImageTooLarge is returned when an image header declares more
	// pixels than a bitmap may hold.
	ErrImageTooLarge = errors.New("bitmap: image too large")
)
