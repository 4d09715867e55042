package font

import "errors"

var (
	// ErrNotFound is returned when no candidate file exists for a font name.
	ErrNotFound = errors.New("font not found")

	// ErrBDFFormat is returned for malformed BDF input.
	ErrBDFFormat = errors.New("bdf: invalid format")

	// ErrNoGlyphs is returned for a BDF font that defines no encoded glyphs.
	ErrNoGlyphs = errors.New("bdf: no glyphs")
)
