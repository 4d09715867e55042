package font

import (
	"bytes"
	"fmt"

	"github.com/zachomedia/go-bdf"
)

var bdfMagic = []byte("STARTFONT")

// ParseBDF parses a BDF bitmap font. Glyphs without an encoding are
// dropped. When the font carries no FONT_ASCENT or FONT_DESCENT property
// the metrics are taken from the glyph boxes.
func ParseBDF(data []byte) (f *bdf.Font, err error) {
	if !bytes.HasPrefix(bytes.TrimSpace(data), bdfMagic) {
		return nil, fmt.Errorf("%w: missing STARTFONT", ErrBDFFormat)
	}

	// The parser indexes glyph rows without bounds checks.
	defer func() {
		if r := recover(); r != nil {
			f, err = nil, fmt.Errorf("%w: %v", ErrBDFFormat, r)
		}
	}()

	f, err = bdf.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBDFFormat, err)
	}

	for r := range f.CharMap {
		if r < 0 {
			delete(f.CharMap, r)
		}
	}
	if len(f.CharMap) == 0 {
		return nil, ErrNoGlyphs
	}
	if f.Ascent == 0 && f.Descent == 0 {
		f.Ascent, f.Descent = glyphExtent(f)
	}
	return f, nil
}

// glyphExtent returns the largest distance any glyph reaches above and
// below the baseline.
func glyphExtent(f *bdf.Font) (ascent, descent int) {
	for _, c := range f.CharMap {
		if c.Alpha == nil {
			continue
		}
		ascent = max(ascent, c.Alpha.Rect.Dy()+c.LowerPoint[1])
		descent = max(descent, -c.LowerPoint[1])
	}
	return ascent, descent
}
