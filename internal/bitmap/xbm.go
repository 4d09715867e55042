package bitmap

import (
	"errors"
	"image"
	"image/color"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// X BitMap decoding. XBM files are C source: width and height defines
// followed by an array of bytes (X11) or shorts (X10) holding rows padded
// to whole units, least significant bit first. Set bits are on.

// maxXBMSource bounds the amount of source text read from an XBM file.
const maxXBMSource = 16 << 20

var errXBMFormat = errors.New("xbm: invalid format")

func init() {
	image.RegisterFormat("xbm", "#define", decodeXBM, decodeXBMConfig)
}

type xbmSource struct {
	width  int
	height int
	shorts bool
	body   string
}

func parseXBM(r io.Reader) (xbmSource, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxXBMSource))
	if err != nil {
		return xbmSource{}, err
	}
	text := string(data)

	src := xbmSource{width: -1, height: -1}
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != "#define" {
			continue
		}
		n, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		switch {
		case strings.HasSuffix(fields[1], "_width"):
			src.width = n
		case strings.HasSuffix(fields[1], "_height"):
			src.height = n
		}
	}
	if src.width <= 0 || src.height <= 0 || src.width > maxPixels/src.height {
		return src, errXBMFormat
	}

	open := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if open < 0 || end < open {
		return src, errXBMFormat
	}
	src.shorts = strings.Contains(text[:open], "short")
	src.body = text[open+1 : end]
	return src, nil
}

func decodeXBMConfig(r io.Reader) (image.Config, error) {
	src, err := parseXBM(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.GrayModel, Width: src.width, Height: src.height}, nil
}

func decodeXBM(r io.Reader) (image.Image, error) {
	src, err := parseXBM(r)
	if err != nil {
		return nil, err
	}

	tokens := strings.FieldsFunc(src.body, func(c rune) bool {
		return c == ',' || unicode.IsSpace(c)
	})

	unit := 8
	if src.shorts {
		unit = 16
	}
	var raw []byte
	for _, tok := range tokens {
		v, err := strconv.ParseUint(tok, 0, unit)
		if err != nil {
			return nil, errXBMFormat
		}
		raw = append(raw, byte(v))
		if src.shorts {
			raw = append(raw, byte(v>>8))
		}
	}

	stride := (src.width + unit - 1) / unit * (unit / 8)
	m := NewMono(src.width, src.height)
	for y := 0; y < src.height; y++ {
		for x := 0; x < src.width; x++ {
			idx := y*stride + x/8
			if idx < len(raw) && raw[idx]>>(uint(x)%8)&1 == 1 {
				m.Set(x, y, true)
			}
		}
	}
	return m, nil
}
