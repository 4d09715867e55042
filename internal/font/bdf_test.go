package font

import (
	"errors"
	"image"
	"reflect"
	"strings"
	"testing"

	"github.com/zachomedia/go-bdf"
	xfont "golang.org/x/image/font"

	"github.com/dshills/monolcd/internal/framebuffer"
)

const tinyBDF = `STARTFONT 2.1
FONT -Misc-Tiny-Medium-R-Normal--6-60-75-75-C-40-ISO10646-1
SIZE 6 75 75
FONTBOUNDINGBOX 4 6 0 -1
STARTPROPERTIES 2
FONT_ASCENT 5
FONT_DESCENT 1
ENDPROPERTIES
CHARS 3
STARTCHAR T
ENCODING 84
DWIDTH 4 0
BBX 3 5 0 0
BITMAP
E0
40
40
40
40
ENDCHAR
STARTCHAR period
ENCODING 46
DWIDTH 2 0
BBX 1 1 0 0
BITMAP
80
ENDCHAR
STARTCHAR unencoded
ENCODING -1
DWIDTH 9 0
BBX 1 1 0 0
BITMAP
80
ENDCHAR
ENDFONT
`

func parseTiny(t *testing.T) *bdf.Font {
	t.Helper()
	f, err := ParseBDF([]byte(tinyBDF))
	if err != nil {
		t.Fatalf("ParseBDF() error = %v", err)
	}
	return f
}

func TestParseBDF(t *testing.T) {
	f := parseTiny(t)
	if len(f.CharMap) != 2 {
		t.Errorf("glyphs = %d, want 2 (unencoded glyph dropped)", len(f.CharMap))
	}
	if !strings.Contains(f.Name, "Tiny") {
		t.Errorf("Name = %q", f.Name)
	}

	face := f.NewFace()
	ascent, descent := framebuffer.Metrics(face)
	if ascent != 5 || descent != 1 {
		t.Errorf("Metrics = (%d, %d), want (5, 1)", ascent, descent)
	}

	adv, ok := face.GlyphAdvance('T')
	if !ok || adv.Round() != 4 {
		t.Errorf("GlyphAdvance('T') = %v, %v", adv, ok)
	}
	if _, ok := face.GlyphAdvance('Z'); ok {
		t.Error("GlyphAdvance('Z') found a glyph without DEFAULT_CHAR")
	}
}

func TestBDF_DrawStr(t *testing.T) {
	fb, err := framebuffer.New(16, 8)
	if err != nil {
		t.Fatal(err)
	}
	fb.SetFont(parseTiny(t).NewFace())

	if w := fb.DrawStr(0, 5, "T"); w != 4 {
		t.Errorf("DrawStr width = %d, want 4", w)
	}
	want := []image.Point{{0, 0}, {1, 0}, {2, 0}, {1, 1}, {1, 2}, {1, 3}, {1, 4}}
	if got := fb.Lit(); !reflect.DeepEqual(got, want) {
		t.Errorf("lit = %v, want %v", got, want)
	}

	if w := fb.StrWidth("T."); w != 6 {
		t.Errorf("StrWidth(\"T.\") = %d, want 6", w)
	}
	if w := fb.StrWidth("TZ"); w != 4 {
		t.Errorf("StrWidth(\"TZ\") = %d, want 4", w)
	}
}

func TestBDF_DefaultChar(t *testing.T) {
	src := strings.Replace(tinyBDF, "ENDPROPERTIES", "DEFAULT_CHAR 46\nENDPROPERTIES", 1)
	f, err := ParseBDF([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	adv, ok := f.NewFace().GlyphAdvance('Z')
	if !ok || adv.Round() != 2 {
		t.Errorf("GlyphAdvance('Z') = %v, %v; want the period's advance", adv, ok)
	}
}

func TestBDF_MetricsFromGlyphBoxes(t *testing.T) {
	src := strings.Replace(tinyBDF, "FONT_ASCENT 5\nFONT_DESCENT 1\n", "", 1)
	// The period hangs one pixel below the baseline.
	src = strings.Replace(src, "BBX 1 1 0 0", "BBX 1 1 0 -1", 1)
	f, err := ParseBDF([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	m := f.NewFace().Metrics()
	if m.Ascent.Round() != 5 || m.Descent.Round() != 1 {
		t.Errorf("Metrics = ascent %v descent %v, want 5 and 1", m.Ascent, m.Descent)
	}
}

func TestParseBDF_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"empty", "", ErrBDFFormat},
		{"not bdf", "hello\n", ErrBDFFormat},
		{"no glyphs", "STARTFONT 2.1\nFONTBOUNDINGBOX 4 6 0 -1\nENDFONT\n", ErrNoGlyphs},
		{"no char count", "STARTFONT 2.1\nSTARTCHAR A\nENCODING 65\n", ErrNoGlyphs},
		{"only unencoded", strings.NewReplacer("ENCODING 84", "ENCODING -1", "ENCODING 46", "ENCODING -1").Replace(tinyBDF), ErrNoGlyphs},
		{"bad bbx", strings.Replace(tinyBDF, "BBX 3 5 0 0", "BBX 3 x 0 0", 1), ErrBDFFormat},
		{"bad hex", strings.Replace(tinyBDF, "E0", "ZZ", 1), ErrBDFFormat},
		{"char count too small", strings.Replace(tinyBDF, "CHARS 3", "CHARS 1", 1), ErrBDFFormat},
		{"extra bitmap rows", strings.Replace(tinyBDF, "E0\n", "E0\n40\n", 1), ErrBDFFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBDF([]byte(tt.src))
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseBDF() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBDF_IsFace(t *testing.T) {
	var face xfont.Face = parseTiny(t).NewFace()
	if k := face.Kern('T', '.'); k != 0 {
		t.Errorf("Kern = %v", k)
	}
	if err := face.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
