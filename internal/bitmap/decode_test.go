package bitmap

import (
	"bytes"
	"errors"
	"image"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func decodeMono(t *testing.T, src []byte) (*Mono, string) {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		t.Fatalf("image.Decode error = %v", err)
	}
	return Threshold(img), format
}

func TestDecode_PBMASCII(t *testing.T) {
	src := "P1\n# comment\n3 2\n0 1 0\n1 0 1\n"
	m, format := decodeMono(t, []byte(src))
	if format != "pbm" {
		t.Errorf("format = %q", format)
	}
	// Black (1) pixels are off, white (0) pixels are on.
	want := []image.Point{{0, 0}, {2, 0}, {1, 1}}
	if got := m.Lit(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lit() = %v, want %v", got, want)
	}
}

func TestDecode_PBMBinary(t *testing.T) {
	src := append([]byte("P4\n10 2\n"), 0b10000000, 0b01000000, 0xff, 0b11000000)
	m, _ := decodeMono(t, src)
	if m.Width() != 10 || m.Height() != 2 {
		t.Fatalf("size = %dx%d", m.Width(), m.Height())
	}
	if m.Bit(0, 0) || !m.Bit(1, 0) || m.Bit(9, 0) || !m.Bit(8, 0) {
		t.Errorf("row 0 decoded wrongly: %v", m.Lit())
	}
	for x := 0; x < 10; x++ {
		if m.Bit(x, 1) {
			t.Errorf("row 1 pixel %d should be off", x)
		}
	}
}

func TestDecode_PGM(t *testing.T) {
	ascii := "P2 4 1 15 0 7 8 15\n"
	m, _ := decodeMono(t, []byte(ascii))
	// 8/15 and 15/15 scale to at least 128.
	if want := []image.Point{{2, 0}, {3, 0}}; !reflect.DeepEqual(m.Lit(), want) {
		t.Errorf("ascii Lit() = %v, want %v", m.Lit(), want)
	}

	binary := append([]byte("P5\n3 1\n255\n"), 10, 200, 128)
	m, _ = decodeMono(t, binary)
	if want := []image.Point{{1, 0}, {2, 0}}; !reflect.DeepEqual(m.Lit(), want) {
		t.Errorf("binary Lit() = %v, want %v", m.Lit(), want)
	}
}

func TestDecode_PPM(t *testing.T) {
	src := append([]byte("P6 2 1 255\n"), 255, 255, 255, 10, 10, 10)
	m, _ := decodeMono(t, src)
	if want := []image.Point{{0, 0}}; !reflect.DeepEqual(m.Lit(), want) {
		t.Errorf("Lit() = %v, want %v", m.Lit(), want)
	}
}

func TestDecode_PNMErrors(t *testing.T) {
	tests := map[string]string{
		"truncated":  "P4 8 2\n\xff",
		"bad maxval": "P2 1 1 0 0\n",
		"bad digit":  "P1 1 1 7\n",
		"bad magic":  "P9 1 1\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			if _, _, err := image.Decode(strings.NewReader(src)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestDecodeFile_Size(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"zero width", "P1 0 2\n", ErrEmptyImage},
		{"zero height", "P5 4 0 255\n", ErrEmptyImage},
		{"huge header", "P1 999999 999999\n", ErrImageTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "img")
			if err := os.WriteFile(path, []byte(tt.src), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := DecodeFile(path); !errors.Is(err, tt.want) {
				t.Errorf("DecodeFile() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeFile_PBM(t *testing.T) {
	img, err := DecodeFile(filepath.Join("..", "..", "examples", "check.pbm"))
	if err != nil {
		t.Fatal(err)
	}
	m := Threshold(img)
	if m.Width() != 8 || m.Height() != 8 {
		t.Fatalf("size = %dx%d", m.Width(), m.Height())
	}
	// The check mark is black, so its pixels are off.
	if m.Bit(7, 1) || m.Bit(0, 3) || !m.Bit(0, 0) {
		t.Errorf("Lit() = %v", m.Lit())
	}
}

func TestDecode_XBM(t *testing.T) {
	src := `#define wifi_width 10
#define wifi_height 2
static unsigned char wifi_bits[] = {
   0x01, 0x02, 0xff, 0x03 };
`
	m, format := decodeMono(t, []byte(src))
	if format != "xbm" {
		t.Errorf("format = %q", format)
	}
	// Least significant bit first: 0x01 is column 0, 0x02 on the next byte is column 9.
	want := []image.Point{{0, 0}, {9, 0}}
	for x := 0; x < 10; x++ {
		want = append(want, image.Pt(x, 1))
	}
	if got := m.Lit(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lit() = %v, want %v", got, want)
	}
}

func TestDecode_XBMShorts(t *testing.T) {
	src := `#define x_width 3
#define x_height 1
static short x_bits[] = { 0x0005 };
`
	m, _ := decodeMono(t, []byte(src))
	if want := []image.Point{{0, 0}, {2, 0}}; !reflect.DeepEqual(m.Lit(), want) {
		t.Errorf("Lit() = %v, want %v", m.Lit(), want)
	}
}

func TestDecode_XBMConfig(t *testing.T) {
	src := "#define i_width 16\n#define i_height 4\nstatic char i_bits[] = {0};\n"
	cfg, format, err := image.DecodeConfig(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if format != "xbm" || cfg.Width != 16 || cfg.Height != 4 {
		t.Errorf("DecodeConfig = %+v, %q", cfg, format)
	}
}
