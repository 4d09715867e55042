package script

import (
	"math"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/monolcd/internal/bitmap"
	"github.com/dshills/monolcd/internal/font"
	"github.com/dshills/monolcd/internal/framebuffer"
)

// lcdTypeName is the metatable name of the lcd userdata.
const lcdTypeName = "u8g2.lcd"

// Display is the part of the presentation layer a script may control.
type Display interface {
	SetInverse(on bool)
	Inverse() bool
	SetAspect(ratio float64)
}

// Surface is everything the lcd object draws with.
type Surface struct {
	FB      *framebuffer.Framebuffer
	Bitmaps *bitmap.Blitter
	Fonts   *font.Provider
	// Display may be nil, in which case inversion is tracked locally.
	Display Display
	// BaseDir is tried first when resolving relative bitmap paths.
	BaseDir string
}

// Bridge exposes a Surface to Lua as the lcd userdata.
type Bridge struct {
	L       *lua.LState
	surface Surface
	ud      *lua.LUserData

	inverse bool
	sends   int
}

// NewBridge registers the lcd type in L and creates the lcd value.
func NewBridge(L *lua.LState, surface Surface) *Bridge {
	if surface.Bitmaps == nil {
		surface.Bitmaps = bitmap.NewBlitter(bitmap.DefaultCacheSize)
	}
	if surface.Fonts == nil {
		surface.Fonts = font.NewProvider()
	}
	b := &Bridge{L: L, surface: surface}

	methods := L.SetFuncs(L.NewTable(), b.methods())
	mt := L.NewTypeMetatable(lcdTypeName)
	L.SetField(mt, "__index", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(2)
		switch key {
		case "width":
			L.Push(lua.LNumber(b.surface.FB.Width()))
		case "height":
			L.Push(lua.LNumber(b.surface.FB.Height()))
		default:
			L.Push(methods.RawGetString(key))
		}
		return 1
	}))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString("lcd"))
		return 1
	}))

	b.ud = L.NewUserData()
	b.ud.Value = b
	L.SetMetatable(b.ud, mt)
	return b
}

// Value returns the lcd userdata passed to entry points.
func (b *Bridge) Value() *lua.LUserData { return b.ud }

// Sends returns how many times the script called sendBuffer.
func (b *Bridge) Sends() int { return b.sends }

func (b *Bridge) methods() map[string]lua.LGFunction {
	fb := b.surface.FB
	return map[string]lua.LGFunction{
		"clearBuffer": func(L *lua.LState) int {
			fb.Clear()
			return 0
		},
		"sendBuffer": func(L *lua.LState) int {
			b.sends++
			return 0
		},
		"setDrawColor": func(L *lua.LState) int {
			fb.SetDrawColor(framebuffer.ColorFrom(ToGoValue(L.Get(2))))
			return 0
		},
		"drawPixel": func(L *lua.LState) int {
			fb.DrawPixel(checkInt(L, 2), checkInt(L, 3))
			return 0
		},
		"drawLine": func(L *lua.LState) int {
			fb.DrawLine(checkInt(L, 2), checkInt(L, 3), checkInt(L, 4), checkInt(L, 5))
			return 0
		},
		"drawHLine": func(L *lua.LState) int {
			fb.DrawHLine(checkInt(L, 2), checkInt(L, 3), checkInt(L, 4))
			return 0
		},
		"drawVLine": func(L *lua.LState) int {
			fb.DrawVLine(checkInt(L, 2), checkInt(L, 3), checkInt(L, 4))
			return 0
		},
		"drawBox": func(L *lua.LState) int {
			fb.DrawBox(checkInt(L, 2), checkInt(L, 3), checkInt(L, 4), checkInt(L, 5))
			return 0
		},
		"drawFrame": func(L *lua.LState) int {
			fb.DrawFrame(checkInt(L, 2), checkInt(L, 3), checkInt(L, 4), checkInt(L, 5))
			return 0
		},
		"drawCircle": func(L *lua.LState) int {
			fb.DrawCircle(checkInt(L, 2), checkInt(L, 3), checkInt(L, 4))
			return 0
		},
		"drawDisc": func(L *lua.LState) int {
			fb.DrawDisc(checkInt(L, 2), checkInt(L, 3), checkInt(L, 4))
			return 0
		},
		"drawRBox": func(L *lua.LState) int {
			fb.DrawRBox(checkInt(L, 2), checkInt(L, 3), checkInt(L, 4), checkInt(L, 5), checkInt(L, 6))
			return 0
		},
		"drawRFrame": func(L *lua.LState) int {
			fb.DrawRFrame(checkInt(L, 2), checkInt(L, 3), checkInt(L, 4), checkInt(L, 5), checkInt(L, 6))
			return 0
		},
		"drawTriangle": func(L *lua.LState) int {
			fb.DrawTriangle(checkInt(L, 2), checkInt(L, 3), checkInt(L, 4), checkInt(L, 5), checkInt(L, 6), checkInt(L, 7))
			return 0
		},
		"setFont": func(L *lua.LState) int {
			fb.SetFont(b.surface.Fonts.Load(L.OptString(2, "")))
			return 0
		},
		"getFontAscent": func(L *lua.LState) int {
			ascent, _ := fb.FontAscentDescent()
			L.Push(lua.LNumber(ascent))
			return 1
		},
		"getFontDescent": func(L *lua.LState) int {
			_, descent := fb.FontAscentDescent()
			L.Push(lua.LNumber(descent))
			return 1
		},
		"getFontAscentDescent": func(L *lua.LState) int {
			ascent, descent := fb.FontAscentDescent()
			L.Push(lua.LNumber(ascent))
			L.Push(lua.LNumber(descent))
			return 2
		},
		"getStrWidth": func(L *lua.LState) int {
			L.Push(lua.LNumber(fb.StrWidth(L.CheckString(2))))
			return 1
		},
		"drawStr":     b.drawStr,
		"drawUTF8":    b.drawUTF8,
		"drawBitmap1": b.drawBitmap,
		"drawBitmap":  b.drawBitmap,
		"drawXBM": func(L *lua.LState) int {
			x, y, w, h := checkInt(L, 2), checkInt(L, 3), checkInt(L, 4), checkInt(L, 5)
			bitmap.BlitPacked(fb, x, y, w, h, checkBytes(L, 6))
			return 0
		},
		"drawXBMfile": b.drawFile,
		"drawPBMfile": b.drawFile,
		"clearBitmapCache": func(L *lua.LState) int {
			b.surface.Bitmaps.ClearCache()
			return 0
		},
		"setInverse": func(L *lua.LState) int {
			b.setInverse(truthy(L.Get(2)))
			return 0
		},
		"getInverse": func(L *lua.LState) int {
			L.Push(lua.LBool(b.getInverse()))
			return 1
		},
		"setPixelAspect": func(L *lua.LState) int {
			ratio := float64(L.CheckNumber(2))
			if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
				L.ArgError(2, "aspect ratio must be positive")
				return 0
			}
			if b.surface.Display != nil {
				b.surface.Display.SetAspect(ratio)
			}
			return 0
		},
		"getDisplayWidth": func(L *lua.LState) int {
			L.Push(lua.LNumber(fb.Width()))
			return 1
		},
		"getDisplayHeight": func(L *lua.LState) int {
			L.Push(lua.LNumber(fb.Height()))
			return 1
		},
	}
}

// drawStr implements drawStr(x, y, s) and returns the string width.
func (b *Bridge) drawStr(L *lua.LState) int {
	x, y := checkInt(L, 2), checkInt(L, 3)
	s := L.ToStringMeta(L.CheckAny(4)).String()
	L.Push(lua.LNumber(b.surface.FB.DrawStr(x, y, s)))
	return 1
}

// drawUTF8 implements drawUTF8(x, y, s).
func (b *Bridge) drawUTF8(L *lua.LState) int {
	x, y := checkInt(L, 2), checkInt(L, 3)
	L.Push(lua.LNumber(b.surface.FB.DrawUTF8(x, y, L.CheckString(4))))
	return 1
}

// drawBitmap implements drawBitmap1(x, y, w, h, data [, stride [, invert]]).
func (b *Bridge) drawBitmap(L *lua.LState) int {
	x, y, w, h := checkInt(L, 2), checkInt(L, 3), checkInt(L, 4), checkInt(L, 5)
	data := checkBytes(L, 6)

	opts := []bitmap.PackedOption{bitmap.WithInvert(truthy(L.Get(8)))}
	if stride := L.Get(7); stride != lua.LNil {
		opts = append(opts, bitmap.WithStride(checkInt(L, 7)))
	}
	bitmap.BlitPacked(b.surface.FB, x, y, w, h, data, opts...)
	return 0
}

// drawFile implements drawXBMfile and drawPBMfile (path, x, y [, invert]).
func (b *Bridge) drawFile(L *lua.LState) int {
	path := b.resolvePath(L.CheckString(2))
	x, y := checkInt(L, 3), checkInt(L, 4)
	b.surface.Bitmaps.BlitFile(b.surface.FB, path, x, y, truthy(L.Get(5)))
	return 0
}

// resolvePath prefers the script directory for relative paths that exist
// there, and otherwise leaves the path to the working directory.
func (b *Bridge) resolvePath(path string) string {
	if b.surface.BaseDir == "" || path == "" || filepath.IsAbs(path) {
		return path
	}
	candidate := filepath.Join(b.surface.BaseDir, path)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return path
}

func (b *Bridge) setInverse(on bool) {
	if b.surface.Display != nil {
		b.surface.Display.SetInverse(on)
		return
	}
	b.inverse = on
}

func (b *Bridge) getInverse() bool {
	if b.surface.Display != nil {
		return b.surface.Display.Inverse()
	}
	return b.inverse
}

// checkInt reads argument n as an integer, truncating toward zero.
func checkInt(L *lua.LState, n int) int {
	v := float64(L.CheckNumber(n))
	if math.IsNaN(v) {
		L.ArgError(n, "number expected, got nan")
		return 0
	}
	return int(math.Max(math.MinInt32, math.Min(math.MaxInt32, math.Trunc(v))))
}

// checkBytes reads argument n as packed bitmap data: either a string of
// raw bytes or an array of numbers, each masked to 8 bits.
func checkBytes(L *lua.LState, n int) []byte {
	switch v := L.Get(n).(type) {
	case lua.LString:
		return []byte(string(v))
	case *lua.LTable:
		out := make([]byte, v.Len())
		for i := range out {
			if num, ok := v.RawGetInt(i + 1).(lua.LNumber); ok {
				out[i] = byte(int64(num) & 0xff)
			}
		}
		return out
	default:
		L.TypeError(n, lua.LTTable)
		return nil
	}
}

// truthy applies the host's flag convention: nil, false, zero and the
// empty string are false.
func truthy(lv lua.LValue) bool {
	switch v := lv.(type) {
	case *lua.LNilType:
		return false
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		return v != 0
	case lua.LString:
		return v != ""
	default:
		return true
	}
}
