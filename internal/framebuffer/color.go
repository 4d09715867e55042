package framebuffer

import "fmt"

// Color is the binary draw color.
type Color uint8

const (
	// Off clears pixels.
	Off Color = iota
	// On lights pixels.
	On
)

// Pixel intensities stored for each color.
const (
	offLevel uint8 = 0
	onLevel  uint8 = 255
)

// String returns the color name.
func (c Color) String() string {
	switch c {
	case Off:
		return "off"
	case On:
		return "on"
	default:
		return fmt.Sprintf("Color(%d)", uint8(c))
	}
}

// level returns the stored intensity for the color.
func (c Color) level() uint8 {
	if c == Off {
		return offLevel
	}
	return onLevel
}

// ColorFrom normalizes an arbitrary value to a draw color.
//
// Numbers are On when non-zero, strings when non-empty, and nil is Off.
// Values of any other type are On.
func ColorFrom(v any) Color {
	switch c := v.(type) {
	case nil:
		return Off
	case Color:
		if c == Off {
			return Off
		}
		return On
	case bool:
		if c {
			return On
		}
		return Off
	case int:
		return onIf(c != 0)
	case int8:
		return onIf(c != 0)
	case int16:
		return onIf(c != 0)
	case int32:
		return onIf(c != 0)
	case int64:
		return onIf(c != 0)
	case uint:
		return onIf(c != 0)
	case uint8:
		return onIf(c != 0)
	case uint16:
		return onIf(c != 0)
	case uint32:
		return onIf(c != 0)
	case uint64:
		return onIf(c != 0)
	case float32:
		return onIf(c != 0)
	case float64:
		return onIf(c != 0)
	case string:
		return onIf(c != "")
	default:
		return On
	}
}

func onIf(b bool) Color {
	if b {
		return On
	}
	return Off
}
