package display

import (
	"errors"
	"image"
)

// ErrClosed is returned by Present after the sink has been closed.
var ErrClosed = errors.New("display: sink closed")

// PresentOptions controls how a frame is shown.
type PresentOptions struct {
	// ScaleX and ScaleY are the output size of one display pixel.
	ScaleX float64
	ScaleY float64
	// Invert swaps lit and unlit pixels.
	Invert bool
	// FPS is the measured frame rate; zero hides the counter.
	FPS int
	// Status is a short line shown next to the frame, if the sink has room.
	Status string
}

// Scale returns integer scale factors for pixel-grid sinks. Factors are
// rounded and never less than one.
func (o PresentOptions) Scale() (sx, sy int) {
	return roundScale(o.ScaleX), roundScale(o.ScaleY)
}

func roundScale(v float64) int {
	n := int(v + 0.5)
	if n < 1 {
		return 1
	}
	return n
}

// Sink receives frames.
type Sink interface {
	// Present shows frame. Pixels with a non-zero value are lit.
	Present(frame *image.Gray, opts PresentOptions) error
	// Close releases the sink's resources.
	Close() error
}

// Controls receives interactive commands from a sink.
type Controls interface {
	ToggleInvert()
	ClearCache()
	Quit()
}

// Multi presents to every sink in order.
type Multi []Sink

// Present forwards the frame to each sink and joins their errors.
func (m Multi) Present(frame *image.Gray, opts PresentOptions) error {
	var errs []error
	for _, s := range m {
		if err := s.Present(frame, opts); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes each sink and joins their errors.
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// lit reports whether the frame pixel at (x, y) is on after inversion.
func lit(frame *image.Gray, x, y int, invert bool) bool {
	on := frame.GrayAt(x, y).Y != 0
	return on != invert
}
