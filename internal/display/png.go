package display

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
)

// PNG is a sink that writes each presented frame to a file.
//
// Frames are written to a temporary file in the same directory and renamed
// into place, so readers never observe a partial image.
type PNG struct {
	mu      sync.Mutex
	path    string
	palette Palette
	writes  int
	closed  bool
}

// NewPNG creates a PNG sink writing to path.
func NewPNG(path string, palette Palette) *PNG {
	return &PNG{path: path, palette: palette}
}

// Path returns the output file.
func (p *PNG) Path() string { return p.path }

// Writes returns the number of frames written.
func (p *PNG) Writes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writes
}

// Present renders and writes frame.
func (p *PNG) Present(frame *image.Gray, opts PresentOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	img := Render(frame, p.palette, opts)
	if err := writeFileAtomic(p.path, img); err != nil {
		return fmt.Errorf("display: write %s: %w", p.path, err)
	}
	p.writes++
	return nil
}

// Close marks the sink closed. The last written file is left in place.
func (p *PNG) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func writeFileAtomic(path string, img image.Image) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	defer func() { _ = os.Remove(name) }()

	if err := png.Encode(tmp, img); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(name, path)
}
