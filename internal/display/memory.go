package display

import (
	"image"
	"sync"
)

// Memory is a sink that keeps the most recent frame.
type Memory struct {
	mu     sync.Mutex
	last   *image.Gray
	opts   PresentOptions
	count  int
	closed bool
}

// NewMemory creates an empty memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Present stores a copy of frame.
func (m *Memory) Present(frame *image.Gray, opts PresentOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	cp := image.NewGray(frame.Rect)
	copy(cp.Pix, frame.Pix)
	m.last = cp
	m.opts = opts
	m.count++
	return nil
}

// Last returns the most recent frame and its options, or nil before the
// first Present.
func (m *Memory) Last() (*image.Gray, PresentOptions) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, m.opts
}

// Count returns the number of presented frames.
func (m *Memory) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// Close marks the sink closed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
