package display

import (
	"sync"
	"time"
)

// FPSCounter measures the frame rate over a sliding one second window.
type FPSCounter struct {
	mu     sync.Mutex
	now    func() time.Time
	window time.Duration
	frames []time.Time
}

// NewFPSCounter creates a counter using the wall clock.
func NewFPSCounter() *FPSCounter {
	return &FPSCounter{now: time.Now, window: time.Second}
}

// WithClock replaces the counter's clock. It is intended for tests.
func (c *FPSCounter) WithClock(now func() time.Time) *FPSCounter {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// Frame records a presented frame and returns the current rate.
func (c *FPSCounter) Frame() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now()
	c.frames = append(c.frames, t)
	return c.prune(t)
}

// Rate returns the number of frames within the last window.
func (c *FPSCounter) Rate() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prune(c.now())
}

func (c *FPSCounter) prune(t time.Time) int {
	cut := 0
	for cut < len(c.frames) && t.Sub(c.frames[cut]) > c.window {
		cut++
	}
	if cut > 0 {
		c.frames = append(c.frames[:0], c.frames[cut:]...)
	}
	return len(c.frames)
}
