package app

import (
	"sync/atomic"
	"time"

	"github.com/dshills/monolcd/internal/reload"
)

// stateCount is the number of reload states tracked per tick.
const stateCount = 4

// Metrics tracks tick timing and loop outcomes.
type Metrics struct {
	// Frame timing
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMinNs   atomic.Int64
	frameMaxNs   atomic.Int64
	lastFrameNs  atomic.Int64
	overruns     atomic.Uint64

	// Loop outcomes
	reloads       atomic.Uint64
	presentErrors atomic.Uint64
	byState       [stateCount]atomic.Uint64

	// Start time for uptime calculation
	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),
	}
	// Initialize min to max int64 so first frame will be smaller
	m.frameMinNs.Store(1<<63 - 1)
	return m
}

// RecordFrame records how long a tick took from loop step to present.
func (m *Metrics) RecordFrame(duration time.Duration) {
	ns := duration.Nanoseconds()

	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)
	m.lastFrameNs.Store(ns)

	// Update min (atomic compare-and-swap loop)
	for {
		old := m.frameMinNs.Load()
		if ns >= old {
			break
		}
		if m.frameMinNs.CompareAndSwap(old, ns) {
			break
		}
	}

	// Update max (atomic compare-and-swap loop)
	for {
		old := m.frameMaxNs.Load()
		if ns <= old {
			break
		}
		if m.frameMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordOverrun records a tick that took longer than the poll interval.
func (m *Metrics) RecordOverrun() {
	m.overruns.Add(1)
}

// RecordTick counts a loop outcome.
func (m *Metrics) RecordTick(frame reload.Frame) {
	if s := int(frame.State); s >= 0 && s < stateCount {
		m.byState[s].Add(1)
	}
	if frame.Reloaded {
		m.reloads.Add(1)
	}
}

// RecordPresentError counts a frame the sink failed to show.
func (m *Metrics) RecordPresentError() {
	m.presentErrors.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	frameCount := m.frameCount.Load()

	var avgFrameNs int64
	if frameCount > 0 {
		avgFrameNs = m.frameTotalNs.Load() / int64(frameCount)
	}

	minFrameNs := m.frameMinNs.Load()
	if minFrameNs == 1<<63-1 {
		minFrameNs = 0
	}

	s := MetricsSnapshot{
		Uptime:         time.Since(m.startTime),
		FrameCount:     frameCount,
		AvgFrameTimeNs: avgFrameNs,
		MinFrameTimeNs: minFrameNs,
		MaxFrameTimeNs: m.frameMaxNs.Load(),
		LastFrameNs:    m.lastFrameNs.Load(),
		Overruns:       m.overruns.Load(),
		Reloads:        m.reloads.Load(),
		PresentErrors:  m.presentErrors.Load(),
		TicksByState:   make(map[reload.State]uint64, stateCount),
	}
	for i := range m.byState {
		s.TicksByState[reload.State(i)] = m.byState[i].Load()
	}
	return s
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime         time.Duration
	FrameCount     uint64
	AvgFrameTimeNs int64
	MinFrameTimeNs int64
	MaxFrameTimeNs int64
	LastFrameNs    int64
	Overruns       uint64
	Reloads        uint64
	PresentErrors  uint64
	TicksByState   map[reload.State]uint64
}

// AvgFrameMs returns the mean tick duration in milliseconds.
func (s MetricsSnapshot) AvgFrameMs() float64 {
	return float64(s.AvgFrameTimeNs) / 1e6
}

// OverrunRate returns the percentage of ticks slower than the poll interval.
func (s MetricsSnapshot) OverrunRate() float64 {
	if s.FrameCount == 0 {
		return 0
	}
	return float64(s.Overruns) / float64(s.FrameCount) * 100
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
