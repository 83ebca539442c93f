package scroll

import (
	"sync"
	"time"
)

// FrameInterval is one display frame at 60Hz.
const FrameInterval = 16 * time.Millisecond

// Scheduler runs a callback on the next frame.
type Scheduler interface {
	Schedule(fn func())
	Cancel()
}

// FrameScheduler runs each scheduled callback one frame interval later on a
// timer goroutine. Unlike a debouncer, a later Schedule does not push back an
// earlier one; the Controller's pending flag already prevents stacking.
type FrameScheduler struct {
	mu       sync.Mutex
	timers   []*time.Timer
	interval time.Duration
}

// NewFrameScheduler creates a scheduler firing after interval.
func NewFrameScheduler(interval time.Duration) *FrameScheduler {
	if interval <= 0 {
		interval = FrameInterval
	}
	return &FrameScheduler{interval: interval}
}

// Schedule runs fn after one frame.
func (f *FrameScheduler) Schedule(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var t *time.Timer
	t = time.AfterFunc(f.interval, func() {
		f.mu.Lock()
		f.forgetLocked(t)
		f.mu.Unlock()
		fn()
	})
	f.timers = append(f.timers, t)
}

// Cancel stops every callback that has not fired yet.
func (f *FrameScheduler) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, t := range f.timers {
		t.Stop()
	}
	f.timers = nil
}

func (f *FrameScheduler) forgetLocked(t *time.Timer) {
	for i, cur := range f.timers {
		if cur == t {
			f.timers = append(f.timers[:i], f.timers[i+1:]...)
			return
		}
	}
}

// ManualScheduler queues callbacks until the host calls RunFrame. The TUI
// uses it to run frames on its own tea.Tick.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []func()
}

// Schedule queues fn for the next RunFrame.
func (m *ManualScheduler) Schedule(fn func()) {
	m.mu.Lock()
	m.pending = append(m.pending, fn)
	m.mu.Unlock()
}

// Cancel drops queued callbacks.
func (m *ManualScheduler) Cancel() {
	m.mu.Lock()
	m.pending = nil
	m.mu.Unlock()
}

// Pending returns the number of queued callbacks.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// RunFrame runs and clears the queue. It reports whether anything ran.
func (m *ManualScheduler) RunFrame() bool {
	m.mu.Lock()
	fns := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns) > 0
}
