package ui

import (
	"sync"
	"time"
)

// DefaultResizeDuration is the debounce window for resize events.
const DefaultResizeDuration = 150 * time.Millisecond

// ResizeDebouncer coalesces window size events. The terminal re-measures
// section rows on every layout, so only the settled size is applied.
type ResizeDebouncer struct {
	mu     sync.Mutex
	timer  *time.Timer
	wait   time.Duration
	width  int
	height int
}

// NewResizeDebouncer creates a debouncer that waits for wait without events.
func NewResizeDebouncer(wait time.Duration) *ResizeDebouncer {
	if wait <= 0 {
		wait = DefaultResizeDuration
	}
	return &ResizeDebouncer{wait: wait}
}

// Resize records the size and restarts the wait. apply runs on a timer
// goroutine with the newest size.
func (rd *ResizeDebouncer) Resize(width, height int, apply func(width, height int)) {
	rd.mu.Lock()
	defer rd.mu.Unlock()

	rd.width, rd.height = width, height
	if rd.timer != nil {
		rd.timer.Stop()
	}
	rd.timer = time.AfterFunc(rd.wait, func() {
		rd.mu.Lock()
		w, h := rd.width, rd.height
		rd.timer = nil
		rd.mu.Unlock()
		apply(w, h)
	})
}

// Cancel drops a pending resize.
func (rd *ResizeDebouncer) Cancel() {
	rd.mu.Lock()
	defer rd.mu.Unlock()

	if rd.timer != nil {
		rd.timer.Stop()
		rd.timer = nil
	}
}
