// Package scroll maps a scroll position onto the portfolio's sections: which
// nav entry is active and which sections have been revealed.
//
// Scroll events arrive far more often than anything needs redrawing, so
// OnScroll only records the position and schedules one update per frame.
// Revealing is one-way; a section never goes back to hidden.
package scroll

import (
	"sync"
)

// Defaults measured in the host's units (pixels on a page, lines in a
// terminal).
const (
	DefaultOffset       = 100
	DefaultThreshold    = 0.9
	DefaultMargin       = 100
	DefaultHeaderOffset = 80
)

// Section is one vertical span of the document.
type Section struct {
	ID     string
	Top    int
	Height int
}

// Bottom is the first position below the section.
func (s Section) Bottom() int { return s.Top + s.Height }

// Contains reports whether y falls inside [Top, Bottom).
func (s Section) Contains(y int) bool { return y >= s.Top && y < s.Bottom() }

// Snapshot is the controller's computed state after a frame.
type Snapshot struct {
	Active   string
	Revealed []string
	Updates  int
}

// Controller tracks the active and revealed sections.
type Controller struct {
	mu sync.Mutex

	sections     []Section
	offset       int
	threshold    float64
	margin       int
	headerOffset int

	y        int
	viewport int
	pending  bool
	updates  int

	active    string
	revealed  map[string]bool
	revealAll bool

	sched    Scheduler
	onChange func(Snapshot)
}

// Option configures a Controller.
type Option func(*Controller)

// WithOffset sets how far below the scroll position the active probe sits.
func WithOffset(px int) Option { return func(c *Controller) { c.offset = px } }

// WithThreshold sets the viewport fraction a section must enter to reveal.
func WithThreshold(f float64) Option {
	return func(c *Controller) {
		if f > 0 {
			c.threshold = f
		}
	}
}

// WithMargin sets how far above the viewport a section still counts as seen.
func WithMargin(px int) Option { return func(c *Controller) { c.margin = px } }

// WithHeaderOffset sets the fixed header height subtracted from nav targets.
func WithHeaderOffset(px int) Option { return func(c *Controller) { c.headerOffset = px } }

// WithScheduler sets the frame scheduler.
func WithScheduler(s Scheduler) Option { return func(c *Controller) { c.sched = s } }

// WithReducedMotion reveals every section up front.
func WithReducedMotion(on bool) Option { return func(c *Controller) { c.revealAll = on } }

// WithOnChange registers a callback run after each frame's update.
func WithOnChange(fn func(Snapshot)) Option { return func(c *Controller) { c.onChange = fn } }

// NewController creates a controller over sections, ordered top to bottom.
func NewController(sections []Section, opts ...Option) *Controller {
	c := &Controller{
		offset:       DefaultOffset,
		threshold:    DefaultThreshold,
		margin:       DefaultMargin,
		headerOffset: DefaultHeaderOffset,
		revealed:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sched == nil {
		c.sched = NewFrameScheduler(FrameInterval)
	}
	c.sections = append([]Section(nil), sections...)
	if c.revealAll {
		c.revealEverything()
	}
	return c
}

// SetSections replaces the layout. Revealed sections stay revealed.
func (c *Controller) SetSections(sections []Section) {
	c.mu.Lock()
	c.sections = append([]Section(nil), sections...)
	if c.revealAll {
		c.revealEverything()
	}
	c.mu.Unlock()
}

// OnScroll records the position and schedules an update unless one is
// already pending. It reports whether it scheduled.
func (c *Controller) OnScroll(y, viewport int) bool {
	c.mu.Lock()
	c.y, c.viewport = y, viewport
	if c.pending {
		c.mu.Unlock()
		return false
	}
	c.pending = true
	c.mu.Unlock()

	c.sched.Schedule(c.runFrame)
	return true
}

func (c *Controller) runFrame() { c.flush() }

// Update applies a position immediately, bypassing the scheduler. Hosts
// call it once at start-up for the initial state.
func (c *Controller) Update(y, viewport int) Snapshot {
	c.mu.Lock()
	c.y, c.viewport = y, viewport
	c.mu.Unlock()
	return c.flush()
}

func (c *Controller) flush() Snapshot {
	c.mu.Lock()
	c.pending = false
	c.updates++

	probe := c.y + c.offset
	for _, s := range c.sections {
		if s.Contains(probe) {
			c.active = s.ID
		}
	}

	lower := float64(c.y) + float64(c.viewport)*c.threshold
	for _, s := range c.sections {
		if float64(s.Top) < lower && s.Bottom() > c.y-c.margin {
			c.revealed[s.ID] = true
		}
	}

	snap := c.snapshotLocked()
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
	return snap
}

// SetReducedMotion switches reveal-all on or off. Turning it off keeps what
// was already revealed.
func (c *Controller) SetReducedMotion(on bool) {
	c.mu.Lock()
	c.revealAll = on
	if on {
		c.revealEverything()
	}
	c.mu.Unlock()
}

func (c *Controller) revealEverything() {
	for _, s := range c.sections {
		c.revealed[s.ID] = true
	}
}

// Active returns the active section ID, "" before any section matched.
func (c *Controller) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// IsRevealed reports whether id has been revealed.
func (c *Controller) IsRevealed(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revealed[id]
}

// Pending reports whether an update is scheduled.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{Active: c.active, Updates: c.updates}
	for _, s := range c.sections {
		if c.revealed[s.ID] {
			snap.Revealed = append(snap.Revealed, s.ID)
		}
	}
	return snap
}

// Target returns the scroll position that brings id just below the fixed
// header, as a nav click would.
func (c *Controller) Target(id string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.sections {
		if s.ID == id {
			y := s.Top - c.headerOffset
			if y < 0 {
				y = 0
			}
			return y, true
		}
	}
	return 0, false
}

// Stop cancels any scheduled update.
func (c *Controller) Stop() {
	c.sched.Cancel()
	c.mu.Lock()
	c.pending = false
	c.mu.Unlock()
}
