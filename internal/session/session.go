// Package session holds the state of one terminal: the input line, the
// command history with its browsing cursor, and the visible log.
//
// A Session has a single owner. Hosts (the bubbletea model, a websocket
// connection's read loop) feed it one event at a time and read the log back
// after each event, so nothing here locks.
package session

import (
	"context"

	"folio/internal/command"
	"folio/internal/logging"
	"folio/internal/render"
)

// DefaultPrompt is echoed in front of every submitted line.
const DefaultPrompt = "guest@folio:~$"

// Entry is one line of the visible log.
type Entry struct {
	// Block groups the lines appended by one event. IDs only grow, even
	// across a clear.
	Block int
	// Section is the command section that produced the block, if any.
	Section string
	render.Line
}

// Session is the state machine behind one terminal.
type Session struct {
	registry *command.Registry
	prompt   string
	greeting string

	history []string
	cursor  int // 0..len(history); len(history) means a fresh line
	input   string

	log       []Entry
	nextBlock int

	autoScroll func()
	observer   func(command.Result)
}

// Option configures a Session.
type Option func(*Session)

// WithPrompt sets the echoed prompt.
func WithPrompt(p string) Option {
	return func(s *Session) { s.prompt = p }
}

// WithAutoScroll registers the hook run after every change to the log.
func WithAutoScroll(fn func()) Option {
	return func(s *Session) { s.autoScroll = fn }
}

// WithObserver registers a callback that sees every non-empty resolution.
func WithObserver(fn func(command.Result)) Option {
	return func(s *Session) { s.observer = fn }
}

// WithGreeting adds a muted line under the welcome banner.
func WithGreeting(text string) Option {
	return func(s *Session) { s.greeting = text }
}

// New creates a session over reg.
func New(reg *command.Registry, opts ...Option) *Session {
	s := &Session{
		registry: reg,
		prompt:   DefaultPrompt,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the resume and shows the welcome banner. The banner is shown
// whether or not the load succeeds; the load error is returned for logging.
func (s *Session) Start(ctx context.Context) error {
	var err error
	if store := s.registry.Store(); store != nil {
		_, err = store.Load(ctx)
	}
	s.Welcome()
	return err
}

// Welcome appends the banner block. Hosts that load the store themselves
// call it once the load has finished.
func (s *Session) Welcome() {
	res := s.registry.Resolve(command.Banner)
	if res.Output == nil {
		return
	}
	out := *res.Output
	if s.greeting != "" {
		out.Lines = append(append([]render.Line(nil), out.Lines...),
			render.Line{Kind: render.KindBlank},
			render.Line{Kind: render.KindMuted, Text: s.greeting},
		)
	}
	s.appendBlock(out.Section, out.Lines)
}

// Submit runs the current input line. Blank input only clears the line.
func (s *Session) Submit() command.Result {
	raw := s.input
	res := s.registry.Resolve(raw)
	if res.Status == command.ResultEmpty {
		s.input = ""
		return res
	}

	s.history = append(s.history, raw)
	s.cursor = len(s.history)

	block := s.appendBlock("", []render.Line{render.Echo(s.prompt, raw)})
	switch {
	case res.Clear:
		s.clearLog()
	case res.Output != nil && !res.Output.Empty():
		s.extendBlock(block, res.Output.Section, res.Output.Lines)
	}
	s.input = ""

	logging.SessionDebug("submit %q -> %s", res.Name, res.Status)
	if s.observer != nil {
		s.observer(res)
	}
	return res
}

// HistoryPrev steps back through history. No-op at the oldest entry.
func (s *Session) HistoryPrev() {
	if s.cursor > 0 {
		s.cursor--
		s.input = s.history[s.cursor]
	}
}

// HistoryNext steps forward through history; past the newest entry it
// returns to a fresh, empty line.
func (s *Session) HistoryNext() {
	if s.cursor < len(s.history)-1 {
		s.cursor++
		s.input = s.history[s.cursor]
		return
	}
	s.cursor = len(s.history)
	s.input = ""
}

// Autocomplete completes the input line. One match replaces the line;
// several are listed in the log and the line is left alone.
func (s *Session) Autocomplete() []string {
	matches := s.registry.Complete(s.input)
	switch len(matches) {
	case 0:
	case 1:
		s.input = matches[0]
	default:
		s.appendBlock("", render.Candidates(matches).Lines)
	}
	return matches
}

// Input returns the current input line.
func (s *Session) Input() string { return s.input }

// SetInput replaces the input line. Editing does not move the history cursor.
func (s *Session) SetInput(v string) { s.input = v }

// Prompt returns the echoed prompt.
func (s *Session) Prompt() string { return s.prompt }

// Cursor returns the history cursor.
func (s *Session) Cursor() int { return s.cursor }

// History returns a copy of the submitted lines, oldest first.
func (s *Session) History() []string {
	return append([]string(nil), s.history...)
}

// Log returns a copy of the visible log.
func (s *Session) Log() []Entry {
	return append([]Entry(nil), s.log...)
}

// Lines returns the visible log without block metadata.
func (s *Session) Lines() []render.Line {
	lines := make([]render.Line, len(s.log))
	for i, e := range s.log {
		lines[i] = e.Line
	}
	return lines
}

// Registry returns the interpreter the session resolves against.
func (s *Session) Registry() *command.Registry { return s.registry }

func (s *Session) appendBlock(section string, lines []render.Line) int {
	id := s.nextBlock
	s.nextBlock++
	s.extendBlock(id, section, lines)
	return id
}

func (s *Session) extendBlock(id int, section string, lines []render.Line) {
	if section != "" {
		for i := len(s.log) - 1; i >= 0 && s.log[i].Block == id; i-- {
			s.log[i].Section = section
		}
	}
	for _, l := range lines {
		s.log = append(s.log, Entry{Block: id, Section: section, Line: l})
	}
	s.scroll()
}

func (s *Session) clearLog() {
	s.log = nil
	s.scroll()
}

func (s *Session) scroll() {
	if s.autoScroll != nil {
		s.autoScroll()
	}
}
