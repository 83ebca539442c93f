// Package term is the interactive bubbletea terminal: a nav header of resume
// sections, the session log in a scrollable viewport and the input line.
package term

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"folio/cmd/folio/ui"
	"folio/internal/command"
	"folio/internal/logging"
	"folio/internal/render"
	"folio/internal/resume"
	"folio/internal/scroll"
	"folio/internal/session"
	"folio/internal/ux"
)

// navSections are the resume sections in header order.
var navSections = []string{
	render.SectionAbout,
	render.SectionSkills,
	render.SectionExperience,
	render.SectionProjects,
	render.SectionContact,
	render.SectionSocial,
}

// Layout rows outside the viewport: header with its border, input, footer.
const chromeHeight = 4

// Options configures the terminal.
type Options struct {
	Store  *resume.Store
	Prompt string
	Theme  string
	// Prefs persists theme and motion changes; nil keeps them in memory.
	Prefs           *ux.PreferencesManager
	ReducedMotion   bool
	Greeting        string
	ShowHints       bool
	TypewriterDelay time.Duration
	FrameInterval   time.Duration
	NavOffset       int
	RevealMargin    int
	Threshold       float64
	Now             func() time.Time
}

type (
	loadedMsg struct{ err error }
	frameMsg  struct{}
	typeMsg   struct{}
	layoutMsg struct{ width, height int }
)

// sender lets timer goroutines reach the running program.
type sender struct {
	p *tea.Program
}

func (s *sender) send(msg tea.Msg) {
	if s != nil && s.p != nil {
		s.p.Send(msg)
	}
}

// frameState remembers the last scroll snapshot so frames that change
// nothing skip the re-render.
type frameState struct {
	active   string
	revealed []string
	dirty    bool
}

func (f *frameState) observe(s scroll.Snapshot) {
	if s.Active != f.active {
		logging.UIDebug("active section %q", sectionOf(s.Active))
	}
	if s.Active != f.active || !slices.Equal(s.Revealed, f.revealed) {
		f.dirty = true
	}
	f.active, f.revealed = s.Active, s.Revealed
}

// take reports whether anything changed since the last call.
func (f *frameState) take() bool {
	d := f.dirty
	f.dirty = false
	return d
}

// Model is the bubbletea model.
type Model struct {
	opts     Options
	registry *command.Registry
	session  *session.Session
	styles   ui.Styles

	input    textinput.Model
	viewport viewport.Model

	sched       *scroll.ManualScheduler
	scroll      *scroll.Controller
	frame       *frameState
	frameQueued bool
	// follow is set by the session's autoscroll hook.
	follow *bool
	// sectionIDs maps a section name to the layout ID of its newest block.
	sectionIDs map[string]string

	loaded      bool
	loadErr     error
	typing      bool
	typedLines  int
	bannerBlock int

	resize *ui.ResizeDebouncer
	sender *sender
	width  int
	height int
	ready  bool

	status   string
	quitting bool
}

// New builds the model. The store is loaded by Init.
func New(opts Options) Model {
	if opts.Prompt == "" {
		opts.Prompt = session.DefaultPrompt
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = scroll.FrameInterval
	}
	if opts.TypewriterDelay <= 0 {
		opts.TypewriterDelay = 40 * time.Millisecond
	}
	if opts.Threshold <= 0 {
		opts.Threshold = scroll.DefaultThreshold
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Prefs != nil {
		opts.Theme = opts.Prefs.Theme()
		opts.ReducedMotion = opts.Prefs.ReducedMotion()
	}

	follow := new(bool)
	reg := command.NewRegistry(opts.Store, command.WithClock(opts.Now))
	sess := session.New(reg,
		session.WithPrompt(opts.Prompt),
		session.WithGreeting(opts.Greeting),
		session.WithAutoScroll(func() { *follow = true }),
	)

	sched := &scroll.ManualScheduler{}
	frame := &frameState{}
	ctrl := scroll.NewController(nil,
		scroll.WithScheduler(sched),
		scroll.WithOffset(opts.NavOffset),
		scroll.WithHeaderOffset(opts.NavOffset),
		scroll.WithMargin(opts.RevealMargin),
		scroll.WithThreshold(opts.Threshold),
		scroll.WithReducedMotion(opts.ReducedMotion),
		scroll.WithOnChange(frame.observe),
	)

	styles := ui.NewStyles(ui.ThemeByName(opts.Theme))

	ti := textinput.New()
	ti.Prompt = opts.Prompt + " "
	ti.CharLimit = 256
	ti.Focus()

	m := Model{
		opts:       opts,
		registry:   reg,
		session:    sess,
		input:      ti,
		viewport:   viewport.New(80, 20),
		sched:      sched,
		scroll:     ctrl,
		frame:      frame,
		follow:     follow,
		sectionIDs: make(map[string]string),
		resize:     ui.NewResizeDebouncer(ui.DefaultResizeDuration),
		sender:     &sender{},
		status:     "Loading resume…",
	}
	m.applyStyles(styles)
	return m
}

// Init starts the blinking cursor and the resume load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadCmd())
}

func (m Model) loadCmd() tea.Cmd {
	store := m.opts.Store
	return func() tea.Msg {
		if store == nil {
			return loadedMsg{}
		}
		_, err := store.Load(context.Background())
		return loadedMsg{err: err}
	}
}

func (m *Model) applyStyles(s ui.Styles) {
	m.styles = s
	m.input.PromptStyle = s.Prompt
	m.input.TextStyle = s.UserInput
}

// Session returns the underlying terminal session.
func (m Model) Session() *session.Session { return m.session }

// Theme returns the active theme name.
func (m Model) Theme() string { return m.styles.Theme.Name }

// ReducedMotion reports whether animations are off.
func (m Model) ReducedMotion() bool { return m.opts.ReducedMotion }

// Run starts the full-screen program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	m.sender.p = p

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if fm, ok := final.(Model); ok {
		fm.resize.Cancel()
		logging.Session("terminal closed after %d commands", len(fm.session.History()))
	}
	return nil
}

// layoutID names one block in the scroll layout.
func layoutID(section string, block int) string {
	return fmt.Sprintf("%s-%d", section, block)
}

// sectionOf strips the block suffix from a layout ID.
func sectionOf(id string) string {
	if i := strings.LastIndex(id, "-"); i > 0 {
		return id[:i]
	}
	return id
}

func isNavSection(name string) bool {
	for _, s := range navSections {
		if s == name {
			return true
		}
	}
	return false
}
