package term

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"folio/cmd/folio/ui"
	"folio/internal/command"
	"folio/internal/logging"
	"folio/internal/render"
)

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready || m.sender.p == nil {
			m.setSize(msg.Width, msg.Height)
			next := m.refresh()
			return m, next
		}
		// Keep the old layout until resizing settles.
		m.resize.Resize(msg.Width, msg.Height, func(w, h int) {
			m.sender.send(layoutMsg{width: w, height: h})
		})
		return m, nil

	case layoutMsg:
		m.setSize(msg.width, msg.height)
		next := m.refresh()
		return m, next

	case loadedMsg:
		return m.handleLoaded(msg)

	case typeMsg:
		if !m.typing {
			return m, nil
		}
		m.typedLines++
		if m.typedLines >= m.bannerLines() {
			m.typing = false
		}
		cmd := m.refresh()
		if m.typing {
			cmd = tea.Batch(cmd, m.typeTick())
		}
		return m, cmd

	case frameMsg:
		m.frameQueued = false
		if m.sched.RunFrame() && m.frame.take() {
			m.render()
		}
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmd = tea.Batch(cmd, m.scrolled())
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	m.loaded = true
	m.loadErr = msg.err
	if msg.err != nil {
		m.status = "Resume unavailable"
		logging.Get(logging.CategoryUI).Warn("resume load failed: %v", msg.err)
	} else {
		m.status = ""
	}

	m.session.Welcome()
	if log := m.session.Log(); len(log) > 0 {
		m.bannerBlock = log[len(log)-1].Block
	}
	// Lay out once and apply the starting position without waiting a frame.
	m.render()
	m.scroll.Update(m.viewport.YOffset, m.viewport.Height)
	m.frame.take()
	if !m.opts.ReducedMotion && m.bannerLines() > 0 {
		m.typing = true
		m.typedLines = 0
		cmd := tea.Batch(m.refresh(), m.typeTick())
		return m, cmd
	}
	next := m.refresh()
	return m, next
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key finishes the banner animation.
	if m.typing {
		m.typing = false
		m.render()
	}

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		m.shutdown()
		return m, tea.Quit

	case tea.KeyEnter:
		m.session.SetInput(m.input.Value())
		res := m.session.Submit()
		m.input.SetValue("")
		m.recordResult(res)
		next := m.refresh()
		return m, next

	case tea.KeyUp:
		m.session.HistoryPrev()
		m.syncInput()
		return m, nil

	case tea.KeyDown:
		m.session.HistoryNext()
		m.syncInput()
		return m, nil

	case tea.KeyTab:
		m.session.SetInput(m.input.Value())
		matches := m.session.Autocomplete()
		m.syncInput()
		if len(matches) > 1 {
			next := m.refresh()
			return m, next
		}
		return m, nil

	case tea.KeyPgUp:
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height/2)
		next := m.scrolled()
		return m, next

	case tea.KeyPgDown:
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height/2)
		next := m.scrolled()
		return m, next

	case tea.KeyCtrlT:
		m.toggleTheme()
		m.render()
		return m, nil

	case tea.KeyCtrlR:
		m.toggleMotion()
		m.render()
		return m, nil
	}

	if msg.Alt && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9' {
		idx := int(msg.Runes[0] - '1')
		if idx < len(navSections) {
			next := m.jump(navSections[idx])
			return m, next
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// jump scrolls to the newest block of section, or runs the section's
// command when it is not in the log yet.
func (m *Model) jump(section string) tea.Cmd {
	if id, ok := m.sectionIDs[section]; ok {
		if y, ok := m.scroll.Target(id); ok {
			m.viewport.SetYOffset(y)
			return m.scrolled()
		}
	}
	m.session.SetInput(section)
	m.recordResult(m.session.Submit())
	m.input.SetValue("")
	return m.refresh()
}

func (m *Model) syncInput() {
	m.input.SetValue(m.session.Input())
	m.input.CursorEnd()
}

func (m *Model) recordResult(res command.Result) {
	if m.opts.Prefs == nil || res.Status == command.ResultEmpty {
		return
	}
	metric := "commands_executed"
	if res.Status == command.ResultNotFound {
		metric = "unknown_commands"
	}
	if err := m.opts.Prefs.IncrementMetric(metric); err != nil {
		logging.UIDebug("metric %s: %v", metric, err)
	}
}

func (m *Model) toggleTheme() {
	next := m.styles.Theme.Toggle()
	m.applyStyles(ui.NewStyles(next))
	m.opts.Theme = next.Name
	m.status = "Theme: " + next.Name
	if m.opts.Prefs != nil {
		if err := m.opts.Prefs.SetTheme(next.Name); err == nil {
			m.savePrefs()
		}
	}
}

func (m *Model) toggleMotion() {
	on := !m.opts.ReducedMotion
	m.opts.ReducedMotion = on
	m.scroll.SetReducedMotion(on)
	if on {
		m.status = "Reduced motion on"
	} else {
		m.status = "Reduced motion off"
	}
	if m.opts.Prefs != nil {
		m.opts.Prefs.SetReducedMotion(on)
		m.savePrefs()
	}
}

func (m *Model) savePrefs() {
	if err := m.opts.Prefs.Save(); err != nil {
		logging.Get(logging.CategoryUI).Warn("save preferences: %v", err)
		m.status = "Could not save preferences"
	}
}

func (m *Model) shutdown() {
	m.resize.Cancel()
	m.scroll.Stop()
	if m.opts.Prefs != nil {
		m.savePrefs()
	}
}

func (m *Model) setSize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width = width
	vh := height - chromeHeight
	if vh < 1 {
		vh = 1
	}
	m.viewport.Height = vh
	m.input.Width = width - len(m.input.Prompt) - 1
	m.ready = true
}

// refresh re-renders the log, follows the bottom if the session asked
// for it and schedules a scroll update.
func (m *Model) refresh() tea.Cmd {
	m.render()
	if *m.follow {
		*m.follow = false
		m.viewport.GotoBottom()
	}
	return m.scrolled()
}

// scrolled reports the viewport position to the scroll controller and
// queues a frame tick when an update was scheduled.
func (m *Model) scrolled() tea.Cmd {
	m.scroll.OnScroll(m.viewport.YOffset, m.viewport.Height)
	if m.frameQueued || m.sched.Pending() == 0 {
		return nil
	}
	m.frameQueued = true
	return tea.Tick(m.opts.FrameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m Model) typeTick() tea.Cmd {
	return tea.Tick(m.opts.TypewriterDelay, func(time.Time) tea.Msg { return typeMsg{} })
}

func (m Model) bannerLines() int {
	n := 0
	for _, e := range m.session.Log() {
		if e.Block == m.bannerBlock && e.Kind == render.KindBanner {
			n++
		}
	}
	return n
}

