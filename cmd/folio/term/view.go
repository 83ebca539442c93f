package term

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"folio/internal/render"
	"folio/internal/scroll"
)

// render rebuilds the viewport content and the scroll layout from the log.
// Every log entry is one viewport row.
func (m *Model) render() {
	log := m.session.Log()
	rows := make([]string, len(log))
	var sections []scroll.Section
	ids := make(map[string]string)

	typed := 0
	for i, e := range log {
		if isNavSection(e.Section) {
			id := layoutID(e.Section, e.Block)
			n := len(sections)
			if n > 0 && sections[n-1].ID == id {
				sections[n-1].Height++
			} else {
				sections = append(sections, scroll.Section{ID: id, Top: i, Height: 1})
				ids[e.Section] = id
			}
		}

		if m.typing && e.Block == m.bannerBlock && e.Kind == render.KindBanner {
			if typed >= m.typedLines {
				rows[i] = ""
				continue
			}
			typed++
		}

		hidden := isNavSection(e.Section) && !m.scroll.IsRevealed(layoutID(e.Section, e.Block))
		rows[i] = m.styles.RenderLine(e.Line, hidden)
	}

	m.sectionIDs = ids
	m.scroll.SetSections(sections)
	m.viewport.SetContent(strings.Join(rows, "\n"))
}

// View draws the header, the log, the input line and the footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.viewport.View(),
		m.input.View(),
		m.footerView(),
	)
}

func (m Model) headerView() string {
	active := sectionOf(m.scroll.Active())
	caser := cases.Title(language.English)

	items := make([]string, 0, len(navSections))
	for _, name := range navSections {
		label := caser.String(name)
		if name == active {
			items = append(items, m.styles.NavActive.Render(label))
		} else {
			items = append(items, m.styles.NavItem.Render(label))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, items...)
	if m.width > 0 {
		return m.styles.Header.Width(m.width).Render(header)
	}
	return m.styles.Header.Render(header)
}

func (m Model) footerView() string {
	var parts []string
	if m.status != "" {
		parts = append(parts, m.status)
	}
	if m.opts.ShowHints {
		parts = append(parts, "tab complete · ↑/↓ history · pgup/pgdn scroll · alt+1-6 jump · ctrl+t theme · ctrl+c quit")
	}
	return m.styles.Footer.Render(strings.Join(parts, "  |  "))
}
