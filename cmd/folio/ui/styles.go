// Package ui holds the lipgloss palette and styles for the folio terminal,
// with dark and light themes.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"folio/internal/render"
)

// Theme names, matching the persisted preference values.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

var (
	// Light mode colors
	LightBackground = lipgloss.Color("#f4f5f6")
	LightForeground = lipgloss.Color("#1b2330")
	LightPrimary    = lipgloss.Color("#2f6f3e")
	LightAccent     = lipgloss.Color("#1f5fbf")
	LightMuted      = lipgloss.Color("#7a828e")
	LightBorder     = lipgloss.Color("#d0d5dc")

	// Dark mode colors
	DarkBackground = lipgloss.Color("#0d1117")
	DarkForeground = lipgloss.Color("#e6edf3")
	DarkPrimary    = lipgloss.Color("#3fb950")
	DarkAccent     = lipgloss.Color("#58a6ff")
	DarkMuted      = lipgloss.Color("#6e7681")
	DarkBorder     = lipgloss.Color("#30363d")

	// Same in both modes
	Destructive = lipgloss.Color("#f85149")
	Warning     = lipgloss.Color("#d29922")
)

// Theme holds the current color scheme.
type Theme struct {
	Name       string
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Name:       ThemeLight,
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Name:       ThemeDark,
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// ThemeByName maps a preference value to a theme. Unknown names fall back to
// terminal detection.
func ThemeByName(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ThemeDark:
		return DarkTheme()
	case ThemeLight:
		return LightTheme()
	default:
		return DetectTheme()
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t.IsDark {
		return LightTheme()
	}
	return DarkTheme()
}

// DetectTheme guesses from COLORFGBG ("fg;bg"); dark unless the background
// index looks light.
func DetectTheme() Theme {
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if bgIdx, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			if bgIdx == 7 || (bgIdx >= 9 && bgIdx <= 15) {
				return LightTheme()
			}
		}
	}
	return DarkTheme()
}

// Styles holds all the styled components.
type Styles struct {
	Theme Theme

	// Layout
	Header    lipgloss.Style
	NavItem   lipgloss.Style
	NavActive lipgloss.Style
	Footer    lipgloss.Style
	Content   lipgloss.Style

	// Input
	Prompt    lipgloss.Style
	UserInput lipgloss.Style

	// Log lines
	Heading    lipgloss.Style
	Subheading lipgloss.Style
	Body       lipgloss.Style
	Item       lipgloss.Style
	Meta       lipgloss.Style
	Link       lipgloss.Style
	Banner     lipgloss.Style
	Echo       lipgloss.Style
	Error      lipgloss.Style
	Muted      lipgloss.Style

	// Hidden is applied to blocks that have not scrolled into view yet.
	Hidden lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(theme.Border).
			Padding(0, 1),

		NavItem: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		NavActive: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Underline(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Content: lipgloss.NewStyle().
			Padding(0, 1),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		UserInput: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Heading: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Subheading: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Item: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Meta: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Link: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Underline(true),

		Banner: lipgloss.NewStyle().
			Foreground(theme.Primary),

		Echo: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Hidden: lipgloss.NewStyle().
			Foreground(theme.Border),
	}
}

// DefaultStyles returns styles for the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// RenderLine styles one log line. Hidden lines keep their layout but are
// drawn in the border color until revealed.
func (s Styles) RenderLine(l render.Line, hidden bool) string {
	text := l.Plain()
	if text == "" {
		return ""
	}
	if hidden {
		return s.Hidden.Render(text)
	}

	var st lipgloss.Style
	switch l.Kind {
	case render.KindHeading:
		st = s.Heading
	case render.KindSubheading:
		st = s.Subheading
	case render.KindItem:
		st = s.Item
	case render.KindMeta:
		st = s.Meta
	case render.KindLink:
		st = s.Link
	case render.KindBanner:
		st = s.Banner
	case render.KindEcho:
		st = s.Echo
	case render.KindError:
		st = s.Error
	case render.KindMuted:
		st = s.Muted
	default:
		st = s.Body
	}
	return st.Render(text)
}

// RenderDivider returns a horizontal divider.
func (s Styles) RenderDivider(width int) string {
	if width < 0 {
		width = 0
	}
	return lipgloss.NewStyle().Foreground(s.Theme.Border).Render(strings.Repeat("─", width))
}
