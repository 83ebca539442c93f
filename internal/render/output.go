// Package render turns resume sections into display-neutral output blocks.
//
// Every function here is pure: it takes a slice of the resume document and
// returns data. Hosts (the TUI, the websocket terminal, the MCP tools) decide
// how a Line is drawn. Missing fields yield empty fragments, never errors.
package render

import "strings"

// Kind classifies a rendered line so hosts can style it.
type Kind int

const (
	KindText Kind = iota
	KindHeading
	KindSubheading
	KindItem
	KindMeta
	KindLink
	KindBanner
	KindEcho
	KindError
	KindMuted
	KindBlank
)

var kindNames = []string{
	"text", "heading", "subheading", "item", "meta", "link",
	"banner", "echo", "error", "muted", "blank",
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "text"
}

// Line is one rendered line. Href is set for links.
type Line struct {
	Kind Kind
	Text string
	Href string
}

// Plain returns the line as undecorated terminal text.
func (l Line) Plain() string {
	switch l.Kind {
	case KindItem:
		return "  • " + l.Text
	case KindMeta, KindLink:
		return "  " + l.Text
	case KindBlank:
		return ""
	default:
		return l.Text
	}
}

// Output is one rendered block. Section names the command that produced it.
type Output struct {
	Section string
	Lines   []Line
}

// Empty reports whether the block has nothing to show.
func (o Output) Empty() bool {
	return len(o.Lines) == 0
}

// PlainText renders the block as terminal text.
func PlainText(o Output) string {
	parts := make([]string, len(o.Lines))
	for i, l := range o.Lines {
		parts[i] = l.Plain()
	}
	return strings.Join(parts, "\n")
}

// Markdown renders the block as CommonMark. Consecutive items form one list
// and consecutive banner lines one code fence.
func Markdown(o Output) string {
	var sb strings.Builder
	prev := Kind(-1)
	inFence := false

	for _, l := range o.Lines {
		if l.Kind == KindBlank {
			continue
		}
		grouped := (l.Kind == KindItem || l.Kind == KindBanner) && l.Kind == prev
		if inFence && l.Kind != KindBanner {
			sb.WriteString("```\n")
			inFence = false
		}
		if sb.Len() > 0 && !grouped {
			sb.WriteString("\n")
		}

		switch l.Kind {
		case KindHeading:
			sb.WriteString("## " + l.Text)
		case KindSubheading:
			sb.WriteString("### " + l.Text)
		case KindItem:
			sb.WriteString("- " + l.Text)
		case KindMeta, KindMuted:
			sb.WriteString("_" + l.Text + "_")
		case KindLink:
			if l.Href != "" {
				sb.WriteString("[" + l.Text + "](" + l.Href + ")")
			} else {
				sb.WriteString(l.Text)
			}
		case KindBanner:
			if !inFence {
				sb.WriteString("```\n")
				inFence = true
			}
			sb.WriteString(l.Text)
		case KindEcho:
			sb.WriteString("`" + l.Text + "`")
		case KindError:
			sb.WriteString("**" + l.Text + "**")
		default:
			sb.WriteString(l.Text)
		}
		sb.WriteString("\n")
		prev = l.Kind
	}
	if inFence {
		sb.WriteString("```\n")
	}
	return sb.String()
}

// builder accumulates lines and drops empty text.
type builder struct {
	out Output
}

func newBuilder(section string) *builder {
	return &builder{out: Output{Section: section}}
}

func (b *builder) add(kind Kind, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	b.out.Lines = append(b.out.Lines, Line{Kind: kind, Text: text})
}

func (b *builder) link(text, href string) {
	if strings.TrimSpace(href) == "" {
		return
	}
	b.out.Lines = append(b.out.Lines, Line{Kind: KindLink, Text: text, Href: href})
}

// blank separates groups; it never leads or doubles up.
func (b *builder) blank() {
	n := len(b.out.Lines)
	if n == 0 || b.out.Lines[n-1].Kind == KindBlank {
		return
	}
	b.out.Lines = append(b.out.Lines, Line{Kind: KindBlank})
}

func (b *builder) done() Output {
	n := len(b.out.Lines)
	if n > 0 && b.out.Lines[n-1].Kind == KindBlank {
		b.out.Lines = b.out.Lines[:n-1]
	}
	return b.out
}
