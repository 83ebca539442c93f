package render

import (
	"fmt"
	"strings"
)

// HelpEntry is one row of the help listing.
type HelpEntry struct {
	Name        string
	Description string
}

// Help lists the available commands.
func Help(entries []HelpEntry) Output {
	out := Output{Section: SectionHelp}
	out.Lines = append(out.Lines, Line{Kind: KindHeading, Text: "Available commands:"})
	width := 0
	for _, e := range entries {
		if len(e.Name) > width {
			width = len(e.Name)
		}
	}
	for _, e := range entries {
		out.Lines = append(out.Lines, Line{
			Kind: KindItem,
			Text: fmt.Sprintf("%-*s  %s", width, e.Name, e.Description),
		})
	}
	out.Lines = append(out.Lines,
		Line{Kind: KindBlank},
		Line{Kind: KindMuted, Text: "Tab completes a command, ↑/↓ walk the history."},
	)
	return out
}

// NotFound is the interpreter's answer to an unknown command.
func NotFound(name string) Output {
	return Output{
		Section: "",
		Lines: []Line{
			{Kind: KindError, Text: "command not found: " + name},
			{Kind: KindMuted, Text: "Type 'help' to see available commands."},
		},
	}
}

// NotLoaded is shown when a command runs before the resume has loaded.
func NotLoaded(section string) Output {
	return Output{
		Section: section,
		Lines: []Line{
			{Kind: KindMuted, Text: "Resume data is still loading. Try '" + section + "' again in a moment."},
		},
	}
}

// Unavailable is shown in place of a section when the resume failed to load.
func Unavailable(section string, err error) Output {
	msg := "Resume data is unavailable."
	if err != nil {
		msg = "Resume data is unavailable: " + err.Error()
	}
	return Output{
		Section: section,
		Lines: []Line{
			{Kind: KindError, Text: msg},
			{Kind: KindMuted, Text: "Restart the session to try loading it again."},
		},
	}
}

// Echo renders the submitted command line.
func Echo(prompt, input string) Line {
	if prompt == "" {
		return Line{Kind: KindEcho, Text: input}
	}
	return Line{Kind: KindEcho, Text: prompt + " " + input}
}

// Candidates lists ambiguous completions on one line.
func Candidates(names []string) Output {
	if len(names) == 0 {
		return Output{}
	}
	return Output{
		Lines: []Line{{Kind: KindMuted, Text: strings.Join(names, "  ")}},
	}
}
