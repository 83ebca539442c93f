package ux

// VisitorState describes how familiar the visitor is with the terminal.
type VisitorState string

const (
	// VisitorNew is a first session.
	VisitorNew VisitorState = "new"

	// VisitorReturning has been here before.
	VisitorReturning VisitorState = "returning"

	// VisitorRegular has used the terminal often enough to skip hints.
	VisitorRegular VisitorState = "regular"
)

// regularAfter is the session count at which hints stop.
const regularAfter = 10

// State classifies the visitor from the metrics.
func (m Metrics) State() VisitorState {
	switch {
	case m.SessionsCount <= 1:
		return VisitorNew
	case m.SessionsCount < regularAfter && m.CommandsExecuted < 5*regularAfter:
		return VisitorReturning
	default:
		return VisitorRegular
	}
}

// ShowHints reports whether the welcome hint should be shown.
func (s VisitorState) ShowHints() bool {
	return s != VisitorRegular
}

// Greeting is the line shown under the banner for the visitor state.
func (s VisitorState) Greeting() string {
	switch s {
	case VisitorNew:
		return "Welcome! Type 'help' to see what you can explore."
	case VisitorReturning:
		return "Welcome back. Type 'help' for the command list."
	default:
		return ""
	}
}
