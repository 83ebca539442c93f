package web

import (
	"folio/internal/session"
)

// Message types on the wire.
const (
	TypeKey   = "key"
	TypeState = "state"
	TypeError = "error"
)

// Keys a client may send.
const (
	KeyEnter = "enter"
	KeyUp    = "up"
	KeyDown  = "down"
	KeyTab   = "tab"
)

// ClientMessage is one keyboard event from the page.
type ClientMessage struct {
	Type  string `json:"type"`
	Key   string `json:"key"`
	Input string `json:"input"`
}

// WireLine is one log line.
type WireLine struct {
	Kind    string `json:"kind"`
	Text    string `json:"text"`
	Href    string `json:"href,omitempty"`
	Block   int    `json:"block"`
	Section string `json:"section,omitempty"`
}

// StateMessage is the whole visible terminal after an event.
type StateMessage struct {
	Type    string     `json:"type"`
	Session string     `json:"session"`
	Prompt  string     `json:"prompt"`
	Input   string     `json:"input"`
	Lines   []WireLine `json:"lines"`
	Cleared bool       `json:"cleared"`
}

// ErrorMessage reports a rejected client message.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func stateOf(id string, s *session.Session, cleared bool) StateMessage {
	log := s.Log()
	lines := make([]WireLine, len(log))
	for i, e := range log {
		lines[i] = WireLine{
			Kind:    e.Kind.String(),
			Text:    e.Text,
			Href:    e.Href,
			Block:   e.Block,
			Section: e.Section,
		}
	}
	return StateMessage{
		Type:    TypeState,
		Session: id,
		Prompt:  s.Prompt(),
		Input:   s.Input(),
		Lines:   lines,
		Cleared: cleared,
	}
}

// apply feeds one client message to the session. It reports whether the
// log was cleared and whether the message was understood.
func apply(s *session.Session, msg ClientMessage) (cleared bool, ok bool) {
	if msg.Type != TypeKey {
		return false, false
	}
	switch msg.Key {
	case KeyEnter:
		s.SetInput(msg.Input)
		res := s.Submit()
		return res.Clear, true
	case KeyUp:
		s.HistoryPrev()
	case KeyDown:
		s.HistoryNext()
	case KeyTab:
		s.SetInput(msg.Input)
		s.Autocomplete()
	default:
		return false, false
	}
	return false, true
}
