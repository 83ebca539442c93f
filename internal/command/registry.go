// Package command implements the terminal's fixed command registry and the
// interpreter that resolves typed input against it.
//
// Commands take no arguments. Input is trimmed and lower-cased and the
// result is the command name. The registry is built once and never changes.
package command

import (
	"strings"
	"time"

	"folio/internal/logging"
	"folio/internal/render"
	"folio/internal/resume"
)

// Command names.
const (
	Help       = "help"
	About      = "about"
	Skills     = "skills"
	Experience = "experience"
	Projects   = "projects"
	Contact    = "contact"
	Social     = "social"
	Clear      = "clear"
	Banner     = "banner"
)

// Command is one registered terminal command.
type Command struct {
	Name        string
	Description string
	// Render produces the command's output; nil means nothing to append.
	Render func() *render.Output
	// ClearsLog marks the command that empties the visible log.
	ClearsLog bool
}

// Status classifies a resolution.
type Status int

const (
	ResultEmpty    Status = iota // blank input, nothing to do
	ResultOK                     // known command
	ResultNotFound               // unknown command
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case ResultEmpty:
		return "empty"
	case ResultOK:
		return "ok"
	case ResultNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Result is the outcome of Resolve.
type Result struct {
	Status Status
	// Name is the normalized input.
	Name string
	// Output is the block to append; nil for no output.
	Output *render.Output
	// Clear asks the session to empty its log.
	Clear bool
}

// Registry maps command names to commands.
type Registry struct {
	store    *resume.Store
	now      func() time.Time
	commands []Command
	byName   map[string]int
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the clock used for experience durations.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRegistry builds the fixed command set reading from store.
func NewRegistry(store *resume.Store, opts ...Option) *Registry {
	r := &Registry{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.commands = []Command{
		{Name: Help, Description: "Show available commands", Render: r.renderHelp},
		{Name: About, Description: "Learn about me", Render: r.section(About, func(d *resume.Document) render.Output {
			return render.About(d.Personal, d.About)
		})},
		{Name: Skills, Description: "View my technical skills", Render: r.section(Skills, func(d *resume.Document) render.Output {
			return render.Skills(d.Skills)
		})},
		{Name: Experience, Description: "See my work experience", Render: r.section(Experience, func(d *resume.Document) render.Output {
			return render.Experience(d.Experience, r.now())
		})},
		{Name: Projects, Description: "Browse my projects", Render: r.section(Projects, func(d *resume.Document) render.Output {
			return render.Projects(d.Projects)
		})},
		{Name: Contact, Description: "Get my contact information", Render: r.section(Contact, func(d *resume.Document) render.Output {
			return render.Contact(d.Contact)
		})},
		{Name: Social, Description: "Find me on social media", Render: r.section(Social, func(d *resume.Document) render.Output {
			return render.Social(d.Social)
		})},
		{Name: Clear, Description: "Clear the terminal", Render: func() *render.Output { return nil }, ClearsLog: true},
		{Name: Banner, Description: "Display the welcome banner", Render: r.section(Banner, func(d *resume.Document) render.Output {
			return render.Banner(d.Banner)
		})},
	}

	r.byName = make(map[string]int, len(r.commands))
	for i, c := range r.commands {
		r.byName[c.Name] = i
	}
	return r
}

// section wraps a renderer with the store check: pending input gets the
// not-loaded block and a failed load gets the unavailable block.
func (r *Registry) section(name string, fn func(*resume.Document) render.Output) func() *render.Output {
	return func() *render.Output {
		var out render.Output
		if r.store == nil {
			out = render.NotLoaded(name)
			return &out
		}
		doc, state, err := r.store.Snapshot()
		switch state {
		case resume.StateReady:
			out = fn(doc)
		case resume.StateUnavailable:
			out = render.Unavailable(name, err)
		default:
			out = render.NotLoaded(name)
		}
		return &out
	}
}

func (r *Registry) renderHelp() *render.Output {
	entries := make([]render.HelpEntry, len(r.commands))
	for i, c := range r.commands {
		entries[i] = render.HelpEntry{Name: c.Name, Description: c.Description}
	}
	out := render.Help(entries)
	return &out
}

// Normalize trims surrounding whitespace and lower-cases the input.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Resolve maps raw input to a result. Blank input is ResultEmpty, unknown
// names are ResultNotFound carrying the normalized name.
func (r *Registry) Resolve(raw string) Result {
	name := Normalize(raw)
	if name == "" {
		return Result{Status: ResultEmpty}
	}

	idx, ok := r.byName[name]
	if !ok {
		logging.CommandDebug("unknown command %q", name)
		out := render.NotFound(name)
		return Result{Status: ResultNotFound, Name: name, Output: &out}
	}

	cmd := r.commands[idx]
	logging.CommandDebug("resolve %q", name)
	return Result{
		Status: ResultOK,
		Name:   name,
		Output: cmd.Render(),
		Clear:  cmd.ClearsLog,
	}
}

// Complete returns the command names that start with partial
// (case-insensitive), in registry order. A blank partial matches nothing.
func (r *Registry) Complete(partial string) []string {
	prefix := Normalize(partial)
	if prefix == "" {
		return nil
	}
	var matches []string
	for _, c := range r.commands {
		if strings.HasPrefix(c.Name, prefix) {
			matches = append(matches, c.Name)
		}
	}
	return matches
}

// Lookup returns the command registered under name.
func (r *Registry) Lookup(name string) (Command, bool) {
	idx, ok := r.byName[Normalize(name)]
	if !ok {
		return Command{}, false
	}
	return r.commands[idx], true
}

// Names returns the command names in registry order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.commands))
	for i, c := range r.commands {
		names[i] = c.Name
	}
	return names
}

// Commands returns a copy of the registered commands.
func (r *Registry) Commands() []Command {
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Store returns the store the registry reads from.
func (r *Registry) Store() *resume.Store {
	return r.store
}
