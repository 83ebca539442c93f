package command

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/render"
	"folio/internal/resume"
)

func testDocument() *resume.Document {
	return &resume.Document{
		Personal: resume.Personal{Name: "Ada Example", Title: "Engineer"},
		About:    resume.About{Summary: []string{"Builds things."}},
		Skills: resume.Skills{Categories: []resume.SkillCategory{
			{Name: "Languages", Items: []string{"Go"}},
		}},
		Experience: resume.Experience{Positions: []resume.Position{
			{Title: "Engineer", Company: "Acme", Start: "2020-01", End: "present"},
		}},
		Contact: resume.Contact{Email: "ada@example.com"},
		Banner:  resume.Banner{Lines: []string{" _ ", "|_|"}, Subtitle: "welcome"},
	}
}

func fixedClock() time.Time {
	return time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
}

func newTestRegistry() *Registry {
	return NewRegistry(resume.NewStaticStore(testDocument()), WithClock(fixedClock))
}

// scramble randomizes the letter case of name and pads it with whitespace.
func scramble(r *rand.Rand, name string) string {
	var sb strings.Builder
	pads := []string{"", " ", "  ", "\t", " \t "}
	sb.WriteString(pads[r.IntN(len(pads))])
	for _, c := range name {
		if r.IntN(2) == 0 {
			sb.WriteString(strings.ToUpper(string(c)))
		} else {
			sb.WriteRune(c)
		}
	}
	sb.WriteString(pads[r.IntN(len(pads))])
	return sb.String()
}

func TestResolveIgnoresCaseAndWhitespace(t *testing.T) {
	reg := newTestRegistry()
	rng := rand.New(rand.NewPCG(1, 2))

	for _, name := range reg.Names() {
		want := reg.Resolve(name)
		require.Equal(t, ResultOK, want.Status, name)
		for i := 0; i < 20; i++ {
			raw := scramble(rng, name)
			got := reg.Resolve(raw)
			assert.Equal(t, want, got, "resolve(%q)", raw)
		}
	}
}

func TestResolveUnknownCarriesNormalizedName(t *testing.T) {
	reg := newTestRegistry()
	for _, raw := range []string{"sudo", "  LS -la ", "HELP me", "abouts", "é"} {
		res := reg.Resolve(raw)
		assert.Equal(t, ResultNotFound, res.Status, raw)
		assert.Equal(t, Normalize(raw), res.Name)
		require.NotNil(t, res.Output)
		assert.Equal(t, render.NotFound(Normalize(raw)), *res.Output)
	}
}

func TestResolveEmpty(t *testing.T) {
	reg := newTestRegistry()
	for _, raw := range []string{"", "   ", "\t\n"} {
		res := reg.Resolve(raw)
		assert.Equal(t, ResultEmpty, res.Status)
		assert.Nil(t, res.Output)
	}
}

func TestClearProducesNoOutput(t *testing.T) {
	res := newTestRegistry().Resolve("CLEAR")
	assert.Equal(t, ResultOK, res.Status)
	assert.True(t, res.Clear)
	assert.Nil(t, res.Output)
}

func TestHelpListsEveryCommand(t *testing.T) {
	reg := NewRegistry(nil)
	res := reg.Resolve("help")
	require.NotNil(t, res.Output)
	text := render.PlainText(*res.Output)
	for _, c := range reg.Commands() {
		assert.Contains(t, text, c.Name)
		assert.Contains(t, text, c.Description)
	}
}

func TestSectionsUseTheDocument(t *testing.T) {
	reg := newTestRegistry()

	res := reg.Resolve("experience")
	require.NotNil(t, res.Output)
	assert.Contains(t, render.PlainText(*res.Output), "Jan 2020 - Present (6 years)")

	res = reg.Resolve("banner")
	require.NotNil(t, res.Output)
	assert.Equal(t, render.Banner(testDocument().Banner), *res.Output)
}

func TestPendingStoreDegrades(t *testing.T) {
	reg := NewRegistry(resume.NewStore("unused.yaml"))
	for _, name := range []string{About, Skills, Experience, Projects, Contact, Social, Banner} {
		res := reg.Resolve(name)
		require.NotNil(t, res.Output, name)
		assert.Equal(t, render.NotLoaded(name), *res.Output)
	}
	assert.NotNil(t, reg.Resolve("help").Output)
}

func TestUnavailableStoreDegrades(t *testing.T) {
	store := resume.NewStore(t.TempDir() + "/missing.yaml")
	_, err := store.Load(t.Context())
	require.Error(t, err)

	reg := NewRegistry(store)
	res := reg.Resolve("skills")
	require.NotNil(t, res.Output)
	require.NotEmpty(t, res.Output.Lines)
	assert.Equal(t, render.KindError, res.Output.Lines[0].Kind)
	assert.True(t, errors.Is(err, resume.ErrUnavailable))
}

func TestComplete(t *testing.T) {
	reg := newTestRegistry()

	tests := []struct {
		partial string
		want    []string
	}{
		{"b", []string{"banner"}},
		{"B", []string{"banner"}},
		{"a", []string{"about"}},
		{"s", []string{"skills", "social"}},
		{"c", []string{"contact", "clear"}},
		{"cl", []string{"clear"}},
		{"help", []string{"help"}},
		{"x", nil},
		{"", nil},
		{"   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.partial, func(t *testing.T) {
			assert.Equal(t, tt.want, reg.Complete(tt.partial))
		})
	}
}

func TestRegistryOrderAndLookup(t *testing.T) {
	reg := newTestRegistry()
	assert.Equal(t, []string{
		"help", "about", "skills", "experience", "projects",
		"contact", "social", "clear", "banner",
	}, reg.Names())

	cmd, ok := reg.Lookup(" Banner ")
	require.True(t, ok)
	assert.Equal(t, Banner, cmd.Name)

	_, ok = reg.Lookup("nope")
	assert.False(t, ok)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "not_found", ResultNotFound.String())
	assert.Equal(t, "unknown", Status(42).String())
}
