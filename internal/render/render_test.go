package render

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/resume"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 15, 12, 0, 0, 0, time.UTC)
}

func TestDuration(t *testing.T) {
	now := month(2026, time.October)
	tests := []struct {
		name       string
		start, end string
		want       string
	}{
		{"same month floors to one month", "2021-03", "2021-03", "(1 month)"},
		{"borrow across year", "2019-06", "2022-01", "(2 years 7 months)"},
		{"exact year singular", "2020-01", "2021-01", "(1 year)"},
		{"one year one month", "2020-01", "2021-02", "(1 year 1 month)"},
		{"months only", "2020-01", "2020-08", "(7 months)"},
		{"ongoing reports years only", "2020-01", "present", "(6 years)"},
		{"ongoing sentinel is case-insensitive", "2020-01", "Present", "(6 years)"},
		{"ongoing under a year is empty", "2026-03", "present", ""},
		{"ongoing same month is empty", "2026-10", "present", ""},
		{"ongoing single year", "2025-09", "present", "(1 year)"},
		{"inverted range", "2022-01", "2021-01", ""},
		{"bad start", "soon", "2021-01", ""},
		{"bad end", "2021-01", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Duration(tt.start, tt.end, now))
		})
	}
}

func TestPeriod(t *testing.T) {
	assert.Equal(t, "Mar 2021 - Present", Period("2021-03", "present"))
	assert.Equal(t, "Jun 2019 - Jan 2022", Period("2019-06", "2022-01"))
	assert.Equal(t, "Summer 2019", Period("Summer 2019", ""))
	assert.Equal(t, "", Period("", ""))
}

func TestBannerPreservesOrderAndSpacing(t *testing.T) {
	bn := resume.Banner{
		Lines:    []string{"  /\\  ", " /  \\ ", "/____\\"},
		Subtitle: "hi",
	}
	out := Banner(bn)
	require.Len(t, out.Lines, 4)
	for i, want := range bn.Lines {
		assert.Equal(t, KindBanner, out.Lines[i].Kind)
		assert.Equal(t, want, out.Lines[i].Text)
	}
	assert.Equal(t, "  /\\  \n /  \\ \n/____\\", BannerText(bn))
}

func TestAboutToleratesMissingFields(t *testing.T) {
	out := About(resume.Personal{}, resume.About{})
	assert.Equal(t, SectionAbout, out.Section)
	assert.Equal(t, []Line{{Kind: KindHeading, Text: "About"}}, out.Lines)

	out = About(resume.Personal{Name: "Ada"}, resume.About{Summary: []string{"one", "", "two"}})
	texts := []string{}
	for _, l := range out.Lines {
		if l.Kind != KindBlank {
			texts = append(texts, l.Text)
		}
	}
	assert.Equal(t, []string{"About", "Ada", "one", "two"}, texts)
	for i := 1; i < len(out.Lines); i++ {
		assert.False(t, out.Lines[i].Kind == KindBlank && out.Lines[i-1].Kind == KindBlank, "no doubled blanks")
	}
}

func TestExperience(t *testing.T) {
	e := resume.Experience{Positions: []resume.Position{
		{Title: "Engineer", Company: "Acme", Start: "2019-06", End: "2022-01", Summary: []string{"Shipped"}, Technologies: []string{"Go"}},
		{Title: "Lead", Start: "2024-01", End: "present"},
	}}
	out := Experience(e, month(2026, time.February))

	want := []Line{
		{Kind: KindHeading, Text: "Experience"},
		{Kind: KindBlank},
		{Kind: KindSubheading, Text: "Engineer @ Acme"},
		{Kind: KindMeta, Text: "Jun 2019 - Jan 2022 (2 years 7 months)"},
		{Kind: KindItem, Text: "Shipped"},
		{Kind: KindMeta, Text: "Tech: Go"},
		{Kind: KindBlank},
		{Kind: KindSubheading, Text: "Lead"},
		{Kind: KindMeta, Text: "Jan 2024 - Present (2 years)"},
	}
	if diff := cmp.Diff(want, out.Lines); diff != "" {
		t.Errorf("Experience() mismatch (-want +got):\n%s", diff)
	}
}

func TestSkillsSkipsEmptyCategories(t *testing.T) {
	out := Skills(resume.Skills{Categories: []resume.SkillCategory{
		{Name: "Languages", Items: []string{"Go", "", "SQL"}},
		{},
	}})
	want := []Line{
		{Kind: KindHeading, Text: "Skills"},
		{Kind: KindBlank},
		{Kind: KindSubheading, Text: "Languages"},
		{Kind: KindItem, Text: "Go, SQL"},
	}
	assert.Equal(t, want, out.Lines)
}

func TestContactAndSocialLinks(t *testing.T) {
	out := Contact(resume.Contact{Email: "a@b.c", Phone: "+1 555 0100"})
	require.Len(t, out.Lines, 3)
	assert.Equal(t, "mailto:a@b.c", out.Lines[1].Href)
	assert.Equal(t, "tel:+15550100", out.Lines[2].Href)

	out = Social(resume.Social{Links: []resume.Link{{Platform: "GitHub", URL: "https://github.com/x", Handle: "@x"}}})
	require.Len(t, out.Lines, 2)
	assert.Equal(t, "GitHub: https://github.com/x (@x)", out.Lines[1].Text)
	assert.Equal(t, "https://github.com/x", out.Lines[1].Href)
}

func TestProjectsOmitMissingLinks(t *testing.T) {
	out := Projects(resume.Projects{Items: []resume.Project{{Name: "tinyq"}}})
	for _, l := range out.Lines {
		assert.NotEqual(t, KindLink, l.Kind)
	}
}

func TestHelpAligned(t *testing.T) {
	out := Help([]HelpEntry{{"help", "Show help"}, {"experience", "Work history"}})
	assert.Equal(t, "help        Show help", out.Lines[1].Text)
	assert.Equal(t, "experience  Work history", out.Lines[2].Text)
}

func TestStatusBlocks(t *testing.T) {
	nf := NotFound("sudo")
	assert.Equal(t, "command not found: sudo", nf.Lines[0].Text)
	assert.Contains(t, nf.Lines[1].Text, "help")

	un := Unavailable("skills", errors.New("boom"))
	assert.Equal(t, "skills", un.Section)
	assert.Equal(t, KindError, un.Lines[0].Kind)
	assert.Contains(t, un.Lines[0].Text, "boom")

	nl := NotLoaded("about")
	assert.Contains(t, nl.Lines[0].Text, "still loading")

	assert.Equal(t, "$ about", Echo("$", "about").Text)
	assert.True(t, Candidates(nil).Empty())
	assert.Equal(t, "about  banner", Candidates([]string{"about", "banner"}).Lines[0].Text)
}

func TestMarkdown(t *testing.T) {
	out := Output{Lines: []Line{
		{Kind: KindBanner, Text: " /\\ "},
		{Kind: KindBanner, Text: "/  \\"},
		{Kind: KindHeading, Text: "Skills"},
		{Kind: KindBlank},
		{Kind: KindItem, Text: "Go"},
		{Kind: KindItem, Text: "SQL"},
		{Kind: KindLink, Text: "Site", Href: "https://example.com"},
	}}
	want := strings.Join([]string{
		"```",
		" /\\ ",
		"/  \\",
		"```",
		"",
		"## Skills",
		"",
		"- Go",
		"- SQL",
		"",
		"[Site](https://example.com)",
		"",
	}, "\n")
	assert.Equal(t, want, Markdown(out))
}

func TestPlainText(t *testing.T) {
	out := Output{Lines: []Line{
		{Kind: KindHeading, Text: "Skills"},
		{Kind: KindItem, Text: "Go"},
		{Kind: KindBlank},
		{Kind: KindLink, Text: "Site", Href: "https://example.com"},
	}}
	assert.Equal(t, "Skills\n  • Go\n\n  Site", PlainText(out))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "banner", KindBanner.String())
	assert.Equal(t, "text", Kind(99).String())
}
