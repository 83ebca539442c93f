// Package site renders the resume as a single-page HTML portfolio and writes
// the static build: the page, its assets and the resume document it was
// rendered from.
package site

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"folio/internal/config"
	"folio/internal/logging"
	"folio/internal/render"
	"folio/internal/resume"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed assets/*
var assetFS embed.FS

// Asset names served next to the page.
const (
	IndexFile  = "index.html"
	CSSFile    = "site.css"
	ScriptFile = "terminal.js"
	JSONFile   = "config.json"
	YAMLFile   = "config.yaml"
)

// sectionOrder is the page and nav order.
var sectionOrder = []string{
	render.SectionAbout,
	render.SectionSkills,
	render.SectionExperience,
	render.SectionProjects,
	render.SectionContact,
	render.SectionSocial,
}

// Options configures page generation.
type Options struct {
	Title  string
	Theme  string
	Prompt string
	Scroll config.ScrollConfig
	// WSPath enables the live terminal; empty for static builds.
	WSPath string
	Now    func() time.Time
}

// Builder renders pages. It is safe for concurrent use.
type Builder struct {
	opts Options
	tmpl *template.Template
	md   goldmark.Markdown
	lang language.Tag
}

// NewBuilder parses the page template.
func NewBuilder(opts Options) (*Builder, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Theme == "" {
		opts.Theme = "dark"
	}
	if opts.Scroll == (config.ScrollConfig{}) {
		opts.Scroll = config.DefaultConfig().Scroll
	}

	b := &Builder{
		opts: opts,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
		lang: language.English,
	}

	tmpl, err := template.New("index.html.tmpl").Funcs(template.FuncMap{
		"join": strings.Join,
		"tel":  telHref,
	}).ParseFS(templateFS, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	b.tmpl = tmpl
	return b, nil
}

type navItem struct {
	ID    string
	Label string
}

type aboutView struct {
	Heading    string
	Paragraphs []template.HTML
	Highlights []string
}

type positionView struct {
	Title        string
	Company      string
	Location     string
	Start        string
	End          string
	Period       string
	Duration     string
	Summary      []string
	Technologies []string
}

type projectView struct {
	Name         string
	Description  template.HTML
	URL          string
	Repository   string
	Technologies []string
}

type pageData struct {
	Title      string
	Theme      string
	Prompt     string
	WSPath     string
	Scroll     config.ScrollConfig
	Personal   resume.Personal
	BannerText string
	Subtitle   string
	Nav        []navItem
	About      *aboutView
	Skills     []resume.SkillCategory
	Positions  []positionView
	Projects   []projectView
	Contact    *resume.Contact
	Social     []resume.Link
	Generated  string
}

// Render writes the page for doc to w.
func (b *Builder) Render(w io.Writer, doc *resume.Document) error {
	if doc == nil {
		doc = &resume.Document{}
	}
	data := b.view(doc)
	if err := b.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

func (b *Builder) view(doc *resume.Document) pageData {
	now := b.opts.Now()
	title := b.opts.Title
	if title == "" {
		title = strings.TrimSpace(strings.Join([]string{doc.Personal.Name, doc.Personal.Title}, " · "))
		title = strings.Trim(title, " ·")
	}
	if title == "" {
		title = "Portfolio"
	}

	d := pageData{
		Title:      title,
		Theme:      b.opts.Theme,
		Prompt:     b.opts.Prompt,
		WSPath:     b.opts.WSPath,
		Scroll:     b.opts.Scroll,
		Personal:   doc.Personal,
		BannerText: render.BannerText(doc.Banner),
		Subtitle:   doc.Banner.Subtitle,
		Generated:  now.UTC().Format("2006-01-02"),
	}

	if len(doc.About.Summary) > 0 || len(doc.About.Highlights) > 0 {
		heading := doc.About.Heading
		if strings.TrimSpace(heading) == "" {
			heading = "About"
		}
		a := &aboutView{Heading: heading, Highlights: doc.About.Highlights}
		for _, p := range doc.About.Summary {
			if strings.TrimSpace(p) != "" {
				a.Paragraphs = append(a.Paragraphs, b.markdown(p))
			}
		}
		d.About = a
	}

	for _, cat := range doc.Skills.Categories {
		if len(cat.Items) > 0 {
			d.Skills = append(d.Skills, cat)
		}
	}

	for _, pos := range doc.Experience.Positions {
		d.Positions = append(d.Positions, positionView{
			Title:        pos.Title,
			Company:      pos.Company,
			Location:     pos.Location,
			Start:        pos.Start,
			End:          pos.End,
			Period:       render.Period(pos.Start, pos.End),
			Duration:     render.Duration(pos.Start, pos.End, now),
			Summary:      pos.Summary,
			Technologies: pos.Technologies,
		})
	}

	for _, p := range doc.Projects.Items {
		d.Projects = append(d.Projects, projectView{
			Name:         p.Name,
			Description:  b.markdown(p.Description),
			URL:          p.URL,
			Repository:   p.Repository,
			Technologies: p.Technologies,
		})
	}

	if doc.Contact != (resume.Contact{}) {
		c := doc.Contact
		d.Contact = &c
	}
	for _, l := range doc.Social.Links {
		if l.URL != "" {
			d.Social = append(d.Social, l)
		}
	}

	present := map[string]bool{
		render.SectionAbout:      d.About != nil,
		render.SectionSkills:     len(d.Skills) > 0,
		render.SectionExperience: len(d.Positions) > 0,
		render.SectionProjects:   len(d.Projects) > 0,
		render.SectionContact:    d.Contact != nil,
		render.SectionSocial:     len(d.Social) > 0,
	}
	// Casers keep state, so each render gets its own.
	caser := cases.Title(b.lang)
	for _, id := range sectionOrder {
		if present[id] {
			d.Nav = append(d.Nav, navItem{ID: id, Label: caser.String(id)})
		}
	}
	return d
}

// markdown renders Markdown. goldmark drops raw HTML from the source.
func (b *Builder) markdown(src string) template.HTML {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := b.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
	}
	return template.HTML(buf.String())
}

// NavIDs returns the section IDs that appear in the page nav for doc.
func (b *Builder) NavIDs(doc *resume.Document) []string {
	var ids []string
	for _, n := range b.view(doc).Nav {
		ids = append(ids, n.ID)
	}
	return ids
}

// Asset returns an embedded asset by file name.
func Asset(name string) ([]byte, error) {
	return assetFS.ReadFile("assets/" + name)
}

// Build writes the static site into dir and returns the written paths.
func (b *Builder) Build(dir string, doc *resume.Document) ([]string, error) {
	timer := logging.StartTimer(logging.CategorySite, "site build")
	defer timer.Stop()

	if doc == nil {
		doc = &resume.Document{}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var page bytes.Buffer
	if err := b.Render(&page, doc); err != nil {
		return nil, err
	}

	jsonDoc, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode config.json: %w", err)
	}
	yamlDoc, err := resume.Marshal(doc)
	if err != nil {
		return nil, err
	}
	css, err := Asset(CSSFile)
	if err != nil {
		return nil, err
	}
	js, err := Asset(ScriptFile)
	if err != nil {
		return nil, err
	}

	files := []struct {
		name string
		data []byte
	}{
		{IndexFile, page.Bytes()},
		{JSONFile, jsonDoc},
		{YAMLFile, yamlDoc},
		{CSSFile, css},
		{ScriptFile, js},
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, f.data, 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		written = append(written, path)
	}
	logging.Site("built %d files into %s", len(written), dir)
	return written, nil
}

func telHref(phone string) template.URL {
	return template.URL("tel:" + strings.ReplaceAll(phone, " ", ""))
}
