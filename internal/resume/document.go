// Package resume holds the portfolio document and the store that loads it.
//
// A Document is decoded once from YAML or JSON and never mutated afterwards.
// Every consumer (terminal renderers, the HTML site, the MCP tools) reads it
// through a Store snapshot and must degrade when the store is not ready.
package resume

// Document is the full portfolio configuration.
type Document struct {
	Personal   Personal   `yaml:"personal" json:"personal"`
	About      About      `yaml:"about" json:"about"`
	Skills     Skills     `yaml:"skills" json:"skills"`
	Experience Experience `yaml:"experience" json:"experience"`
	Projects   Projects   `yaml:"projects" json:"projects"`
	Contact    Contact    `yaml:"contact" json:"contact"`
	Social     Social     `yaml:"social" json:"social"`
	Banner     Banner     `yaml:"banner" json:"banner"`
}

// Personal identifies the portfolio owner.
type Personal struct {
	Name     string `yaml:"name" json:"name"`
	Title    string `yaml:"title" json:"title"`
	Tagline  string `yaml:"tagline,omitempty" json:"tagline,omitempty"`
	Location string `yaml:"location,omitempty" json:"location,omitempty"`
}

// About is the free-form introduction. Summary paragraphs may contain inline
// Markdown; the terminal shows them verbatim.
type About struct {
	Heading    string   `yaml:"heading,omitempty" json:"heading,omitempty"`
	Summary    []string `yaml:"summary,omitempty" json:"summary,omitempty"`
	Highlights []string `yaml:"highlights,omitempty" json:"highlights,omitempty"`
}

// Skills groups skill items by category.
type Skills struct {
	Categories []SkillCategory `yaml:"categories" json:"categories"`
}

// SkillCategory is one named group of skills.
type SkillCategory struct {
	Name  string   `yaml:"name" json:"name"`
	Items []string `yaml:"items" json:"items"`
}

// Experience lists positions, most recent first by convention.
type Experience struct {
	Positions []Position `yaml:"positions" json:"positions"`
}

// Position is one job. Start and End are "YYYY-MM"; End may be "present".
type Position struct {
	Title        string   `yaml:"title" json:"title"`
	Company      string   `yaml:"company" json:"company"`
	Location     string   `yaml:"location,omitempty" json:"location,omitempty"`
	Start        string   `yaml:"start" json:"start"`
	End          string   `yaml:"end" json:"end"`
	Summary      []string `yaml:"summary,omitempty" json:"summary,omitempty"`
	Technologies []string `yaml:"technologies,omitempty" json:"technologies,omitempty"`
}

// Projects lists showcased projects.
type Projects struct {
	Items []Project `yaml:"items" json:"items"`
}

// Project is one showcased project.
type Project struct {
	Name         string   `yaml:"name" json:"name"`
	Description  string   `yaml:"description,omitempty" json:"description,omitempty"`
	URL          string   `yaml:"url,omitempty" json:"url,omitempty"`
	Repository   string   `yaml:"repository,omitempty" json:"repository,omitempty"`
	Technologies []string `yaml:"technologies,omitempty" json:"technologies,omitempty"`
}

// Contact holds direct contact details.
type Contact struct {
	Email    string `yaml:"email,omitempty" json:"email,omitempty"`
	Phone    string `yaml:"phone,omitempty" json:"phone,omitempty"`
	Location string `yaml:"location,omitempty" json:"location,omitempty"`
	Website  string `yaml:"website,omitempty" json:"website,omitempty"`
	Message  string `yaml:"message,omitempty" json:"message,omitempty"`
}

// Social lists external profiles.
type Social struct {
	Links []Link `yaml:"links" json:"links"`
}

// Link is one external profile.
type Link struct {
	Platform string `yaml:"platform" json:"platform"`
	URL      string `yaml:"url" json:"url"`
	Handle   string `yaml:"handle,omitempty" json:"handle,omitempty"`
}

// Banner is the monospace art shown when a session starts.
type Banner struct {
	Lines    []string `yaml:"lines" json:"lines"`
	Subtitle string   `yaml:"subtitle,omitempty" json:"subtitle,omitempty"`
}
