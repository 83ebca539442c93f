package render

import (
	"strings"
	"time"

	"folio/internal/resume"
)

// Section names, shared with the command registry and the site nav.
const (
	SectionAbout      = "about"
	SectionSkills     = "skills"
	SectionExperience = "experience"
	SectionProjects   = "projects"
	SectionContact    = "contact"
	SectionSocial     = "social"
	SectionBanner     = "banner"
	SectionHelp       = "help"
)

// About renders the introduction.
func About(p resume.Personal, a resume.About) Output {
	b := newBuilder(SectionAbout)
	heading := a.Heading
	if strings.TrimSpace(heading) == "" {
		heading = "About"
	}
	b.add(KindHeading, heading)
	b.add(KindSubheading, joinNonEmpty(" · ", p.Name, p.Title))
	b.add(KindMeta, p.Tagline)
	if p.Location != "" {
		b.add(KindMeta, "Based in "+p.Location)
	}
	for _, para := range a.Summary {
		b.blank()
		b.add(KindText, para)
	}
	if len(a.Highlights) > 0 {
		b.blank()
		for _, h := range a.Highlights {
			b.add(KindItem, h)
		}
	}
	return b.done()
}

// Skills renders skill categories.
func Skills(s resume.Skills) Output {
	b := newBuilder(SectionSkills)
	b.add(KindHeading, "Skills")
	for _, cat := range s.Categories {
		items := nonEmpty(cat.Items)
		if len(items) == 0 && strings.TrimSpace(cat.Name) == "" {
			continue
		}
		b.blank()
		b.add(KindSubheading, cat.Name)
		b.add(KindItem, strings.Join(items, ", "))
	}
	return b.done()
}

// Experience renders positions with their durations measured at now.
func Experience(e resume.Experience, now time.Time) Output {
	b := newBuilder(SectionExperience)
	b.add(KindHeading, "Experience")
	for _, pos := range e.Positions {
		b.blank()
		title := pos.Title
		if pos.Company != "" {
			title = joinNonEmpty(" @ ", pos.Title, pos.Company)
		}
		b.add(KindSubheading, title)
		b.add(KindMeta, joinNonEmpty(" ", Period(pos.Start, pos.End), Duration(pos.Start, pos.End, now)))
		b.add(KindMeta, pos.Location)
		for _, s := range pos.Summary {
			b.add(KindItem, s)
		}
		if tech := nonEmpty(pos.Technologies); len(tech) > 0 {
			b.add(KindMeta, "Tech: "+strings.Join(tech, ", "))
		}
	}
	return b.done()
}

// Projects renders showcased projects.
func Projects(p resume.Projects) Output {
	b := newBuilder(SectionProjects)
	b.add(KindHeading, "Projects")
	for _, item := range p.Items {
		b.blank()
		b.add(KindSubheading, item.Name)
		b.add(KindText, item.Description)
		if tech := nonEmpty(item.Technologies); len(tech) > 0 {
			b.add(KindMeta, "Tech: "+strings.Join(tech, ", "))
		}
		b.link("Demo: "+item.URL, item.URL)
		b.link("Code: "+item.Repository, item.Repository)
	}
	return b.done()
}

// Contact renders direct contact details.
func Contact(c resume.Contact) Output {
	b := newBuilder(SectionContact)
	b.add(KindHeading, "Contact")
	b.add(KindText, c.Message)
	if c.Message != "" {
		b.blank()
	}
	b.link("Email: "+c.Email, mailto(c.Email))
	b.link("Phone: "+c.Phone, tel(c.Phone))
	if c.Location != "" {
		b.add(KindMeta, "Location: "+c.Location)
	}
	b.link("Website: "+c.Website, c.Website)
	return b.done()
}

// Social renders external profile links.
func Social(s resume.Social) Output {
	b := newBuilder(SectionSocial)
	b.add(KindHeading, "Social")
	for _, l := range s.Links {
		label := l.Platform
		if label == "" {
			label = l.URL
		}
		text := label + ": " + l.URL
		if l.Handle != "" {
			text += " (@" + strings.TrimPrefix(l.Handle, "@") + ")"
		}
		b.link(text, l.URL)
	}
	return b.done()
}

// Banner renders the monospace art line by line, in the given order and
// without trimming, followed by the subtitle.
func Banner(bn resume.Banner) Output {
	out := Output{Section: SectionBanner}
	for _, line := range bn.Lines {
		out.Lines = append(out.Lines, Line{Kind: KindBanner, Text: line})
	}
	if strings.TrimSpace(bn.Subtitle) != "" {
		out.Lines = append(out.Lines, Line{Kind: KindMuted, Text: bn.Subtitle})
	}
	return out
}

// BannerText joins the banner art with newlines.
func BannerText(bn resume.Banner) string {
	return strings.Join(bn.Lines, "\n")
}

func mailto(email string) string {
	if strings.TrimSpace(email) == "" {
		return ""
	}
	return "mailto:" + email
}

func tel(phone string) string {
	if strings.TrimSpace(phone) == "" {
		return ""
	}
	return "tel:" + strings.ReplaceAll(phone, " ", "")
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			out = append(out, it)
		}
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	return strings.Join(nonEmpty(parts), sep)
}
