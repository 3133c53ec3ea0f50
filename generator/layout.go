package generator

import (
	"strings"

	"seo_blog_writer/seo"
)

// Layout is the reply format the model is asked to follow and the rules used
// to post-process it.
type Layout struct {
	MarkerSyntax string
	Sections     []seo.Section
	Levels       []seo.Level
	Rules        seo.Rules
}

// DefaultLayout uses the blog sections with the given marker syntax.
func DefaultLayout(markerSyntax string) Layout {
	if markerSyntax == "" {
		markerSyntax = seo.DefaultMarkerSyntax
	}
	return Layout{
		MarkerSyntax: markerSyntax,
		Sections:     seo.Sections(markerSyntax, seo.BlogSectionNames...),
		Levels:       seo.DefaultLevels,
		Rules:        seo.DefaultRules(),
	}
}

// marker returns the marker declared for name, falling back to the syntax.
func (l Layout) marker(name string) string {
	for _, s := range l.Sections {
		if s.Name == name {
			return s.Marker
		}
	}
	return seo.Sections(l.MarkerSyntax, name)[0].Marker
}

// stripsHash reports whether '#' can be dropped from replies without
// destroying the section markers.
func (l Layout) stripsHash() bool {
	for _, s := range l.Sections {
		if strings.Contains(s.Marker, "#") {
			return false
		}
	}
	return true
}

// bodyLevels are the heading levels converted inside the article body. H1
// is rendered separately from its own section.
func (l Layout) bodyLevels() []seo.Level {
	var out []seo.Level
	for _, lv := range l.Levels {
		if lv.Name != seo.H1 {
			out = append(out, lv)
		}
	}
	return out
}
