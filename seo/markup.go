package seo

import (
	"fmt"
	"html"
	"strings"
)

// Level describes one recognized heading prefix, e.g. "H2:" rendered as <h2>.
type Level struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Tag   string `json:"tag" yaml:"tag" toml:"tag"`
	Style string `json:"style,omitempty" yaml:"style,omitempty" toml:"style,omitempty"`
}

// DefaultLevels mirrors the article styling: black bold H1, red H2.
var DefaultLevels = []Level{
	{Name: "H1", Tag: "h1", Style: "color:black; font-weight:bold;"},
	{Name: "H2", Tag: "h2", Style: "color:red;"},
	{Name: "H3", Tag: "h3"},
}

// Prefix is the line prefix that marks this level, e.g. "H2:".
func (l Level) Prefix() string { return l.Name + ":" }

// Render wraps text in the level's heading element. Text is HTML-escaped.
func (l Level) Render(text string) string {
	tag := l.Tag
	if tag == "" {
		tag = strings.ToLower(l.Name)
	}
	text = html.EscapeString(strings.TrimSpace(text))
	if l.Style == "" {
		return fmt.Sprintf("<%s>%s</%s>", tag, text, tag)
	}
	return fmt.Sprintf(`<%s style="%s">%s</%s>`, tag, html.EscapeString(l.Style), text, tag)
}

func (l Level) match(line string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimLeft(line, " \t"), l.Prefix())
	if !ok {
		return "", false
	}
	text := strings.TrimSpace(rest)
	if text == "" {
		return "", false
	}
	return text, true
}

// FindLevel returns the level named name (case-sensitive) from levels.
func FindLevel(levels []Level, name string) (Level, bool) {
	for _, l := range levels {
		if l.Name == name {
			return l, true
		}
	}
	return Level{}, false
}

// SelectLevels returns the entries of levels whose names are listed, in levels order.
func SelectLevels(levels []Level, names ...string) []Level {
	var out []Level
	for _, l := range levels {
		for _, n := range names {
			if l.Name == n {
				out = append(out, l)
				break
			}
		}
	}
	return out
}

// TransformHeadings replaces every line of the form "<Level>: text" with the
// level's heading element. Other lines pass through untouched and line order
// is kept. Converted lines lose their prefix, so a second pass is a no-op.
func TransformHeadings(text string, levels []Level) string {
	if len(levels) == 0 || text == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		for _, l := range levels {
			if heading, ok := l.match(line); ok {
				lines[i] = l.Render(heading)
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}
