package seo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Section names used by the blog article layout.
const (
	FocusKeyphrase  = "Focus Keyphrase"
	Slug            = "Slug"
	MetaTitle       = "Meta Title"
	MetaDescription = "Meta Description"
	H1              = "H1"
	FullBlogContent = "Full Blog Content"
)

// DefaultMarkerSyntax turns a section name into "Name:".
const DefaultMarkerSyntax = "%s:"

// BlogSectionNames is the section order requested from the model.
var BlogSectionNames = []string{FocusKeyphrase, Slug, MetaTitle, MetaDescription, H1, FullBlogContent}

// Section pairs a section name with the literal marker that opens it.
type Section struct {
	Name   string
	Marker string
}

// Sections builds one Section per name using syntax, a fmt verb such as
// "%s:" or "### %s:". An empty syntax falls back to DefaultMarkerSyntax.
func Sections(syntax string, names ...string) []Section {
	if syntax == "" {
		syntax = DefaultMarkerSyntax
	}
	out := make([]Section, 0, len(names))
	for _, n := range names {
		out = append(out, Section{Name: n, Marker: fmt.Sprintf(syntax, n)})
	}
	return out
}

// ValidMarkerSyntax reports whether syntax contains exactly one %s verb and no other verbs.
func ValidMarkerSyntax(syntax string) bool {
	return strings.Count(syntax, "%s") == 1 && strings.Count(syntax, "%") == 1
}

// Field is one name/value entry of a SectionMap.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SectionMap is an ordered name -> text mapping.
type SectionMap struct {
	fields []Field
}

// NewSectionMap builds a map from fields, keeping their order.
func NewSectionMap(fields ...Field) SectionMap {
	var m SectionMap
	for _, f := range fields {
		m.set(f.Name, f.Value)
	}
	return m
}

func (m *SectionMap) set(name, value string) {
	for i := range m.fields {
		if m.fields[i].Name == name {
			m.fields[i].Value = value
			return
		}
	}
	m.fields = append(m.fields, Field{Name: name, Value: value})
}

// Get returns the value stored under name, or "".
func (m SectionMap) Get(name string) string {
	v, _ := m.Lookup(name)
	return v
}

// Lookup returns the value under name and whether name was declared.
func (m SectionMap) Lookup(name string) (string, bool) {
	for _, f := range m.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Names returns the declared names in order.
func (m SectionMap) Names() []string {
	names := make([]string, len(m.fields))
	for i, f := range m.fields {
		names[i] = f.Name
	}
	return names
}

// Fields returns a copy of the entries in order.
func (m SectionMap) Fields() []Field {
	out := make([]Field, len(m.fields))
	copy(out, m.fields)
	return out
}

func (m SectionMap) Len() int { return len(m.fields) }

// MarshalJSON encodes the map as a JSON object with keys in declaration order.
func (m SectionMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (m *SectionMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("sections: expected JSON object, got %v", tok)
	}
	m.fields = nil
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("sections: expected string key, got %v", tok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("sections: value for %q: %w", key, err)
		}
		m.set(key, value)
	}
	_, err = dec.Token()
	return err
}

// Extract splits raw into the declared sections.
//
// A section starts right after the first occurrence of its marker and ends
// where the nearest following declared marker begins (its own marker
// included), or at the end of raw. Sections whose marker is absent are "".
// A marker echoed inside prose ends the preceding section early; callers
// get whatever this left-to-right search yields, never an error.
func Extract(raw string, sections []Section) SectionMap {
	var m SectionMap
	for _, s := range sections {
		m.set(s.Name, "")
	}
	for _, s := range sections {
		if s.Marker == "" {
			continue
		}
		start := strings.Index(raw, s.Marker)
		if start < 0 {
			continue
		}
		rest := raw[start+len(s.Marker):]
		end := len(rest)
		for _, other := range sections {
			if other.Marker == "" {
				continue
			}
			if i := strings.Index(rest, other.Marker); i >= 0 && i < end {
				end = i
			}
		}
		m.set(s.Name, strings.TrimSpace(rest[:end]))
	}
	return m
}
