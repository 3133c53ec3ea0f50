package generator

import (
	"errors"
	"net/url"
	"strings"

	"seo_blog_writer/seo"
)

const wikipediaBase = "https://en.wikipedia.org/wiki/"

// PostProcess splits the reply into sections, renders headings and scores the body.
func PostProcess(raw string, spec Spec, layout Layout) (Article, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Article{}, errors.New("model returned empty reply")
	}
	text = stripMarkdownNoise(text, layout.stripsHash())

	sections := seo.Extract(text, layout.Sections)

	var h1HTML string
	if h1 := sections.Get(seo.H1); h1 != "" {
		level, ok := seo.FindLevel(layout.Levels, seo.H1)
		if !ok {
			level = seo.Level{Name: seo.H1, Tag: "h1"}
		}
		h1HTML = level.Render(h1)
	}

	body := sections.Get(seo.FullBlogContent)
	bodyHTML := seo.TransformHeadings(body, layout.bodyLevels())
	bodyHTML = strings.ReplaceAll(bodyHTML, seo.H1+":", "")

	report := layout.Rules.Score(
		body,
		sections.Get(seo.FocusKeyphrase),
		sections.Get(seo.MetaTitle),
		sections.Get(seo.MetaDescription),
	)

	return Article{
		Topic:    spec.Topic,
		Sections: sections,
		H1HTML:   h1HTML,
		BodyHTML: bodyHTML,
		Report:   report,
		Links: Links{
			Website:   strings.TrimSpace(spec.WebsiteLink),
			Wikipedia: WikipediaLink(spec.Topic),
		},
		Raw: raw,
	}, nil
}

// WikipediaLink guesses the English Wikipedia page for topic.
func WikipediaLink(topic string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return ""
	}
	return wikipediaBase + url.PathEscape(strings.ReplaceAll(topic, " ", "_"))
}

// Models like to decorate plain-text replies with markdown emphasis.
func stripMarkdownNoise(text string, hash bool) string {
	text = strings.ReplaceAll(text, "*", "")
	if hash {
		text = strings.ReplaceAll(text, "#", "")
	}
	return text
}
