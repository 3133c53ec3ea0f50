package publisher

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	"seo_blog_writer/generator"
	"seo_blog_writer/seo"
)

var markdown = goldmark.New(
	goldmark.WithRendererOptions(
		// Heading elements produced by the markup transform pass through as raw HTML.
		html.WithUnsafe(),
	),
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("style").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowStyles("color", "font-weight").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	return p
}

var policy = newPolicy()

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta name="description" content="{{.Description}}">
{{if .Keyphrase}}<meta name="keywords" content="{{.Keyphrase}}">{{end}}
</head>
<body>
<article>
{{.Heading}}
{{.Body}}
</article>
{{if or .Links.Website .Links.Wikipedia}}<footer>
<h2>External Links</h2>
<ul>
{{if .Links.Website}}<li><a href="{{.Links.Website}}">{{.Links.Website}}</a></li>{{end}}
{{if .Links.Wikipedia}}<li><a href="{{.Links.Wikipedia}}">{{.Links.Wikipedia}}</a></li>{{end}}
</ul>
</footer>{{end}}
</body>
</html>
`))

type pageData struct {
	Title       string
	Description string
	Keyphrase   string
	Heading     template.HTML
	Body        template.HTML
	Links       generator.Links
}

// RenderBody converts the transformed article body into sanitized HTML:
// plain lines become paragraphs and heading elements are kept.
func RenderBody(bodyHTML string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(separateHeadings(bodyHTML)), &buf); err != nil {
		return "", fmt.Errorf("render body: %w", err)
	}
	return policy.Sanitize(buf.String()), nil
}

// RenderPage renders a standalone HTML document for article.
func RenderPage(article generator.Article) (string, error) {
	body, err := RenderBody(article.BodyHTML)
	if err != nil {
		return "", err
	}

	title := article.Sections.Get(seo.MetaTitle)
	if title == "" {
		title = article.Sections.Get(seo.H1)
	}
	desc := article.Sections.Get(seo.MetaDescription)
	if desc == "" {
		desc = defaultDigest(article.Sections.Get(seo.FullBlogContent), 160)
	}

	data := pageData{
		Title:       title,
		Description: desc,
		Keyphrase:   article.Sections.Get(seo.FocusKeyphrase),
		Heading:     template.HTML(policy.Sanitize(article.H1HTML)),
		Body:        template.HTML(body),
		Links:       article.Links,
	}
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return buf.String(), nil
}

// separateHeadings puts blank lines around heading elements so markdown
// closes the HTML block before the next paragraph.
func separateHeadings(body string) string {
	lines := strings.Split(body, "\n")
	var b strings.Builder
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isHeadingElement(trimmed) {
			b.WriteString("\n")
			b.WriteString(trimmed)
			b.WriteString("\n\n")
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func isHeadingElement(line string) bool {
	return len(line) > 3 && line[0] == '<' && (line[1] == 'h' || line[1] == 'H') && line[2] >= '1' && line[2] <= '6'
}

// defaultDigest compacts whitespace and cuts md to at most limit runes.
func defaultDigest(md string, limit int) string {
	joined := strings.Join(strings.Fields(md), " ")
	runes := []rune(joined)
	if len(runes) <= limit {
		return joined
	}
	return string(runes[:limit])
}
