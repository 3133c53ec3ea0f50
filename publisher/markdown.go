package publisher

import (
	"fmt"
	"html"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"

	"seo_blog_writer/generator"
)

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// HTMLToMarkdown converts an HTML fragment to CommonMark.
func HTMLToMarkdown(fragment string) (string, error) {
	md, err := mdConverter.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("html to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

// RenderMarkdown renders article as a Markdown document with its heading,
// body and external links.
func RenderMarkdown(article generator.Article) (string, error) {
	body, err := RenderBody(article.BodyHTML)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(article.H1HTML)
	b.WriteString("\n")
	b.WriteString(body)
	if article.Links.Website != "" || article.Links.Wikipedia != "" {
		b.WriteString("<h2>External Links</h2><ul>")
		for _, link := range []string{article.Links.Website, article.Links.Wikipedia} {
			if link != "" {
				fmt.Fprintf(&b, `<li><a href="%[1]s">%[1]s</a></li>`, html.EscapeString(link))
			}
		}
		b.WriteString("</ul>")
	}
	return HTMLToMarkdown(b.String())
}
