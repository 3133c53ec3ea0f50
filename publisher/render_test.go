package publisher

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seo_blog_writer/generator"
	"seo_blog_writer/seo"
)

const reply = `Focus Keyphrase:
cold brew

Slug:
cold-brew-guide

Meta Title:
Cold Brew at Home

Meta Description:
Make smooth cold brew coffee.

H1:
The Cold Brew Guide

Full Blog Content:
Cold brew is easy.
H2: What you need
A jar & coarse grounds.
H3: Ratio
One to eight.`

func sampleArticle(t *testing.T) generator.Article {
	t.Helper()
	a, err := generator.PostProcess(reply, generator.Spec{Topic: "Cold brew", WebsiteLink: "https://example.com"}, generator.DefaultLayout(""))
	require.NoError(t, err)
	return a
}

func TestRenderBody(t *testing.T) {
	got, err := RenderBody(sampleArticle(t).BodyHTML)
	require.NoError(t, err)

	assert.Contains(t, got, "<p>Cold brew is easy.</p>")
	assert.Contains(t, got, "<h2")
	assert.Contains(t, got, "What you need</h2>")
	assert.Contains(t, got, "<p>A jar &amp; coarse grounds.</p>")
	assert.Contains(t, got, "<h3>Ratio</h3>")
	assert.Less(t, strings.Index(got, "What you need"), strings.Index(got, "Ratio"))
}

func TestRenderBody_Sanitizes(t *testing.T) {
	got, err := RenderBody("intro\n\n<script>alert(1)</script>\n\n<h2 onclick=\"x()\">Safe</h2>")
	require.NoError(t, err)

	assert.NotContains(t, got, "<script")
	assert.NotContains(t, got, "onclick")
	assert.Contains(t, got, "Safe</h2>")
}

func TestRenderPage(t *testing.T) {
	page, err := RenderPage(sampleArticle(t))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<title>Cold Brew at Home</title>")
	assert.Contains(t, page, `content="Make smooth cold brew coffee."`)
	assert.Contains(t, page, "The Cold Brew Guide</h1>")
	assert.Contains(t, page, "https://en.wikipedia.org/wiki/Cold_brew")
	assert.Contains(t, page, "External Links")
}

func TestRenderPage_DescriptionFallback(t *testing.T) {
	a := sampleArticle(t)
	a.Sections = seo.NewSectionMap(
		seo.Field{Name: seo.H1, Value: "Only a heading"},
		seo.Field{Name: seo.FullBlogContent, Value: "Body   text\nhere."},
	)
	page, err := RenderPage(a)
	require.NoError(t, err)
	assert.Contains(t, page, "<title>Only a heading</title>")
	assert.Contains(t, page, `content="Body text here."`)
}

func TestRenderMarkdown(t *testing.T) {
	md, err := RenderMarkdown(sampleArticle(t))
	require.NoError(t, err)

	assert.Contains(t, md, "# The Cold Brew Guide")
	assert.Contains(t, md, "## What you need")
	assert.Contains(t, md, "### Ratio")
	assert.Contains(t, md, "Cold brew is easy.")
	assert.Contains(t, md, "https://example.com")
	assert.NotContains(t, md, "<h2")
}

func TestDefaultDigest(t *testing.T) {
	assert.Equal(t, "a b c", defaultDigest(" a\n b   c ", 10))
	assert.Equal(t, "héllo", defaultDigest("héllo world", 5))
}

func TestSeparateHeadings(t *testing.T) {
	got := separateHeadings("a\n<h2>B</h2>\nc")
	assert.Equal(t, "a\n\n<h2>B</h2>\n\nc\n", got)
}

func TestLayoutPDF(t *testing.T) {
	doc := layoutPDF(sampleArticle(t))

	require.Len(t, doc.Pages, 1)
	texts := doc.Pages["1"].Content.Text
	require.NotEmpty(t, texts)
	assert.Equal(t, "The Cold Brew Guide", texts[0].Value)
	assert.Equal(t, pdfFont{Name: "Helvetica-Bold", Size: 20}, texts[0].Font)
	assert.InDelta(t, pageTop-28, texts[0].Pos[1], 0.001)

	var values []string
	for _, tx := range texts {
		values = append(values, tx.Value)
	}
	assert.Contains(t, values, "What you need")
	assert.Contains(t, values, "A jar & coarse grounds.")
	assert.Contains(t, values, "https://example.com")
}

func TestLayoutPDF_Paginates(t *testing.T) {
	a := sampleArticle(t)
	body := strings.Repeat("A line of body text.\n", 200)
	a.Sections = seo.NewSectionMap(seo.Field{Name: seo.FullBlogContent, Value: body})
	a.Links = generator.Links{}

	doc := layoutPDF(a)
	assert.Greater(t, len(doc.Pages), 1)
	total := 0
	for _, p := range doc.Pages {
		for _, tx := range p.Content.Text {
			assert.GreaterOrEqual(t, tx.Pos[1], pageBottom)
			assert.LessOrEqual(t, tx.Pos[1], pageTop)
			total++
		}
	}
	assert.Equal(t, 200, total)
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, []string{"a bb", "ccc"}, wrapText("a bb ccc", 4))
	assert.Equal(t, []string{"abcdefgh", "a"}, wrapText("abcdefgh a", 4))
	assert.Nil(t, wrapText("   ", 4))
}

func TestRenderPDF_WritesSomething(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPDF(sampleArticle(t), &buf)
	if err != nil {
		t.Skipf("pdf backend unavailable: %v", err)
	}
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
