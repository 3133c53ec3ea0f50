package publisher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"seo_blog_writer/generator"
	"seo_blog_writer/seo"
)

// A4 portrait in points, origin lower left.
const (
	pageTop      = 800.0
	pageBottom   = 60.0
	pageLeft     = 50.0
	bodyFontSize = 11
	wrapColumns  = 95
)

var headingSizes = map[string]int{
	"H1": 20,
	"H2": 15,
	"H3": 13,
}

// pdfcpu JSON page description.
type pdfDoc struct {
	Paper string             `json:"paper"`
	Pages map[string]pdfPage `json:"pages"`
}

type pdfPage struct {
	Content pdfContent `json:"content"`
}

type pdfContent struct {
	Text []pdfText `json:"text"`
}

type pdfText struct {
	Value string     `json:"value"`
	Pos   [2]float64 `json:"pos"`
	Font  pdfFont    `json:"font"`
}

type pdfFont struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// RenderPDF writes article as a paged PDF to w.
func RenderPDF(article generator.Article, w io.Writer) error {
	doc := layoutPDF(article)
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode pdf layout: %w", err)
	}
	conf := model.NewDefaultConfiguration()
	if err := api.Create(nil, bytes.NewReader(data), w, conf); err != nil {
		return fmt.Errorf("pdfcpu create: %w", err)
	}
	return nil
}

type pdfLine struct {
	text string
	size int
	bold bool
}

func layoutPDF(article generator.Article) pdfDoc {
	var lines []pdfLine
	if h1 := article.Sections.Get(seo.H1); h1 != "" {
		lines = append(lines, pdfLine{text: h1, size: headingSizes["H1"], bold: true}, pdfLine{})
	}
	for _, raw := range strings.Split(article.Sections.Get(seo.FullBlogContent), "\n") {
		line := strings.TrimSpace(raw)
		if level, text, ok := headingLine(line); ok {
			lines = append(lines, pdfLine{}, pdfLine{text: text, size: headingSizes[level], bold: true})
			continue
		}
		if line == "" {
			lines = append(lines, pdfLine{})
			continue
		}
		for _, wrapped := range wrapText(line, wrapColumns) {
			lines = append(lines, pdfLine{text: wrapped, size: bodyFontSize})
		}
	}
	links := []string{article.Links.Website, article.Links.Wikipedia}
	if links[0] != "" || links[1] != "" {
		lines = append(lines, pdfLine{}, pdfLine{text: "External Links", size: headingSizes["H2"], bold: true})
		for _, l := range links {
			if l != "" {
				lines = append(lines, pdfLine{text: l, size: bodyFontSize})
			}
		}
	}

	doc := pdfDoc{Paper: "A4P", Pages: map[string]pdfPage{}}
	pageNr, y := 1, pageTop
	var page pdfPage
	for _, l := range lines {
		size := l.size
		if size == 0 {
			size = bodyFontSize
		}
		step := float64(size) * 1.4
		if y-step < pageBottom {
			doc.Pages[strconv.Itoa(pageNr)] = page
			pageNr++
			page = pdfPage{}
			y = pageTop
		}
		y -= step
		if l.text == "" {
			continue
		}
		font := "Helvetica"
		if l.bold {
			font = "Helvetica-Bold"
		}
		page.Content.Text = append(page.Content.Text, pdfText{
			Value: l.text,
			Pos:   [2]float64{pageLeft, y},
			Font:  pdfFont{Name: font, Size: size},
		})
	}
	doc.Pages[strconv.Itoa(pageNr)] = page
	return doc
}

func headingLine(line string) (string, string, bool) {
	for _, lv := range seo.DefaultLevels {
		if rest, ok := strings.CutPrefix(line, lv.Prefix()); ok {
			if text := strings.TrimSpace(rest); text != "" {
				return lv.Name, text, true
			}
		}
	}
	return "", "", false
}

// wrapText breaks s into lines of at most width runes, splitting on spaces.
// Words longer than width get a line of their own.
func wrapText(s string, width int) []string {
	var out []string
	var cur []string
	n := 0
	for _, word := range strings.Fields(s) {
		wl := len([]rune(word))
		if n > 0 && n+1+wl > width {
			out = append(out, strings.Join(cur, " "))
			cur, n = nil, 0
		}
		if n > 0 {
			n++
		}
		cur = append(cur, word)
		n += wl
	}
	if len(cur) > 0 {
		out = append(out, strings.Join(cur, " "))
	}
	return out
}
