package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"seo_blog_writer/generator"
	"seo_blog_writer/seo"
)

const (
	ansiBold  = "\033[1m"
	ansiRed   = "\033[31m"
	ansiReset = "\033[0m"
)

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// printArticle writes every section, a heading preview, the external links
// and the score table.
func printArticle(w io.Writer, article generator.Article) {
	colorize := shouldColorize(w)
	for _, f := range article.Sections.Fields() {
		if f.Name == seo.FullBlogContent {
			continue
		}
		fmt.Fprintf(w, "%s:\n%s\n\n", f.Name, f.Value)
	}

	fmt.Fprintf(w, "%s:\n", seo.FullBlogContent)
	for _, line := range strings.Split(article.Sections.Get(seo.FullBlogContent), "\n") {
		fmt.Fprintln(w, previewLine(line, colorize))
	}
	fmt.Fprintln(w)

	if article.Links.Website != "" || article.Links.Wikipedia != "" {
		fmt.Fprintln(w, "External Links:")
		if article.Links.Website != "" {
			fmt.Fprintf(w, "  Website:   %s\n", article.Links.Website)
		}
		if article.Links.Wikipedia != "" {
			fmt.Fprintf(w, "  Wikipedia: %s\n", article.Links.Wikipedia)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, renderScore(article.Report))
}

// previewLine highlights heading lines the way the HTML output styles them.
func previewLine(line string, colorize bool) string {
	if !colorize {
		return line
	}
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, "H2:"):
		return ansiBold + ansiRed + strings.TrimSpace(strings.TrimPrefix(trimmed, "H2:")) + ansiReset
	case strings.HasPrefix(trimmed, "H1:"), strings.HasPrefix(trimmed, "H3:"):
		return ansiBold + strings.TrimSpace(trimmed[3:]) + ansiReset
	}
	return line
}

func renderScore(r seo.Report) string {
	var rows [][]string
	for _, m := range r.Metrics() {
		rows = append(rows, []string{m.Name, strconv.FormatFloat(m.Value, 'f', -1, 64)})
	}
	return renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}
