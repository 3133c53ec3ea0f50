package generator

import (
	"context"
	"fmt"
	"strings"

	"seo_blog_writer/seo"
)

// MockLLM answers with a canned article in the requested layout, for local
// runs without an API key.
type MockLLM struct {
	MarkerSyntax string
}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	topic := topicFromPrompt(prompt)
	if topic == "" {
		topic = "sample topic"
	}
	sections := seo.Sections(m.MarkerSyntax, seo.BlogSectionNames...)
	values := map[string]string{
		seo.FocusKeyphrase:  topic,
		seo.Slug:            strings.ReplaceAll(strings.ToLower(topic), " ", "-"),
		seo.MetaTitle:       fmt.Sprintf("A practical guide to %s", topic),
		seo.MetaDescription: fmt.Sprintf("Everything you need to know about %s, in one place.", topic),
		seo.H1:              fmt.Sprintf("Getting started with %s", topic),
		seo.FullBlogContent: mockBody(topic),
	}

	var sb strings.Builder
	for _, s := range sections {
		sb.WriteString(s.Marker)
		sb.WriteString("\n")
		sb.WriteString(values[s.Name])
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

func mockBody(topic string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("This article explains %s step by step.\n", topic))
	sb.WriteString("H2: Why it matters\n")
	sb.WriteString(fmt.Sprintf("Readers who learn %s save time and avoid common mistakes.\n", topic))
	sb.WriteString("H2: How to begin\n")
	sb.WriteString("Start small, measure results and keep notes.\n")
	return sb.String()
}
