package generator

import (
	"fmt"
	"strings"

	"seo_blog_writer/seo"
)

// DefaultWords is the article length requested when Spec.Words is unset.
const DefaultWords = 1200

// Prompt is the message set sent to the LLM.
type Prompt struct {
	System  string
	User    string
	History []Message
}

// Message is one prior chat message.
type Message struct {
	Role    string
	Content string
}

const systemPrompt = "You are an SEO copywriter. Reply in plain text only and follow the requested format exactly, without commentary."

var sectionHints = map[string]string{
	seo.FocusKeyphrase:  "(text)",
	seo.Slug:            "(text)",
	seo.MetaTitle:       "(text, at most 60 characters)",
	seo.MetaDescription: "(text, at most 160 characters)",
	seo.H1:              "(text)",
	seo.FullBlogContent: "(full article, headings only as H2: and H3: lines)",
}

// BuildInitialPrompt builds the first-draft prompt.
func BuildInitialPrompt(spec Spec, layout Layout) Prompt {
	words := spec.Words
	if words <= 0 {
		words = DefaultWords
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Topic: %s\n", spec.Topic))
	sb.WriteString(fmt.Sprintf("Write a %d-word SEO-optimized blog article on %q.\n\n", words, spec.Topic))
	sb.WriteString("RULES:\n")
	sb.WriteString("- No markdown: no *, no #, no **.\n")
	sb.WriteString("- Use plain text.\n")
	sb.WriteString(fmt.Sprintf("- The title goes only in the %s section.\n", layout.marker(seo.H1)))
	sb.WriteString("- Each H2 must be written as: H2: Heading Text\n")
	sb.WriteString("- Each H3 must be written as: H3: Heading Text\n")
	if spec.RequiredLine != "" {
		sb.WriteString(fmt.Sprintf("- First 100 words MUST contain: %q\n", spec.RequiredLine))
	}
	sb.WriteString("\n")
	writeFormat(&sb, layout)

	return Prompt{
		System: systemPrompt,
		User:   sb.String(),
	}
}

// BuildRevisionPrompt builds a prompt that revises prev according to comment.
func BuildRevisionPrompt(spec Spec, layout Layout, prev Article, comment string, history []Turn) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Topic: %s\n", spec.Topic))
	sb.WriteString("Revise the article below with the smallest changes that satisfy the feedback.\n")
	sb.WriteString("- Keep plain text and the H2:/H3: heading lines.\n")
	if spec.RequiredLine != "" {
		sb.WriteString(fmt.Sprintf("- First 100 words MUST still contain: %q\n", spec.RequiredLine))
	}
	sb.WriteString(fmt.Sprintf("\nFeedback: %s\n\nCurrent article:\n", comment))
	for _, f := range prev.Sections.Fields() {
		sb.WriteString(layout.marker(f.Name))
		sb.WriteString("\n")
		sb.WriteString(f.Value)
		sb.WriteString("\n\n")
	}
	writeFormat(&sb, layout)

	// Earlier comments give the model the revision trail.
	var msgs []Message
	for _, t := range history {
		if t.Comment == "" {
			continue
		}
		msgs = append(msgs, Message{Role: "user", Content: t.Comment})
	}

	return Prompt{
		System:  systemPrompt,
		User:    sb.String(),
		History: msgs,
	}
}

func writeFormat(sb *strings.Builder, layout Layout) {
	sb.WriteString("Return EXACT format:\n\n")
	for _, s := range layout.Sections {
		hint, ok := sectionHints[s.Name]
		if !ok {
			hint = "(text)"
		}
		sb.WriteString(s.Marker)
		sb.WriteString("\n")
		sb.WriteString(hint)
		sb.WriteString("\n\n")
	}
}

// topicFromPrompt reads the leading "Topic:" line written by the builders.
func topicFromPrompt(p Prompt) string {
	first, _, _ := strings.Cut(p.User, "\n")
	topic, ok := strings.CutPrefix(first, "Topic: ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(topic)
}
