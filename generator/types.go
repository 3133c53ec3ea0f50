package generator

import (
	"time"

	"seo_blog_writer/seo"
)

// Spec describes the article requested by the user.
type Spec struct {
	Topic        string `json:"topic"`
	RequiredLine string `json:"required_line,omitempty"`
	Words        int    `json:"words,omitempty"`
	WebsiteLink  string `json:"website_link,omitempty"`
}

// Article is the post-processed model reply.
type Article struct {
	Topic    string         `json:"topic"`
	Sections seo.SectionMap `json:"sections"`
	H1HTML   string         `json:"h1_html"`
	BodyHTML string         `json:"body_html"`
	Report   seo.Report     `json:"report"`
	Links    Links          `json:"links"`
	Raw      string         `json:"raw,omitempty"`
}

// Links are the external references shown under the article.
type Links struct {
	Website   string `json:"website,omitempty"`
	Wikipedia string `json:"wikipedia,omitempty"`
}

// Turn records one generation or comment-driven revision.
type Turn struct {
	Comment   string    `json:"comment"`
	Article   Article   `json:"article"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}
