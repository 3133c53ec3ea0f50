package seo

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rules holds the scorer thresholds and penalty sizes.
type Rules struct {
	Baseline int `json:"baseline" yaml:"baseline" toml:"baseline"`

	MinWords           int `json:"min_words" yaml:"min_words" toml:"min_words"`
	MinWordsPenalty    int `json:"min_words_penalty" yaml:"min_words_penalty" toml:"min_words_penalty"`
	TargetWords        int `json:"target_words" yaml:"target_words" toml:"target_words"`
	TargetWordsPenalty int `json:"target_words_penalty" yaml:"target_words_penalty" toml:"target_words_penalty"`

	MinDensity         float64 `json:"min_density" yaml:"min_density" toml:"min_density"`
	LowDensityPenalty  int     `json:"low_density_penalty" yaml:"low_density_penalty" toml:"low_density_penalty"`
	MaxDensity         float64 `json:"max_density" yaml:"max_density" toml:"max_density"`
	HighDensityPenalty int     `json:"high_density_penalty" yaml:"high_density_penalty" toml:"high_density_penalty"`

	MaxTitleLength       int `json:"max_title_length" yaml:"max_title_length" toml:"max_title_length"`
	TitlePenalty         int `json:"title_penalty" yaml:"title_penalty" toml:"title_penalty"`
	MaxDescriptionLength int `json:"max_description_length" yaml:"max_description_length" toml:"max_description_length"`
	DescriptionPenalty   int `json:"description_penalty" yaml:"description_penalty" toml:"description_penalty"`

	MaxPassivePercent float64 `json:"max_passive_percent" yaml:"max_passive_percent" toml:"max_passive_percent"`
	PassivePenalty    int     `json:"passive_penalty" yaml:"passive_penalty" toml:"passive_penalty"`

	MaxSentenceLength float64 `json:"max_sentence_length" yaml:"max_sentence_length" toml:"max_sentence_length"`
	SentencePenalty   int     `json:"sentence_penalty" yaml:"sentence_penalty" toml:"sentence_penalty"`
}

// DefaultRules returns the stock scoring configuration.
func DefaultRules() Rules {
	return Rules{
		Baseline:             100,
		MinWords:             900,
		MinWordsPenalty:      10,
		TargetWords:          1200,
		TargetWordsPenalty:   4,
		MinDensity:           0.8,
		LowDensityPenalty:    10,
		MaxDensity:           3.5,
		HighDensityPenalty:   5,
		MaxTitleLength:       60,
		TitlePenalty:         5,
		MaxDescriptionLength: 160,
		DescriptionPenalty:   5,
		MaxPassivePercent:    7,
		PassivePenalty:       5,
		MaxSentenceLength:    22,
		SentencePenalty:      5,
	}
}

// Report is the outcome of one scoring run. Percentages and the sentence
// average are rounded to two decimals.
type Report struct {
	WordCount             int     `json:"word_count"`
	KeywordDensity        float64 `json:"keyword_density"`
	MetaTitleLength       int     `json:"meta_title_length"`
	MetaDescriptionLength int     `json:"meta_description_length"`
	PassiveVoice          float64 `json:"passive_voice"`
	AverageSentenceLength float64 `json:"average_sentence_length"`
	FinalScore            int     `json:"final_score"`
}

// Metric is a display name paired with its value.
type Metric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Metrics lists the report values in display order.
func (r Report) Metrics() []Metric {
	return []Metric{
		{Name: "Word Count", Value: float64(r.WordCount)},
		{Name: "Keyword Density %", Value: r.KeywordDensity},
		{Name: "Meta Title Length", Value: float64(r.MetaTitleLength)},
		{Name: "Meta Description Length", Value: float64(r.MetaDescriptionLength)},
		{Name: "Passive Voice %", Value: r.PassiveVoice},
		{Name: "Average Sentence Length", Value: r.AverageSentenceLength},
		{Name: "Final SEO Score", Value: float64(r.FinalScore)},
	}
}

var passiveRe = regexp.MustCompile(`\b(?:was|were|been)\b`)

// Score runs DefaultRules over the inputs.
func Score(body, keyphrase, title, description string) Report {
	return DefaultRules().Score(body, keyphrase, title, description)
}

// Score computes the report for body and its three metadata strings.
func (r Rules) Score(body, keyphrase, title, description string) Report {
	score := r.Baseline
	var rep Report

	words := len(strings.Fields(body))
	rep.WordCount = words
	switch {
	case words < r.MinWords:
		score -= r.MinWordsPenalty
	case words < r.TargetWords:
		score -= r.TargetWordsPenalty
	}

	lower := strings.ToLower(body)
	// An empty keyphrase matches between every rune.
	density := percent(strings.Count(lower, strings.ToLower(keyphrase)), words)
	rep.KeywordDensity = round2(density)
	switch {
	case density < r.MinDensity:
		score -= r.LowDensityPenalty
	case density > r.MaxDensity:
		score -= r.HighDensityPenalty
	}

	rep.MetaTitleLength = utf8.RuneCountInString(title)
	if rep.MetaTitleLength > r.MaxTitleLength {
		score -= r.TitlePenalty
	}

	rep.MetaDescriptionLength = utf8.RuneCountInString(description)
	if rep.MetaDescriptionLength > r.MaxDescriptionLength {
		score -= r.DescriptionPenalty
	}

	passive := percent(len(passiveRe.FindAllStringIndex(lower, -1)), words)
	rep.PassiveVoice = round2(passive)
	if passive > r.MaxPassivePercent {
		score -= r.PassivePenalty
	}

	avg := averageSentenceLength(body)
	rep.AverageSentenceLength = round2(avg)
	if avg > r.MaxSentenceLength {
		score -= r.SentencePenalty
	}

	rep.FinalScore = max(0, score)
	return rep
}

func percent(n, words int) float64 {
	if words == 0 {
		return 0
	}
	return float64(n) / float64(words) * 100
}

func averageSentenceLength(body string) float64 {
	sentences := strings.FieldsFunc(body, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	total, n := 0, 0
	for _, s := range sentences {
		if w := len(strings.Fields(s)); w > 0 {
			total += w
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}

// round2 rounds half to even at two decimals.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
