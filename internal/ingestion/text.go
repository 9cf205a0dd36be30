// Package ingestion cleans raw feedback text into the canonical comparison
// form used by categorization and clustering.
package ingestion

import (
	"regexp"
	"strings"
)

// MinTokens is the minimum number of whitespace-delimited tokens a cleaned
// text must have to carry usable signal. Shorter results are rejected.
const MinTokens = 3

var (
	urlRe = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)
	// Everything that is not a letter, digit, underscore, or whitespace
	// becomes a space. Unicode letter/number classes, not \w: feedback text
	// arrives in any script and accented words must survive cleaning.
	nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	// Same as nonWordRe but keeps sentence-terminal punctuation for
	// callers that split into sentences afterward.
	nonWordKeepSentenceRe = regexp.MustCompile(`[^\p{L}\p{N}_\s.!?]`)
	spaceRe               = regexp.MustCompile(`\s+`)
)

// Clean normalizes raw feedback text: URLs are stripped, punctuation and
// symbols collapse to spaces, whitespace collapses to single spaces, and the
// result is rejected (empty string) when it has fewer than MinTokens tokens.
// Clean is pure and idempotent.
func Clean(text string) string {
	return clean(text, nonWordRe)
}

// CleanKeepSentences behaves like Clean but preserves '.', '!', and '?' so
// the result can still be split into sentences for summary extraction.
func CleanKeepSentences(text string) string {
	return clean(text, nonWordKeepSentenceRe)
}

func clean(text string, punct *regexp.Regexp) string {
	text = urlRe.ReplaceAllString(text, " ")
	text = punct.ReplaceAllString(text, " ")
	text = strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))

	if len(strings.Fields(text)) < MinTokens {
		return ""
	}
	return text
}

// SplitSentences splits sentence-preserving cleaned text on terminal
// punctuation. Empty fragments are dropped; a text without terminal
// punctuation is returned as a single sentence.
func SplitSentences(cleaned string) []string {
	parts := strings.FieldsFunc(cleaned, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}
