package similarity

import (
	"context"

	"github.com/jgarber/feedback-radar/internal/classify"
	"github.com/jgarber/feedback-radar/internal/types"
)

// DefaultMinOverlap is the minimum common trigger-keyword count for two
// texts to be considered the same complaint. A single shared keyword merges
// too aggressively in practice.
const DefaultMinOverlap = 2

// Lexical matches texts by the size of the intersection of their
// category-restricted trigger-keyword sets. A match requires category
// agreement; uncategorized candidates never match.
type Lexical struct {
	minOverlap int
}

// NewLexical creates a lexical strategy. minOverlap values below 1 fall back
// to DefaultMinOverlap.
func NewLexical(minOverlap int) *Lexical {
	if minOverlap < 1 {
		minOverlap = DefaultMinOverlap
	}
	return &Lexical{minOverlap: minOverlap}
}

// Name implements Strategy.
func (l *Lexical) Name() string { return "lexical" }

// DerivesSummary implements Strategy. Lexical entries store an extractive
// summary as their representative text.
func (l *Lexical) DerivesSummary() bool { return true }

// MatchesUncategorized implements Strategy. Keyword overlap requires a
// category to restrict the vocabulary, so uncategorized texts never match.
func (l *Lexical) MatchesUncategorized() bool { return false }

// Score returns the absolute number of trigger keywords the candidate and
// entry share within the candidate's category. Entries in a different
// category score 0.
func (l *Lexical) Score(_ context.Context, cand *Candidate, entry *types.CanonicalEntry) (float64, error) {
	return float64(l.overlap(cand, entry)), nil
}

// BestMatch scans entries in registration order and returns the entry with
// the largest keyword overlap, provided it reaches the configured minimum.
// Strictly-greater comparison keeps the earliest entry on ties.
func (l *Lexical) BestMatch(_ context.Context, cand *Candidate, entries []*types.CanonicalEntry) (*Match, error) {
	if cand.Category == classify.CategoryUncategorized {
		return nil, nil
	}

	var best *types.CanonicalEntry
	bestOverlap := 0
	for _, entry := range entries {
		if overlap := l.overlap(cand, entry); overlap > bestOverlap {
			bestOverlap = overlap
			best = entry
		}
	}

	if best == nil || bestOverlap < l.minOverlap {
		return nil, nil
	}
	return &Match{Entry: best, Score: float64(bestOverlap)}, nil
}

func (l *Lexical) overlap(cand *Candidate, entry *types.CanonicalEntry) int {
	if entry.Category != cand.Category {
		return 0
	}
	candKeywords := classify.TriggerKeywords(cand.Text, cand.Category)
	common := 0
	for kw := range classify.TriggerKeywords(entry.Summary, entry.Category) {
		if candKeywords[kw] {
			common++
		}
	}
	return common
}
