// Package similarity scores candidate complaint texts against previously
// accepted canonical entries. Two interchangeable strategies exist: lexical
// keyword overlap and embedding cosine similarity. The complaint registry is
// strategy-agnostic; strategies are selected at construction time.
package similarity

import (
	"context"
	"fmt"

	"github.com/jgarber/feedback-radar/internal/classify"
	"github.com/jgarber/feedback-radar/internal/types"
)

// Candidate is a cleaned text being scored against the registry. The
// embedding strategy fills Embedding on first use so the registry can store
// it on a newly created entry without a second provider call.
type Candidate struct {
	Text      string
	Category  classify.Category
	Embedding []float32
}

// Match is a successful best-match result.
type Match struct {
	Entry *types.CanonicalEntry
	Score float64
}

// Strategy decides whether a candidate text is the same complaint as an
// existing canonical entry.
//
// Score scales are strategy-defined: the embedding strategy returns cosine
// similarity in [0,1], the lexical strategy returns the absolute common
// trigger-keyword count. BestMatch returns nil when no entry clears the
// strategy's acceptance threshold; an empty entry set is never an error.
// Ties on the maximum score resolve to the earliest-registered entry.
type Strategy interface {
	// Name identifies the strategy in logs and run metadata.
	Name() string
	// Score computes the similarity between a candidate and one entry.
	Score(ctx context.Context, cand *Candidate, entry *types.CanonicalEntry) (float64, error)
	// BestMatch scans entries in registration order and returns the best
	// acceptable match, or nil if none qualifies.
	BestMatch(ctx context.Context, cand *Candidate, entries []*types.CanonicalEntry) (*Match, error)
	// DerivesSummary reports whether new entries created under this strategy
	// should use an extractive summary rather than the cleaned text verbatim.
	DerivesSummary() bool
	// MatchesUncategorized reports whether this strategy can match texts
	// that triggered no category. The registry discards uncategorized texts
	// under strategies that cannot: each would seed an unmergeable entry.
	MatchesUncategorized() bool
}

// ProviderError wraps a failure of the external embedding provider. The
// affected text is skipped; the batch continues.
type ProviderError struct {
	Message string
	Cause   error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("embedding provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("embedding provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
