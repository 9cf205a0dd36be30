// Package types holds the shared domain types passed between the fetch,
// classification, clustering, and aggregation layers.
package types

import "github.com/jgarber/feedback-radar/internal/classify"

// RawText is one piece of fetched user feedback: a post, comment, or tweet.
// Immutable once captured.
type RawText struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
	Source  string `json:"source"`
}

// ClassifiedFeedback is one per-feature judgment produced by the external
// structured-classification service for a single RawText.
type ClassifiedFeedback struct {
	Feature string `json:"feature" validate:"required"`
	Type    string `json:"type" validate:"required"`
	Summary string `json:"summary" validate:"required"`
}

// DetailRecord is one accepted classified feedback item, exported one row
// per record in arrival order.
type DetailRecord struct {
	Title        string `json:"title"`
	Feature      string `json:"feature"`
	FeedbackType string `json:"feedback_type"`
	Summary      string `json:"summary"`
	URL          string `json:"url"`
	Source       string `json:"source"`
}

// CanonicalEntry is the single representative record standing for a cluster
// of near-duplicate complaints. The summary is fixed at creation time; only
// the count changes afterward. The complaint registry exclusively owns all
// entries.
type CanonicalEntry struct {
	// Summary is the representative text of the cluster.
	Summary string
	// Category is the feature area the cluster belongs to.
	Category classify.Category
	// Count is the number of texts merged into this cluster, including the
	// one that created it.
	Count int
	// Embedding is the cached vector for the summary. Populated lazily by
	// the embedding similarity strategy; nil under the lexical strategy.
	Embedding []float32
}
