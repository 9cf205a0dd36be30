// Package registry owns the growing set of canonical complaint entries and
// decides, for each incoming text, whether it merges into an existing entry
// or seeds a new one. The clustering is online, single-pass, and greedy:
// assignments are never revisited, entries are never merged or removed.
package registry

import (
	"context"
	"sort"

	"github.com/jgarber/feedback-radar/internal/classify"
	"github.com/jgarber/feedback-radar/internal/ingestion"
	"github.com/jgarber/feedback-radar/internal/similarity"
	"github.com/jgarber/feedback-radar/internal/types"
)

// Options tune registry behavior beyond the similarity strategy.
type Options struct {
	// ClusterUncategorized keeps texts that trigger no category in the
	// pipeline, attempting a global match. It only applies under strategies
	// that report MatchesUncategorized; under the lexical strategy such
	// texts are always discarded, since each would seed an entry nothing
	// can ever merge into. Defaults to the strategy's capability: off for
	// lexical, on for embedding.
	ClusterUncategorized bool
}

// Stats reports what happened to ingested texts.
type Stats struct {
	// Ingested counts every Ingest call.
	Ingested int
	// Discarded counts texts dropped by normalization, categorization
	// policy, or the non-complaint filter.
	Discarded int
	// Merged counts texts that incremented an existing entry.
	Merged int
	// Created counts texts that seeded a new entry.
	Created int
	// Skipped counts texts dropped because the external provider failed.
	Skipped int
}

// Registry accumulates canonical complaint entries. It is not safe for
// concurrent use; the ingestion path is a single logical thread (callers may
// parallelize embedding computation, but match-and-insert stays serialized).
type Registry struct {
	strategy similarity.Strategy
	opts     Options
	entries  []*types.CanonicalEntry
	stats    Stats
}

// New creates an empty registry using strategy. The uncategorized policy
// defaults per strategy: the lexical strategy discards uncategorized texts,
// the embedding strategy clusters them globally.
func New(strategy similarity.Strategy, opts *Options) *Registry {
	if opts == nil {
		opts = &Options{ClusterUncategorized: strategy.MatchesUncategorized()}
	}
	return &Registry{strategy: strategy, opts: *opts}
}

// Ingest normalizes, categorizes, and clusters one raw text. Texts filtered
// out by normalization or policy are discarded silently; that is a normal
// outcome, not an error. An error is returned only when the similarity
// strategy's external provider fails, in which case the registry is
// unchanged and the caller should skip the text and continue the batch.
func (r *Registry) Ingest(ctx context.Context, raw string) error {
	r.stats.Ingested++

	cleaned := ingestion.Clean(raw)
	if cleaned == "" {
		r.stats.Discarded++
		return nil
	}

	cat := classify.Categorize(cleaned)
	if cat == classify.CategoryUncategorized &&
		(!r.opts.ClusterUncategorized || !r.strategy.MatchesUncategorized()) {
		r.stats.Discarded++
		return nil
	}

	representative := cleaned
	if r.strategy.DerivesSummary() {
		summary, ok := classify.ExtractSummary(ingestion.CleanKeepSentences(raw), cat)
		if !ok {
			// No complaint indicator anywhere: praise or neutral chatter.
			r.stats.Discarded++
			return nil
		}
		representative = summary
	}

	cand := &similarity.Candidate{Text: cleaned, Category: cat}
	match, err := r.strategy.BestMatch(ctx, cand, r.entries)
	if err != nil {
		r.stats.Skipped++
		return err
	}

	if match != nil {
		// Only the count changes; the representative text is fixed at
		// creation time.
		match.Entry.Count++
		r.stats.Merged++
		return nil
	}

	r.entries = append(r.entries, &types.CanonicalEntry{
		Summary:   representative,
		Category:  cat,
		Count:     1,
		Embedding: cand.Embedding,
	})
	r.stats.Created++
	return nil
}

// Snapshot returns the canonical entries in insertion order. The slice is a
// copy; the entries are the registry's own and must not be mutated.
func (r *Registry) Snapshot() []*types.CanonicalEntry {
	out := make([]*types.CanonicalEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// ByCountDesc returns the canonical entries sorted by count, highest first.
// Entries with equal counts keep insertion order.
func (r *Registry) ByCountDesc() []*types.CanonicalEntry {
	out := r.Snapshot()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// Len returns the number of canonical entries.
func (r *Registry) Len() int { return len(r.entries) }

// Stats returns ingestion counters.
func (r *Registry) Stats() Stats { return r.stats }
