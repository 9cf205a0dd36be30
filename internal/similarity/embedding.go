package similarity

import (
	"context"
	"math"

	"github.com/jgarber/feedback-radar/internal/types"
)

// DefaultThreshold is the minimum cosine similarity for two texts to be
// considered the same complaint.
const DefaultThreshold = 0.85

// Provider supplies embedding vectors for text. The production provider is
// the LLM client; tests inject fakes. Calls block on network I/O.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Embedding matches texts by cosine similarity of provider-supplied
// vectors. Entry vectors are computed lazily on first comparison and cached
// on the entry for the rest of the run. Unlike the lexical strategy, no
// category agreement is required: uncategorized candidates still match
// globally.
type Embedding struct {
	provider  Provider
	threshold float64
}

// NewEmbedding creates an embedding strategy backed by provider. Thresholds
// outside (0, 1] fall back to DefaultThreshold.
func NewEmbedding(provider Provider, threshold float64) *Embedding {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Embedding{provider: provider, threshold: threshold}
}

// Name implements Strategy.
func (e *Embedding) Name() string { return "embedding" }

// DerivesSummary implements Strategy. Embedding entries keep the cleaned
// text verbatim as their representative.
func (e *Embedding) DerivesSummary() bool { return false }

// MatchesUncategorized implements Strategy. Cosine similarity is global
// and needs no category agreement.
func (e *Embedding) MatchesUncategorized() bool { return true }

// Score returns the cosine similarity between the candidate and entry
// vectors, fetching either vector from the provider if missing.
func (e *Embedding) Score(ctx context.Context, cand *Candidate, entry *types.CanonicalEntry) (float64, error) {
	if err := e.ensureCandidate(ctx, cand); err != nil {
		return 0, err
	}
	if err := e.ensureEntry(ctx, entry); err != nil {
		return 0, err
	}
	return Cosine(cand.Embedding, entry.Embedding), nil
}

// BestMatch scans entries in registration order and returns the one with
// the highest cosine similarity, provided it reaches the threshold.
// Strictly-greater comparison keeps the earliest entry on ties.
func (e *Embedding) BestMatch(ctx context.Context, cand *Candidate, entries []*types.CanonicalEntry) (*Match, error) {
	if len(entries) == 0 {
		// Still fetch the candidate vector so the registry can store it on
		// the entry this candidate is about to seed.
		if err := e.ensureCandidate(ctx, cand); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if err := e.ensureCandidate(ctx, cand); err != nil {
		return nil, err
	}

	var best *types.CanonicalEntry
	bestScore := -1.0
	for _, entry := range entries {
		if err := e.ensureEntry(ctx, entry); err != nil {
			return nil, err
		}
		if score := Cosine(cand.Embedding, entry.Embedding); score > bestScore {
			bestScore = score
			best = entry
		}
	}

	if best == nil || bestScore < e.threshold {
		return nil, nil
	}
	return &Match{Entry: best, Score: bestScore}, nil
}

func (e *Embedding) ensureCandidate(ctx context.Context, cand *Candidate) error {
	if cand.Embedding != nil {
		return nil
	}
	vec, err := e.provider.Embed(ctx, cand.Text)
	if err != nil {
		return &ProviderError{Message: "embedding candidate text", Cause: err}
	}
	cand.Embedding = vec
	return nil
}

func (e *Embedding) ensureEntry(ctx context.Context, entry *types.CanonicalEntry) error {
	if entry.Embedding != nil {
		return nil
	}
	vec, err := e.provider.Embed(ctx, entry.Summary)
	if err != nil {
		return &ProviderError{Message: "embedding canonical entry", Cause: err}
	}
	entry.Embedding = vec
	return nil
}

// Cosine computes the cosine similarity dot(a,b)/(|a||b|) in IEEE double
// precision. It is 0 when either vector is zero or the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
