package similarity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgarber/feedback-radar/internal/classify"
	"github.com/jgarber/feedback-radar/internal/types"
)

// fakeProvider returns canned vectors per text and counts calls.
type fakeProvider struct {
	vectors map[string][]float32
	calls   int
	err     error
}

func (f *fakeProvider) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	vec, ok := f.vectors[text]
	if !ok {
		return []float32{0, 0, 1}, nil
	}
	return vec, nil
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-9)

	// Zero vectors and mismatched lengths score 0.
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 0}))
	assert.Equal(t, 0.0, Cosine([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Equal(t, 0.0, Cosine(nil, nil))
}

func TestEmbedding_BestMatch_AboveThreshold(t *testing.T) {
	provider := &fakeProvider{vectors: map[string][]float32{
		"battery drains fast": {1, 0, 0},
		"battery dies early":  {0.99, 0.1, 0},
	}}
	e := NewEmbedding(provider, 0.85)
	entries := []*types.CanonicalEntry{
		{Summary: "battery dies early", Category: classify.CategoryBattery},
	}

	match, err := e.BestMatch(context.Background(), &Candidate{Text: "battery drains fast"}, entries)

	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Same(t, entries[0], match.Entry)
	assert.Greater(t, match.Score, 0.85)
}

func TestEmbedding_BestMatch_BelowThreshold(t *testing.T) {
	provider := &fakeProvider{vectors: map[string][]float32{
		"battery drains fast": {1, 0, 0},
		"screen is too dim":   {0, 1, 0},
	}}
	e := NewEmbedding(provider, 0.85)
	entries := []*types.CanonicalEntry{
		{Summary: "screen is too dim", Category: classify.CategoryDisplay},
	}

	match, err := e.BestMatch(context.Background(), &Candidate{Text: "battery drains fast"}, entries)

	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestEmbedding_BestMatch_IgnoresCategories(t *testing.T) {
	// Embedding similarity is global; an uncategorized candidate can still
	// merge with an entry from any category.
	provider := &fakeProvider{vectors: map[string][]float32{
		"thing is broken":  {1, 0, 0},
		"device is broken": {1, 0, 0},
	}}
	e := NewEmbedding(provider, 0.85)
	entries := []*types.CanonicalEntry{
		{Summary: "device is broken", Category: classify.CategoryBuildQuality},
	}

	match, err := e.BestMatch(context.Background(), &Candidate{
		Text:     "thing is broken",
		Category: classify.CategoryUncategorized,
	}, entries)

	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Same(t, entries[0], match.Entry)
}

func TestEmbedding_BestMatch_EmptyEntriesStillEmbedsCandidate(t *testing.T) {
	provider := &fakeProvider{vectors: map[string][]float32{
		"battery drains fast": {1, 0, 0},
	}}
	e := NewEmbedding(provider, 0.85)
	cand := &Candidate{Text: "battery drains fast"}

	match, err := e.BestMatch(context.Background(), cand, nil)

	require.NoError(t, err)
	assert.Nil(t, match)
	assert.Equal(t, []float32{1, 0, 0}, cand.Embedding)
	assert.Equal(t, 1, provider.calls)
}

func TestEmbedding_CachesEntryVectors(t *testing.T) {
	provider := &fakeProvider{vectors: map[string][]float32{
		"battery drains fast": {1, 0, 0},
		"battery dies early":  {0, 1, 0},
	}}
	e := NewEmbedding(provider, 0.85)
	entry := &types.CanonicalEntry{Summary: "battery dies early"}
	entries := []*types.CanonicalEntry{entry}

	_, err := e.BestMatch(context.Background(), &Candidate{Text: "battery drains fast"}, entries)
	require.NoError(t, err)
	require.Equal(t, 2, provider.calls)

	// Second comparison reuses the cached entry vector.
	_, err = e.BestMatch(context.Background(), &Candidate{Text: "battery drains fast"}, entries)
	require.NoError(t, err)
	assert.Equal(t, 3, provider.calls)
	assert.Equal(t, []float32{0, 1, 0}, entry.Embedding)
}

func TestEmbedding_BestMatch_TieKeepsEarliestEntry(t *testing.T) {
	provider := &fakeProvider{vectors: map[string][]float32{
		"battery drains fast": {1, 0, 0},
		"battery dies early":  {1, 0, 0},
		"battery never lasts": {1, 0, 0},
	}}
	e := NewEmbedding(provider, 0.85)
	entries := []*types.CanonicalEntry{
		{Summary: "battery dies early"},
		{Summary: "battery never lasts"},
	}

	match, err := e.BestMatch(context.Background(), &Candidate{Text: "battery drains fast"}, entries)

	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Same(t, entries[0], match.Entry)
}

func TestEmbedding_ProviderErrorWrapped(t *testing.T) {
	cause := errors.New("quota exceeded")
	e := NewEmbedding(&fakeProvider{err: cause}, 0.85)

	_, err := e.BestMatch(context.Background(), &Candidate{Text: "battery drains fast"}, nil)

	require.Error(t, err)
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, cause)
}

func TestEmbedding_Score(t *testing.T) {
	provider := &fakeProvider{vectors: map[string][]float32{
		"a": {1, 0},
		"b": {0, 1},
	}}
	e := NewEmbedding(provider, 0.85)

	score, err := e.Score(context.Background(), &Candidate{Text: "a"}, &types.CanonicalEntry{Summary: "b"})

	require.NoError(t, err)
	assert.InDelta(t, 0.0, score, 1e-9)
}

func TestNewEmbedding_DefaultsThreshold(t *testing.T) {
	p := &fakeProvider{}
	assert.Equal(t, DefaultThreshold, NewEmbedding(p, 0).threshold)
	assert.Equal(t, DefaultThreshold, NewEmbedding(p, 1.5).threshold)
	assert.Equal(t, 0.9, NewEmbedding(p, 0.9).threshold)
}

func TestEmbedding_StrategyMetadata(t *testing.T) {
	e := NewEmbedding(&fakeProvider{}, 0.85)
	assert.Equal(t, "embedding", e.Name())
	assert.False(t, e.DerivesSummary())
	assert.True(t, e.MatchesUncategorized())
}
