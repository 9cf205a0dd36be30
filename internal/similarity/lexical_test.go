package similarity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgarber/feedback-radar/internal/classify"
	"github.com/jgarber/feedback-radar/internal/types"
)

func lexCandidate(text string, cat classify.Category) *Candidate {
	return &Candidate{Text: text, Category: cat}
}

func lexEntry(summary string, cat classify.Category) *types.CanonicalEntry {
	return &types.CanonicalEntry{Summary: summary, Category: cat, Count: 1}
}

func TestLexical_BestMatch_MergesOnSharedKeywords(t *testing.T) {
	l := NewLexical(2)
	entries := []*types.CanonicalEntry{
		lexEntry("the battery drains too fast and overheats constantly", classify.CategoryBattery),
	}
	cand := lexCandidate("battery life is terrible it drains overnight", classify.CategoryBattery)

	match, err := l.BestMatch(context.Background(), cand, entries)

	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Same(t, entries[0], match.Entry)
	assert.GreaterOrEqual(t, match.Score, 2.0)
}

func TestLexical_BestMatch_BelowMinOverlap(t *testing.T) {
	l := NewLexical(2)
	entries := []*types.CanonicalEntry{
		lexEntry("the battery drains too fast", classify.CategoryBattery),
	}
	// Shares only "battery" with the entry.
	cand := lexCandidate("battery compartment cover feels loose", classify.CategoryBattery)

	match, err := l.BestMatch(context.Background(), cand, entries)

	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestLexical_BestMatch_CategoryGate(t *testing.T) {
	l := NewLexical(2)
	entries := []*types.CanonicalEntry{
		lexEntry("the battery drains and overheats", classify.CategoryCamera),
	}
	cand := lexCandidate("the battery drains and overheats", classify.CategoryBattery)

	match, err := l.BestMatch(context.Background(), cand, entries)

	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestLexical_BestMatch_UncategorizedNeverMatches(t *testing.T) {
	l := NewLexical(1)
	entries := []*types.CanonicalEntry{
		lexEntry("the battery drains and overheats", classify.CategoryUncategorized),
	}
	cand := lexCandidate("the battery drains and overheats", classify.CategoryUncategorized)

	match, err := l.BestMatch(context.Background(), cand, entries)

	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestLexical_BestMatch_TieKeepsEarliestEntry(t *testing.T) {
	l := NewLexical(2)
	entries := []*types.CanonicalEntry{
		lexEntry("battery drains way too quickly", classify.CategoryBattery),
		lexEntry("battery drains every single night", classify.CategoryBattery),
	}
	cand := lexCandidate("my battery drains constantly", classify.CategoryBattery)

	match, err := l.BestMatch(context.Background(), cand, entries)

	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Same(t, entries[0], match.Entry)
}

func TestLexical_Score(t *testing.T) {
	l := NewLexical(2)
	cand := lexCandidate("battery drains fast and overheats", classify.CategoryBattery)

	score, err := l.Score(context.Background(), cand, lexEntry("battery drains overnight", classify.CategoryBattery))
	require.NoError(t, err)
	assert.Equal(t, 2.0, score)

	score, err = l.Score(context.Background(), cand, lexEntry("battery drains overnight", classify.CategoryCamera))
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestNewLexical_DefaultsMinOverlap(t *testing.T) {
	assert.Equal(t, DefaultMinOverlap, NewLexical(0).minOverlap)
	assert.Equal(t, DefaultMinOverlap, NewLexical(-3).minOverlap)
	assert.Equal(t, 3, NewLexical(3).minOverlap)
}

func TestLexical_StrategyMetadata(t *testing.T) {
	l := NewLexical(2)
	assert.Equal(t, "lexical", l.Name())
	assert.True(t, l.DerivesSummary())
	assert.False(t, l.MatchesUncategorized())
}
