package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgarber/feedback-radar/internal/config"
	"github.com/jgarber/feedback-radar/internal/fetch"
	"github.com/jgarber/feedback-radar/internal/similarity"
	"github.com/jgarber/feedback-radar/internal/types"
)

// fakeSource serves a fixed batch of items.
type fakeSource struct {
	platform fetch.Platform
	items    []types.RawText
	err      error
}

func (f *fakeSource) Platform() fetch.Platform { return f.platform }

func (f *fakeSource) Fetch(_ context.Context, _ string, _ int) ([]types.RawText, error) {
	return f.items, f.err
}

// fakeClient answers classification prompts from a canned queue keyed by the
// item title embedded in the prompt.
type fakeClient struct {
	responses map[string]string
	genErr    error
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string) (string, error) {
	if f.genErr != nil {
		return "", f.genErr
	}
	for key, resp := range f.responses {
		if strings.Contains(prompt, key) {
			return resp, nil
		}
	}
	return "{}", nil
}

func (f *fakeClient) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{0, 0, 1}, nil
}

func (f *fakeClient) Close() error { return nil }

func redditItem(title, content string) types.RawText {
	return types.RawText{Title: title, Content: content, URL: "https://reddit.com/r/p/1", Source: "reddit"}
}

func TestAnalyzer_Run(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Product = "some phone"

	sources := []fetch.Source{&fakeSource{
		platform: fetch.PlatformReddit,
		items: []types.RawText{
			redditItem("Review one", "The battery drains too fast and overheats constantly!"),
			redditItem("Review two", "Battery life is terrible, it overheats and drains within hours."),
			redditItem("Review three", "Great camera, love the photos!"),
		},
	}}
	client := &fakeClient{responses: map[string]string{
		"Review one":   `{"battery": {"type": "poor_compared_to_competitor", "summary": "Drains and overheats"}}`,
		"Review two":   `{"battery": {"type": "poor_compared_to_competitor", "summary": "Terrible battery life"}}`,
		"Review three": `{"camera": {"type": "awesome", "summary": "Great photos"}}`,
	}}

	result, err := NewAnalyzer(cfg, client, sources).Run(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "some phone", result.Product)
	assert.Equal(t, 3, result.Fetched)
	assert.Equal(t, 0, result.Skipped)

	assert.Equal(t, 2, result.Matrix["battery"]["poor_compared_to_competitor"])
	assert.Equal(t, 1, result.Matrix["camera"]["awesome"])
	assert.Equal(t, map[string]int{"reddit": 3}, result.SourceTally)
	require.Len(t, result.Details, 3)
	assert.Equal(t, "Review one", result.Details[0].Title)

	// The two battery complaints cluster into one entry; the praise is
	// dropped from clustering entirely.
	require.Len(t, result.Complaints, 1)
	assert.Equal(t, 2, result.Complaints[0].Count)
}

func TestAnalyzer_Run_SkipsFailedClassification(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Product = "some phone"

	sources := []fetch.Source{&fakeSource{
		platform: fetch.PlatformReddit,
		items:    []types.RawText{redditItem("Review one", "The battery drains too fast every day.")},
	}}
	client := &fakeClient{genErr: errors.New("model unavailable")}

	result, err := NewAnalyzer(cfg, client, sources).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Fetched)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Details)
	// Clustering does not depend on classification.
	assert.Len(t, result.Complaints, 1)
}

func TestAnalyzer_Run_SkipsUnknownLabels(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Product = "some phone"

	sources := []fetch.Source{&fakeSource{
		platform: fetch.PlatformReddit,
		items:    []types.RawText{redditItem("Review one", "The battery drains too fast every day.")},
	}}
	client := &fakeClient{responses: map[string]string{
		"Review one": `{"holograms": {"type": "awesome", "summary": "Floats"}}`,
	}}

	result, err := NewAnalyzer(cfg, client, sources).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Matrix["camera"]["awesome"])
	assert.Empty(t, result.Details)
}

func TestAnalyzer_Run_MalformedResponseSkipped(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Product = "some phone"

	sources := []fetch.Source{&fakeSource{
		platform: fetch.PlatformReddit,
		items:    []types.RawText{redditItem("Review one", "The battery drains too fast every day.")},
	}}
	// Missing required summary field fails schema validation.
	client := &fakeClient{responses: map[string]string{
		"Review one": `{"battery": {"type": "awesome"}}`,
	}}

	result, err := NewAnalyzer(cfg, client, sources).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Details)
}

func TestAnalyzer_Run_DeadPlatformDegrades(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Product = "some phone"

	sources := []fetch.Source{
		&fakeSource{platform: fetch.PlatformReddit, err: errors.New("rate limited")},
		&fakeSource{
			platform: fetch.PlatformWeb,
			items:    []types.RawText{{Title: "Page", Content: "The battery drains too fast every day.", Source: "web"}},
		},
	}
	client := &fakeClient{}

	result, err := NewAnalyzer(cfg, client, sources).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Fetched)
}

func TestAnalyzer_Run_RequiresClient(t *testing.T) {
	cfg := config.DefaultConfig()

	_, err := NewAnalyzer(cfg, nil, []fetch.Source{&fakeSource{}}).Run(context.Background())

	assert.Error(t, err)
}

func TestAnalyzer_Run_RequiresSources(t *testing.T) {
	cfg := config.DefaultConfig()

	_, err := NewAnalyzer(cfg, &fakeClient{}, nil).Run(context.Background())

	assert.Error(t, err)
}

func TestAnalyzer_RunComplaints(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Product = "some phone"

	sources := []fetch.Source{&fakeSource{
		platform: fetch.PlatformReddit,
		items: []types.RawText{
			redditItem("One", "The battery drains too fast and overheats constantly!"),
			redditItem("Two", "Battery life is terrible, it overheats and drains within hours."),
		},
	}}

	// No LLM client needed under the lexical strategy.
	result, err := NewAnalyzer(cfg, nil, sources).RunComplaints(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, result.Fetched)
	require.Len(t, result.Complaints, 1)
	assert.Equal(t, 2, result.Complaints[0].Count)
	assert.Nil(t, result.Matrix)
}

func TestBuildSources(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Platforms = []string{"reddit", "twitter", "web"}
	cfg.TwitterBearerToken = "tok"
	cfg.SeedURLs = []string{"https://example.com"}

	sources, err := BuildSources(cfg)

	require.NoError(t, err)
	require.Len(t, sources, 3)
	assert.Equal(t, fetch.PlatformReddit, sources[0].Platform())
	assert.Equal(t, fetch.PlatformTwitter, sources[1].Platform())
	assert.Equal(t, fetch.PlatformWeb, sources[2].Platform())
}

func TestBuildSources_UnknownPlatform(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Platforms = []string{"usenet"}

	_, err := BuildSources(cfg)

	assert.Error(t, err)
}

func TestBuildStrategy(t *testing.T) {
	cfg := config.DefaultConfig()

	s, err := BuildStrategy(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &similarity.Lexical{}, s)

	cfg.Strategy = config.StrategyEmbedding
	_, err = BuildStrategy(cfg, nil)
	assert.Error(t, err)

	s, err = BuildStrategy(cfg, &fakeClient{})
	require.NoError(t, err)
	assert.IsType(t, &similarity.Embedding{}, s)

	cfg.Strategy = "telepathy"
	_, err = BuildStrategy(cfg, nil)
	assert.Error(t, err)
}

func TestNewRegistry_HonorsPolicyOverride(t *testing.T) {
	cfg := config.DefaultConfig()
	discard := false
	cfg.ClusterUncategorized = &discard

	// Embedding clusters uncategorized texts by default; the config knob
	// turns that off.
	reg := NewRegistry(cfg, similarity.NewEmbedding(&fakeClient{}, 0.85))
	require.NoError(t, reg.Ingest(context.Background(), "shipping took forever to arrive"))

	assert.Equal(t, 0, reg.Len())
}
