// Package pipeline orchestrates one analysis run: fetch feedback from the
// configured platforms, classify items into the feedback matrix, and
// cluster complaint texts into canonical entries.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jgarber/feedback-radar/internal/aggregate"
	"github.com/jgarber/feedback-radar/internal/config"
	"github.com/jgarber/feedback-radar/internal/fetch"
	"github.com/jgarber/feedback-radar/internal/llm"
	"github.com/jgarber/feedback-radar/internal/registry"
	"github.com/jgarber/feedback-radar/internal/schemas"
	"github.com/jgarber/feedback-radar/internal/similarity"
	"github.com/jgarber/feedback-radar/internal/types"
)

// classifyConcurrency bounds parallel classification calls. Classification
// of independent items is read-only; aggregation stays serialized in
// arrival order afterward.
const classifyConcurrency = 4

// Analyzer wires the fetch, classification, clustering, and aggregation
// stages for one product.
type Analyzer struct {
	cfg      config.Config
	client   llm.Client
	sources  []fetch.Source
	validate *validator.Validate
}

// Result is the outcome of one analysis run.
type Result struct {
	RunID       string                    `json:"run_id"`
	Product     string                    `json:"product"`
	Fetched     int                       `json:"fetched"`
	Skipped     int                       `json:"skipped"`
	Matrix      map[string]map[string]int `json:"matrix"`
	SourceTally map[string]int            `json:"source_tally"`
	Details     []types.DetailRecord      `json:"details"`
	Complaints  []*types.CanonicalEntry   `json:"complaints"`
	Percentages map[string]float64        `json:"feature_percentages"`
}

// NewAnalyzer creates an analyzer for cfg. The LLM client may be nil when
// classification is not needed (clustering-only runs under the lexical
// strategy).
func NewAnalyzer(cfg config.Config, client llm.Client, sources []fetch.Source) *Analyzer {
	return &Analyzer{
		cfg:      cfg,
		client:   client,
		sources:  sources,
		validate: validator.New(),
	}
}

// BuildSources constructs the fetchers for the platforms named in cfg.
func BuildSources(cfg config.Config) ([]fetch.Source, error) {
	sources := make([]fetch.Source, 0, len(cfg.Platforms))
	for _, platform := range cfg.Platforms {
		switch fetch.Platform(platform) {
		case fetch.PlatformReddit:
			sources = append(sources, fetch.NewRedditSource(cfg.RedditUserAgent))
		case fetch.PlatformYouTube:
			sources = append(sources, fetch.NewYouTubeSource(cfg.YouTubeAPIKey))
		case fetch.PlatformTwitter:
			sources = append(sources, fetch.NewTwitterSource(cfg.TwitterBearerToken))
		case fetch.PlatformWeb:
			sources = append(sources, fetch.NewWebSource(cfg.SeedURLs, cfg.UseBrowser, cfg.Verbose))
		default:
			return nil, fmt.Errorf("unknown platform %q", platform)
		}
	}
	return sources, nil
}

// BuildStrategy constructs the similarity strategy selected in cfg. The
// provider is required only for the embedding strategy.
func BuildStrategy(cfg config.Config, provider similarity.Provider) (similarity.Strategy, error) {
	switch cfg.Strategy {
	case config.StrategyLexical, "":
		return similarity.NewLexical(cfg.MinKeywordOverlap), nil
	case config.StrategyEmbedding:
		if provider == nil {
			return nil, fmt.Errorf("embedding strategy requires an embedding provider")
		}
		return similarity.NewEmbedding(provider, cfg.SimilarityThreshold), nil
	default:
		return nil, fmt.Errorf("unknown similarity strategy %q", cfg.Strategy)
	}
}

// NewRegistry constructs a complaint registry honoring the configured
// uncategorized policy.
func NewRegistry(cfg config.Config, strategy similarity.Strategy) *registry.Registry {
	var opts *registry.Options
	if cfg.ClusterUncategorized != nil {
		opts = &registry.Options{ClusterUncategorized: *cfg.ClusterUncategorized}
	}
	return registry.New(strategy, opts)
}

// Run executes the full analysis: fetch, classify into the matrix, and
// cluster complaints. Individual item failures are skipped and counted;
// only setup-level problems abort the run.
func (a *Analyzer) Run(ctx context.Context) (*Result, error) {
	if a.client == nil {
		return nil, fmt.Errorf("analysis run requires an LLM client")
	}

	items, err := a.fetchAll(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:   uuid.NewString(),
		Product: a.cfg.Product,
		Fetched: len(items),
	}

	classified, skipped := a.classifyAll(ctx, items)
	result.Skipped = skipped

	agg := aggregate.New()
	for i, item := range items {
		for _, fb := range classified[i] {
			if err := a.validate.Struct(fb); err != nil {
				log.Printf("[CLASSIFY] Dropping malformed feedback for %q: %v", item.Title, err)
				result.Skipped++
				continue
			}
			rec := types.DetailRecord{
				Title:        item.Title,
				Feature:      fb.Feature,
				FeedbackType: fb.Type,
				Summary:      fb.Summary,
				URL:          item.URL,
				Source:       item.Source,
			}
			if err := agg.Record(rec); err != nil {
				var unknown *aggregate.UnknownLabelError
				if errors.As(err, &unknown) {
					// Data-quality warning, not fatal.
					log.Printf("[AGGREGATE] %v (item %q)", err, item.Title)
					result.Skipped++
					continue
				}
				return nil, err
			}
		}
	}

	complaints, clusterSkipped, err := a.cluster(ctx, items)
	if err != nil {
		return nil, err
	}
	result.Skipped += clusterSkipped

	result.Matrix = agg.Matrix()
	result.SourceTally = agg.SourceTally()
	result.Details = agg.Details()
	result.Percentages = agg.FeaturePercentages()
	result.Complaints = complaints
	return result, nil
}

// RunComplaints executes the clustering-only pipeline: fetch and cluster,
// no per-item classification. This is the surface behind the complaints
// subcommand.
func (a *Analyzer) RunComplaints(ctx context.Context) (*Result, error) {
	items, err := a.fetchAll(ctx)
	if err != nil {
		return nil, err
	}

	complaints, skipped, err := a.cluster(ctx, items)
	if err != nil {
		return nil, err
	}

	return &Result{
		RunID:      uuid.NewString(),
		Product:    a.cfg.Product,
		Fetched:    len(items),
		Skipped:    skipped,
		Complaints: complaints,
	}, nil
}

// fetchAll queries every source concurrently but flattens results in the
// fixed source order so downstream arrival order is deterministic.
func (a *Analyzer) fetchAll(ctx context.Context) ([]types.RawText, error) {
	if len(a.sources) == 0 {
		return nil, fmt.Errorf("no sources configured")
	}

	perSource := make([][]types.RawText, len(a.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, source := range a.sources {
		g.Go(func() error {
			items, err := source.Fetch(gctx, a.cfg.Product, a.cfg.Posts)
			if err != nil {
				// A dead platform degrades the run, it does not abort it.
				log.Printf("[FETCH] Platform %s failed: %v", source.Platform(), err)
			}
			perSource[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var items []types.RawText
	for _, batch := range perSource {
		items = append(items, batch...)
	}
	return items, nil
}

// classifyAll runs per-item classification with bounded concurrency.
// Results are kept slot-per-item so arrival order survives. Items whose
// classification call or response fails are skipped and counted.
func (a *Analyzer) classifyAll(ctx context.Context, items []types.RawText) ([][]types.ClassifiedFeedback, int) {
	results := make([][]types.ClassifiedFeedback, len(items))
	failures := make([]bool, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(classifyConcurrency)
	for i, item := range items {
		g.Go(func() error {
			feedback, err := a.classifyItem(gctx, item)
			if err != nil {
				log.Printf("[CLASSIFY] Skipping %q: %v", item.Title, err)
				failures[i] = true
				return nil
			}
			results[i] = feedback
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures are per-slot

	skipped := 0
	for _, failed := range failures {
		if failed {
			skipped++
		}
	}
	return results, skipped
}

func (a *Analyzer) classifyItem(ctx context.Context, item types.RawText) ([]types.ClassifiedFeedback, error) {
	prompt := llm.BuildFeedbackPrompt(a.cfg.Product, item)
	response, err := a.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("classification call failed: %w", err)
	}
	if err := schemas.ValidateFeedbackJSON(response); err != nil {
		return nil, fmt.Errorf("classification response rejected: %w", err)
	}
	return llm.ParseFeedbackResponse(response)
}

// cluster ingests every item's content into a fresh registry. Provider
// failures skip the affected text; the batch continues.
func (a *Analyzer) cluster(ctx context.Context, items []types.RawText) ([]*types.CanonicalEntry, int, error) {
	strategy, err := BuildStrategy(a.cfg, a.provider())
	if err != nil {
		return nil, 0, err
	}
	reg := NewRegistry(a.cfg, strategy)

	skipped := 0
	for _, item := range items {
		if err := reg.Ingest(ctx, item.Content); err != nil {
			log.Printf("[CLUSTER] Skipping %q: %v", item.Title, err)
			skipped++
		}
	}
	return reg.ByCountDesc(), skipped, nil
}

func (a *Analyzer) provider() similarity.Provider {
	if a.client == nil {
		return nil
	}
	return a.client
}
