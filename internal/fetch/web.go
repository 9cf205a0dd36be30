package fetch

import (
	"context"
	"log"
	"time"

	"github.com/jgarber/feedback-radar/internal/types"
)

// browserTimeout bounds headless rendering of one page.
const browserTimeout = 30 * time.Second

// WebSource extracts feedback text blocks from arbitrary review or forum
// pages supplied as seed URLs. Static fetching is tried first; pages that
// render their content client-side fall back to a headless browser when
// enabled.
type WebSource struct {
	seedURLs   []string
	useBrowser bool
	verbose    bool
}

// NewWebSource creates a web source over the given seed URLs.
func NewWebSource(seedURLs []string, useBrowser, verbose bool) *WebSource {
	return &WebSource{seedURLs: seedURLs, useBrowser: useBrowser, verbose: verbose}
}

// Platform implements Source.
func (s *WebSource) Platform() Platform { return PlatformWeb }

// Fetch extracts feedback blocks from each seed URL. The product and limit
// arguments are unused: seed URLs are already product-specific, and a page
// yields however many blocks it contains. Unreachable pages are skipped.
func (s *WebSource) Fetch(ctx context.Context, _ string, _ int) ([]types.RawText, error) {
	var items []types.RawText
	for _, seedURL := range s.seedURLs {
		blocks, err := s.extractFrom(ctx, seedURL)
		if err != nil {
			log.Printf("[WEB] Skipping %s: %v", seedURL, err)
			continue
		}
		for _, block := range blocks {
			items = append(items, types.RawText{
				Title:   "Page: " + seedURL,
				Content: block,
				URL:     seedURL,
				Source:  string(PlatformWeb),
			})
		}
	}
	return items, nil
}

func (s *WebSource) extractFrom(ctx context.Context, pageURL string) ([]string, error) {
	html, err := Get(ctx, pageURL, nil)
	if err != nil {
		return nil, err
	}

	blocks, err := ExtractComments(html)
	if err != nil {
		return nil, err
	}

	if s.useBrowser && ShouldUseBrowser(blocks) {
		rendered, err := RenderPage(ctx, pageURL, browserTimeout, s.verbose)
		if err != nil {
			// Keep whatever the static pass produced.
			return blocks, nil
		}
		if renderedBlocks, err := ExtractComments(rendered); err == nil && len(renderedBlocks) > len(blocks) {
			return renderedBlocks, nil
		}
	}
	return blocks, nil
}
