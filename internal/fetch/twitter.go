package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/jgarber/feedback-radar/internal/types"
)

const twitterSearchURL = "https://api.twitter.com/2/tweets/search/recent"

// TwitterSource fetches recent tweets about the product through the
// Twitter/X v2 recent-search endpoint with app-only bearer authentication.
type TwitterSource struct {
	baseURL     string
	bearerToken string
}

// NewTwitterSource creates a twitter source using the given bearer token.
func NewTwitterSource(bearerToken string) *TwitterSource {
	return &TwitterSource{baseURL: twitterSearchURL, bearerToken: bearerToken}
}

// NewTwitterSourceWithBase is for tests that point the source at a local
// server.
func NewTwitterSourceWithBase(baseURL, bearerToken string) *TwitterSource {
	return &TwitterSource{baseURL: baseURL, bearerToken: bearerToken}
}

// Platform implements Source.
func (s *TwitterSource) Platform() Platform { return PlatformTwitter }

type tweetSearchResponse struct {
	Data []struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// Fetch returns up to limit recent English-language tweets mentioning the
// product, excluding retweets.
func (s *TwitterSource) Fetch(ctx context.Context, product string, limit int) ([]types.RawText, error) {
	query := fmt.Sprintf("%s -is:retweet lang:en", product)
	searchURL := fmt.Sprintf("%s?query=%s&max_results=%d&tweet.fields=text,created_at",
		s.baseURL, url.QueryEscape(query), limit)

	opts := DefaultOptions()
	opts.Headers = map[string]string{
		"Authorization": "Bearer " + s.bearerToken,
	}

	body, err := Get(ctx, searchURL, opts)
	if err != nil {
		return nil, err
	}

	var resp tweetSearchResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, &Error{URL: searchURL, Message: "failed to parse tweet search response", Cause: err}
	}

	items := make([]types.RawText, 0, len(resp.Data))
	for _, tweet := range resp.Data {
		items = append(items, types.RawText{
			Title:   fmt.Sprintf("Tweet about %s", product),
			Content: tweet.Text,
			URL:     fmt.Sprintf("https://twitter.com/i/web/status/%s", tweet.ID),
			Source:  string(PlatformTwitter),
		})
	}
	return items, nil
}
