package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"

	"github.com/jgarber/feedback-radar/internal/types"
)

const redditBaseURL = "https://www.reddit.com"

// RedditSource fetches posts and their comment trees through reddit's
// public JSON endpoints. No OAuth is required for read-only search, but
// reddit throttles by user agent, so a descriptive one is mandatory.
type RedditSource struct {
	baseURL   string
	userAgent string
}

// NewRedditSource creates a reddit source with the given user agent.
func NewRedditSource(userAgent string) *RedditSource {
	return &RedditSource{baseURL: redditBaseURL, userAgent: userAgent}
}

// NewRedditSourceWithBase is for tests that point the source at a local
// server.
func NewRedditSourceWithBase(baseURL, userAgent string) *RedditSource {
	return &RedditSource{baseURL: baseURL, userAgent: userAgent}
}

// Platform implements Source.
func (s *RedditSource) Platform() Platform { return PlatformReddit }

// redditListing is the minimal shape of reddit's listing envelope.
type redditListing struct {
	Data struct {
		Children []struct {
			Data redditThing `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// redditThing is a post or a comment, depending on which fields are set.
type redditThing struct {
	Title     string `json:"title"`
	Selftext  string `json:"selftext"`
	Body      string `json:"body"`
	Permalink string `json:"permalink"`
	URL       string `json:"url"`
}

// Fetch searches reddit for the product and returns the matched posts'
// selftext plus every top-level comment as separate feedback items.
func (s *RedditSource) Fetch(ctx context.Context, product string, limit int) ([]types.RawText, error) {
	searchURL := fmt.Sprintf("%s/search.json?q=%s&sort=relevance&limit=%d",
		s.baseURL, url.QueryEscape(product), limit)

	body, err := Get(ctx, searchURL, s.options())
	if err != nil {
		return nil, err
	}

	var listing redditListing
	if err := json.Unmarshal([]byte(body), &listing); err != nil {
		return nil, &Error{URL: searchURL, Message: "failed to parse search listing", Cause: err}
	}

	var items []types.RawText
	for _, child := range listing.Data.Children {
		post := child.Data
		postURL := s.baseURL + post.Permalink

		if post.Selftext != "" {
			items = append(items, types.RawText{
				Title:   "Post: " + post.Title,
				Content: post.Selftext,
				URL:     postURL,
				Source:  string(PlatformReddit),
			})
		}

		comments, err := s.fetchComments(ctx, post)
		if err != nil {
			// One unreadable thread does not fail the platform.
			log.Printf("[REDDIT] Skipping comments for %q: %v", post.Title, err)
			continue
		}
		items = append(items, comments...)
	}
	return items, nil
}

func (s *RedditSource) fetchComments(ctx context.Context, post redditThing) ([]types.RawText, error) {
	if post.Permalink == "" {
		return nil, nil
	}
	commentsURL := s.baseURL + post.Permalink + ".json"
	body, err := Get(ctx, commentsURL, s.options())
	if err != nil {
		return nil, err
	}

	// The comments endpoint returns [postListing, commentListing].
	var listings []redditListing
	if err := json.Unmarshal([]byte(body), &listings); err != nil {
		return nil, &Error{URL: commentsURL, Message: "failed to parse comment listing", Cause: err}
	}
	if len(listings) < 2 {
		return nil, nil
	}

	var items []types.RawText
	for _, child := range listings[1].Data.Children {
		comment := child.Data
		if comment.Body == "" {
			continue
		}
		items = append(items, types.RawText{
			Title:   "Comment on: " + post.Title,
			Content: comment.Body,
			URL:     s.baseURL + post.Permalink,
			Source:  string(PlatformReddit),
		})
	}
	return items, nil
}

func (s *RedditSource) options() *Options {
	opts := DefaultOptions()
	opts.UserAgent = s.userAgent
	return opts
}
