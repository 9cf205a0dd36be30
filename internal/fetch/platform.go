// Package fetch retrieves raw feedback text from external platforms. Each
// platform is a thin collaborator around its network API; retrieval
// protocols are not part of the analysis core.
package fetch

import (
	"context"
	"net/url"
	"strings"

	"github.com/jgarber/feedback-radar/internal/types"
)

// Platform identifies a feedback source platform.
type Platform string

const (
	// PlatformReddit covers reddit posts and comments
	PlatformReddit Platform = "reddit"
	// PlatformYouTube covers youtube video comments
	PlatformYouTube Platform = "youtube"
	// PlatformTwitter covers tweets
	PlatformTwitter Platform = "twitter"
	// PlatformWeb covers generic web pages supplied as seed URLs
	PlatformWeb Platform = "web"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// Source fetches feedback items about a product from one platform.
type Source interface {
	// Platform identifies the source in tallies and logs.
	Platform() Platform
	// Fetch returns up to limit posts' worth of feedback items in a stable
	// order. A failed source returns what it gathered plus the error.
	Fetch(ctx context.Context, product string, limit int) ([]types.RawText, error)
}

// DetectPlatform identifies the platform a URL belongs to.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)
	switch {
	case strings.Contains(host, "reddit.com") || strings.Contains(host, "redd.it"):
		return PlatformReddit
	case strings.Contains(host, "youtube.com") || strings.Contains(host, "youtu.be"):
		return PlatformYouTube
	case strings.Contains(host, "twitter.com") || strings.Contains(host, "x.com"):
		return PlatformTwitter
	case host != "":
		return PlatformWeb
	default:
		return PlatformUnknown
	}
}
