package fetch

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/jgarber/feedback-radar/internal/types"
)

// commentsPerVideo bounds how many top-level comments are fetched per video.
const commentsPerVideo = 10

// YouTubeSource fetches top-level comments from videos about the product
// through the YouTube Data API.
type YouTubeSource struct {
	apiKey string
}

// NewYouTubeSource creates a YouTube source using the given API key.
func NewYouTubeSource(apiKey string) *YouTubeSource {
	return &YouTubeSource{apiKey: apiKey}
}

// Platform implements Source.
func (s *YouTubeSource) Platform() Platform { return PlatformYouTube }

// Fetch searches for up to limit videos about the product and collects
// their top-level comments. Videos with comments disabled are skipped.
func (s *YouTubeSource) Fetch(ctx context.Context, product string, limit int) ([]types.RawText, error) {
	service, err := youtube.NewService(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return nil, &Error{Message: "failed to create YouTube service", Cause: err}
	}

	searchResp, err := service.Search.List([]string{"id", "snippet"}).
		Q(product).
		MaxResults(int64(limit)).
		Type("video").
		Order("relevance").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &Error{Message: "video search failed", Cause: err}
	}

	var items []types.RawText
	for _, result := range searchResp.Items {
		if result.Id == nil || result.Id.VideoId == "" || result.Snippet == nil {
			continue
		}
		videoID := result.Id.VideoId
		videoURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)

		commentsResp, err := service.CommentThreads.List([]string{"snippet"}).
			VideoId(videoID).
			MaxResults(commentsPerVideo).
			Order("relevance").
			Context(ctx).
			Do()
		if err != nil {
			// Comments disabled or quota hit for one video; keep going.
			log.Printf("[YOUTUBE] Skipping comments for video %s: %v", videoID, err)
			continue
		}

		for _, thread := range commentsResp.Items {
			if thread.Snippet == nil || thread.Snippet.TopLevelComment == nil ||
				thread.Snippet.TopLevelComment.Snippet == nil {
				continue
			}
			items = append(items, types.RawText{
				Title:   result.Snippet.Title,
				Content: thread.Snippet.TopLevelComment.Snippet.TextDisplay,
				URL:     videoURL,
				Source:  string(PlatformYouTube),
			})
		}
	}
	return items, nil
}
