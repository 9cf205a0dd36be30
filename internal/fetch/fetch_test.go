package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPlatform(t *testing.T) {
	cases := []struct {
		url  string
		want Platform
	}{
		{"https://www.reddit.com/r/phones/comments/abc/review/", PlatformReddit},
		{"https://redd.it/abc123", PlatformReddit},
		{"https://www.youtube.com/watch?v=abc", PlatformYouTube},
		{"https://youtu.be/abc", PlatformYouTube},
		{"https://twitter.com/someone/status/1", PlatformTwitter},
		{"https://x.com/someone/status/1", PlatformTwitter},
		{"https://example.com/reviews", PlatformWeb},
		{"not a url at all", PlatformUnknown},
		{"", PlatformUnknown},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, DetectPlatform(tc.url), "url %q", tc.url)
	}
}

func TestGet(t *testing.T) {
	var gotUA, gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotHeader = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("hello"))
	}))
	defer srv.Close()

	opts := DefaultOptions()
	opts.UserAgent = "test-agent/1.0"
	opts.Headers = map[string]string{"Authorization": "Bearer tok"}

	body, err := Get(context.Background(), srv.URL, opts)

	require.NoError(t, err)
	assert.Equal(t, "hello", body)
	assert.Equal(t, "test-agent/1.0", gotUA)
	assert.Equal(t, "Bearer tok", gotHeader)
}

func TestGet_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := Get(context.Background(), srv.URL, nil)

	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	assert.Contains(t, ferr.Message, "429")
	assert.Equal(t, srv.URL, ferr.URL)
}

func TestGet_InvalidURL(t *testing.T) {
	_, err := Get(context.Background(), "not-a-url", nil)

	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	assert.Contains(t, ferr.Message, "invalid URL")
}

func TestExtractComments_SelectorPriority(t *testing.T) {
	html := `<html><body>
		<div class="comment-body">The battery drains way too fast here.</div>
		<div class="comment-body">tiny</div>
		<p>This paragraph should be ignored because a comment selector matched first.</p>
	</body></html>`

	blocks, err := ExtractComments(html)

	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "The battery drains way too fast here.", blocks[0])
}

func TestExtractComments_FallsBackToParagraphs(t *testing.T) {
	html := `<html><body>
		<p>short one</p>
		<p>The screen is far too dim outdoors in daylight.</p>
	</body></html>`

	blocks, err := ExtractComments(html)

	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Contains(t, blocks[0], "too dim outdoors")
}

func TestExtractComments_NoContent(t *testing.T) {
	blocks, err := ExtractComments(`<html><body><div>hi</div></body></html>`)

	require.NoError(t, err)
	assert.Empty(t, blocks)
}
