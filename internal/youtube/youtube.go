// Package youtube retrieves caption tracks, metadata, statistics, and
// chapter markers for YouTube videos.
//
// Everything here is scraped from public surfaces: the oEmbed endpoint for
// basic metadata, and the watch page's embedded player JSON for caption
// track tables, statistics, and chapters. These surfaces are unversioned, so
// every extraction is best-effort; callers distinguish hard failures (no
// caption track: [ErrTranscriptUnavailable]) from soft ones (missing
// statistics fields come back empty rather than failing the call).
//
// All lower-level network and parse errors are translated to package errors
// at this boundary; the transcript core never sees them.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/veritube/veritube/internal/resilience"
)

// ErrTranscriptUnavailable reports that a video has no usable caption track,
// either because none exists or because the fetch failed. Wrapped errors
// carry the underlying cause.
var ErrTranscriptUnavailable = errors.New("youtube: transcript unavailable")

const (
	defaultWatchBase   = "https://www.youtube.com"
	defaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	defaultHTTPTimeout = 20 * time.Second
)

// Option is a functional option for configuring a [Client].
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header sent on watch-page requests.
// YouTube serves a reduced page to unknown agents, so the default mimics a
// desktop browser.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithBaseURL overrides the YouTube origin. Used by tests to point the
// client at a local server.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.watchBase = strings.TrimRight(base, "/")
	}
}

// Client fetches video data from YouTube. All methods are safe for
// concurrent use; the Client is read-only after construction.
type Client struct {
	httpClient *http.Client
	userAgent  string
	watchBase  string

	// breaker backs off watch-page fetches when YouTube starts rejecting us,
	// e.g. rate limiting or bot detection.
	breaker *resilience.Breaker
}

// NewClient returns a ready-to-use [Client] configured with the supplied
// options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		userAgent:  defaultUserAgent,
		watchBase:  defaultWatchBase,
		breaker:    resilience.NewBreaker("youtube", resilience.Settings{}),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// VideoID extracts the video identifier from a YouTube URL. Watch URLs and
// short youtu.be links are recognised; anything else is assumed to already
// be an ID and returned as-is.
func VideoID(url string) string {
	if _, after, ok := strings.Cut(url, "youtube.com/watch?v="); ok {
		id, _, _ := strings.Cut(after, "&")
		return id
	}
	if _, after, ok := strings.Cut(url, "youtu.be/"); ok {
		id, _, _ := strings.Cut(after, "?")
		return id
	}
	return url
}

// fetchWatchPage downloads the watch page HTML for a video. Requests go
// through the client's circuit breaker; a tripped breaker fails fast instead
// of waiting out another timeout.
func (c *Client) fetchWatchPage(ctx context.Context, videoID string) (string, error) {
	var page string
	err := c.breaker.Do(ctx, func() error {
		url := c.watchBase + "/watch?v=" + videoID
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("youtube: build watch request for %q: %w", videoID, err)
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("youtube: fetch watch page for %q: %w", videoID, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("youtube: watch page for %q returned %s", videoID, resp.Status)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("youtube: read watch page for %q: %w", videoID, err)
		}
		page = string(body)
		return nil
	})
	return page, err
}

// extractJSONValue returns the JSON array or object immediately following
// `"key":` in page, found by balanced bracket scanning (the player JSON
// nests arbitrarily, so a regexp cannot bound it). The second return value
// is false when the key is absent or the value is malformed.
func extractJSONValue(page, key string) (string, bool) {
	marker := `"` + key + `":`
	idx := strings.Index(page, marker)
	if idx == -1 {
		return "", false
	}
	rest := page[idx+len(marker):]
	if rest == "" {
		return "", false
	}

	open := rest[0]
	var closing byte
	switch open {
	case '[':
		closing = ']'
	case '{':
		closing = '}'
	default:
		return "", false
	}

	depth := 0
	inString := false
	for i := 0; i < len(rest); i++ {
		ch := rest[i]
		if inString {
			switch ch {
			case '\\':
				i++ // skip the escaped character
			case '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return rest[:i+1], true
			}
		}
	}
	return "", false
}
