package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
)

// Metadata holds a video's descriptive fields. Description is best-effort:
// it comes from the watch page rather than oEmbed and carries a short
// explanatory note when scraping fails.
type Metadata struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	ChannelURL   string `json:"channel_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Description  string `json:"description"`
}

// oembedResponse mirrors the fields of YouTube's oEmbed JSON we consume.
type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	AuthorURL    string `json:"author_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

var (
	metaDescriptionPattern = regexp.MustCompile(`<meta name="description" content="([^"]*)"`)
	metaTitlePattern       = regexp.MustCompile(`<meta name="title" content="([^"]*)"`)
)

// FetchMetadata retrieves a video's title, author, channel URL, thumbnail,
// and description. The oEmbed endpoint supplies the identifying fields and
// its failure fails the call; the description is scraped from the watch page
// and degrades to an explanatory placeholder instead of failing.
func (c *Client) FetchMetadata(ctx context.Context, videoID string) (*Metadata, error) {
	oembedURL := c.watchBase + "/oembed?url=" +
		url.QueryEscape(defaultWatchBase+"/watch?v="+videoID) + "&format=json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, oembedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("youtube: build oembed request for %q: %w", videoID, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube: fetch oembed for %q: %w", videoID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube: oembed for %q returned %s", videoID, resp.Status)
	}

	var oe oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&oe); err != nil {
		return nil, fmt.Errorf("youtube: decode oembed for %q: %w", videoID, err)
	}

	md := &Metadata{
		Title:        oe.Title,
		Author:       oe.AuthorName,
		ChannelURL:   oe.AuthorURL,
		ThumbnailURL: oe.ThumbnailURL,
	}

	// Description lives only on the watch page. Secondary data: never fail
	// the whole call over it.
	page, err := c.fetchWatchPage(ctx, videoID)
	if err != nil {
		md.Description = "Description unavailable: " + err.Error()
		return md, nil
	}
	if m := metaDescriptionPattern.FindStringSubmatch(page); m != nil {
		md.Description = m[1]
	}
	if md.Title == "" {
		if m := metaTitlePattern.FindStringSubmatch(page); m != nil {
			md.Title = m[1]
		}
	}
	return md, nil
}
