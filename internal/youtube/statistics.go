package youtube

import (
	"context"
	"fmt"
	"regexp"
)

// Statistics holds engagement counters scraped from the watch page. Every
// field is optional; YouTube serves different page variants and any counter
// may simply not be present in the markup we received.
type Statistics struct {
	ViewCount  string `json:"view_count,omitempty"`
	LikeCount  string `json:"like_count,omitempty"`
	UploadDate string `json:"upload_date,omitempty"`
}

var (
	viewCountPattern   = regexp.MustCompile(`"viewCount":"(\d+)"`)
	likeCountPattern   = regexp.MustCompile(`"likeCount":"(\d+)"`)
	likeLabelPattern   = regexp.MustCompile(`"label":"([\d,.]+) likes"`)
	uploadDatePattern  = regexp.MustCompile(`"uploadDate":"([^"]+)"`)
	publishDatePattern = regexp.MustCompile(`"publishDate":"([^"]+)"`)
)

// FetchStatistics scrapes view count, like count and upload date from the
// watch page. Missing counters leave their fields empty rather than
// producing an error; only a failed page fetch is reported.
func (c *Client) FetchStatistics(ctx context.Context, videoID string) (*Statistics, error) {
	page, err := c.fetchWatchPage(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("youtube: fetch statistics for %q: %w", videoID, err)
	}

	st := &Statistics{}
	if m := viewCountPattern.FindStringSubmatch(page); m != nil {
		st.ViewCount = m[1]
	}
	if m := likeCountPattern.FindStringSubmatch(page); m != nil {
		st.LikeCount = m[1]
	} else if m := likeLabelPattern.FindStringSubmatch(page); m != nil {
		st.LikeCount = m[1]
	}
	if m := uploadDatePattern.FindStringSubmatch(page); m != nil {
		st.UploadDate = m[1]
	} else if m := publishDatePattern.FindStringSubmatch(page); m != nil {
		st.UploadDate = m[1]
	}
	return st, nil
}
