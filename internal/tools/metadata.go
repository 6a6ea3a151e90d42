package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/veritube/veritube/internal/youtube"
)

type getVideoMetadataInput struct {
	// URL is a YouTube video URL or bare video ID.
	URL string `json:"url"`

	// IncludeStatistics appends view count, likes, and upload date when
	// available. Defaults to true.
	IncludeStatistics *bool `json:"include_statistics,omitempty"`
}

func (s *Service) getVideoMetadata(ctx context.Context, req *mcp.CallToolRequest, in getVideoMetadataInput) (*mcp.CallToolResult, any, error) {
	return s.run(ctx, "get_video_metadata", func(ctx context.Context) (string, error) {
		videoID := youtube.VideoID(in.URL)
		includeStats := in.IncludeStatistics == nil || *in.IncludeStatistics

		md, err := s.youtube.FetchMetadata(ctx, videoID)
		s.recordUpstream(ctx, "youtube", "fetch_metadata", err)
		if err != nil {
			return "", err
		}

		var b strings.Builder
		b.WriteString("--- Video Metadata ---\n")
		fmt.Fprintf(&b, "Title: %s\n", md.Title)
		fmt.Fprintf(&b, "Author: %s\n", md.Author)
		fmt.Fprintf(&b, "Channel URL: %s\n", md.ChannelURL)
		fmt.Fprintf(&b, "Thumbnail URL: %s\n", md.ThumbnailURL)

		if includeStats {
			// Statistics are best-effort: skipped entirely on error.
			if stats, err := s.youtube.FetchStatistics(ctx, videoID); err == nil && hasStatistics(stats) {
				b.WriteString("\n--- Video Statistics ---\n")
				writeStatistics(&b, stats)
			}
		}

		fmt.Fprintf(&b, "\nDescription:\n%s", md.Description)
		return b.String(), nil
	})
}

func hasStatistics(stats *youtube.Statistics) bool {
	return stats != nil && (stats.ViewCount != "" || stats.LikeCount != "" || stats.UploadDate != "")
}
