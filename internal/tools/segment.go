package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/veritube/veritube/internal/timecode"
	"github.com/veritube/veritube/internal/transcript"
	"github.com/veritube/veritube/internal/youtube"
)

type getSegmentInput struct {
	// URL is a YouTube video URL or bare video ID.
	URL string `json:"url"`

	// Timestamp is the point of interest, formatted MM:SS or HH:MM:SS.
	Timestamp string `json:"timestamp"`

	// ContextSeconds is how much context to include before and after the
	// timestamp. Zero uses the server default (30 seconds unless configured).
	ContextSeconds float64 `json:"context_seconds,omitempty"`

	// LanguageCode selects a caption track. Empty picks the first available.
	LanguageCode string `json:"language_code,omitempty"`
}

// segmentResult is the JSON body returned by get_transcript_segment.
type segmentResult struct {
	VideoID          string  `json:"video_id"`
	VideoTitle       string  `json:"video_title"`
	Author           string  `json:"author"`
	Timestamp        string  `json:"timestamp"`
	TimestampSeconds int     `json:"timestamp_seconds"`
	ContextSeconds   float64 `json:"context_seconds"`
	Chapter          *string `json:"chapter"`
	Segment          string  `json:"segment"`
}

func (s *Service) getTranscriptSegment(ctx context.Context, req *mcp.CallToolRequest, in getSegmentInput) (*mcp.CallToolResult, any, error) {
	return s.run(ctx, "get_transcript_segment", func(ctx context.Context) (string, error) {
		videoID := youtube.VideoID(in.URL)

		target, err := timecode.Parse(in.Timestamp)
		if err != nil {
			return "", err
		}

		radius := in.ContextSeconds
		if radius <= 0 {
			radius = s.contextRadius
		}

		cues, err := s.youtube.FetchCues(ctx, videoID, in.LanguageCode)
		s.recordUpstream(ctx, "youtube", "fetch_cues", err)
		if err != nil {
			return "", err
		}

		res := segmentResult{
			VideoID:          videoID,
			VideoTitle:       "Unknown",
			Author:           "Unknown",
			Timestamp:        in.Timestamp,
			TimestampSeconds: target,
			ContextSeconds:   radius,
		}

		// Metadata and chapters are enrichment; their failure never loses
		// the segment itself.
		if md, err := s.youtube.FetchMetadata(ctx, videoID); err == nil {
			res.VideoTitle = md.Title
			res.Author = md.Author
		}
		if chapters, err := s.youtube.FetchChapters(ctx, videoID); err == nil {
			if ch, ok := transcript.CurrentChapter(chapters, float64(target)); ok {
				res.Chapter = &ch.Title
			}
		}

		segment := transcript.LocateSegment(cues, float64(target), radius)
		res.Segment = transcript.Reflow(segment)

		body, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return "", fmt.Errorf("tools: marshal segment result: %w", err)
		}
		return string(body), nil
	})
}
