package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/veritube/veritube/internal/transcript"
	"github.com/veritube/veritube/internal/youtube"
)

type getTranscriptInput struct {
	// URL is a YouTube video URL or bare video ID.
	URL string `json:"url"`

	// LanguageCode selects a caption track (e.g. "en", "es"). Empty picks
	// the first available track.
	LanguageCode string `json:"language_code,omitempty"`

	// IncludeMetadata prepends a video metadata block. Defaults to true.
	IncludeMetadata *bool `json:"include_metadata,omitempty"`
}

func (s *Service) getTranscript(ctx context.Context, req *mcp.CallToolRequest, in getTranscriptInput) (*mcp.CallToolResult, any, error) {
	return s.run(ctx, "get_transcript", func(ctx context.Context) (string, error) {
		videoID := youtube.VideoID(in.URL)
		includeMeta := in.IncludeMetadata == nil || *in.IncludeMetadata

		// The cue fetch is the only hard dependency; metadata, statistics,
		// and chapter extraction degrade independently.
		var (
			cues     []transcript.Cue
			chapters []transcript.Chapter
			md       *youtube.Metadata
			mdErr    error
			stats    *youtube.Statistics
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			cues, err = s.youtube.FetchCues(gctx, videoID, in.LanguageCode)
			s.recordUpstream(gctx, "youtube", "fetch_cues", err)
			return err
		})
		g.Go(func() error {
			chapters, _ = s.youtube.FetchChapters(gctx, videoID)
			return nil
		})
		if includeMeta {
			g.Go(func() error {
				md, mdErr = s.youtube.FetchMetadata(gctx, videoID)
				s.recordUpstream(gctx, "youtube", "fetch_metadata", mdErr)
				return nil
			})
			g.Go(func() error {
				stats, _ = s.youtube.FetchStatistics(gctx, videoID)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return "", err
		}

		s.metrics.TranscriptCues.Record(ctx, int64(len(cues)))

		var b strings.Builder
		if includeMeta {
			if mdErr != nil {
				fmt.Fprintf(&b, "Error fetching metadata: %s\n\n", mdErr)
			} else {
				b.WriteString("--- Video Metadata ---\n")
				fmt.Fprintf(&b, "Title: %s\n", md.Title)
				fmt.Fprintf(&b, "Author: %s\n", md.Author)
				fmt.Fprintf(&b, "Channel URL: %s\n", md.ChannelURL)
				writeStatistics(&b, stats)
				fmt.Fprintf(&b, "\nDescription:\n%s\n\n", md.Description)
				b.WriteString("--- Transcript ---\n")
			}
		}
		b.WriteString(transcript.ReflowWithChapters(cues, chapters, s.flushTrailing))
		return b.String(), nil
	})
}

// writeStatistics appends the non-empty statistics fields, one per line.
func writeStatistics(b *strings.Builder, stats *youtube.Statistics) {
	if stats == nil {
		return
	}
	if stats.ViewCount != "" {
		fmt.Fprintf(b, "View count: %s\n", stats.ViewCount)
	}
	if stats.LikeCount != "" {
		fmt.Fprintf(b, "Likes: %s\n", stats.LikeCount)
	}
	if stats.UploadDate != "" {
		fmt.Fprintf(b, "Upload date: %s\n", stats.UploadDate)
	}
}

type listLanguagesInput struct {
	// URL is a YouTube video URL or bare video ID.
	URL string `json:"url"`
}

func (s *Service) listTranscriptLanguages(ctx context.Context, req *mcp.CallToolRequest, in listLanguagesInput) (*mcp.CallToolResult, any, error) {
	return s.run(ctx, "list_transcript_languages", func(ctx context.Context) (string, error) {
		videoID := youtube.VideoID(in.URL)

		langs, err := s.youtube.ListLanguages(ctx, videoID)
		s.recordUpstream(ctx, "youtube", "list_languages", err)
		if err != nil {
			return "", err
		}
		if len(langs) == 0 {
			return "No transcripts available for this video.", nil
		}

		var b strings.Builder
		b.WriteString("Available transcript languages:\n")
		for _, l := range langs {
			fmt.Fprintf(&b, "- %s (%s)", l.Name, l.Code)
			if l.IsGenerated {
				b.WriteString(" (auto-generated)")
			}
			b.WriteString("\n")
		}
		return b.String(), nil
	})
}

// recordUpstream records one upstream request with ok/error status, plus an
// error counter increment on failure.
func (s *Service) recordUpstream(ctx context.Context, upstream, operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		s.metrics.RecordUpstreamError(ctx, upstream, operation)
	}
	s.metrics.RecordUpstreamRequest(ctx, upstream, operation, status)
}
