package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/veritube/veritube/internal/transcript"
	"github.com/veritube/veritube/internal/youtube"
)

type identifySpeakersInput struct {
	// URL is a YouTube video URL or bare video ID.
	URL string `json:"url"`

	// LanguageCode selects a caption track. Empty picks the first available.
	LanguageCode string `json:"language_code,omitempty"`

	// Hints lists speaker names known to appear in the video. Hinted names
	// are matched before the generic patterns, case-sensitively.
	Hints []string `json:"hints,omitempty"`
}

func (s *Service) identifySpeakers(ctx context.Context, req *mcp.CallToolRequest, in identifySpeakersInput) (*mcp.CallToolResult, any, error) {
	return s.run(ctx, "identify_speakers", func(ctx context.Context) (string, error) {
		videoID := youtube.VideoID(in.URL)

		cues, err := s.youtube.FetchCues(ctx, videoID, in.LanguageCode)
		s.recordUpstream(ctx, "youtube", "fetch_cues", err)
		if err != nil {
			return "", err
		}

		attributed, log := transcript.AttributeSpeakers(cues, in.Hints)

		var b strings.Builder
		if log.Len() == 0 {
			b.WriteString("No speakers identified using pattern matching.\n")
		} else {
			fmt.Fprintf(&b, "Found %d potential speakers:\n", log.Len())
			for _, name := range log.Names() {
				fmt.Fprintf(&b, "  - %s: %d occurrences\n", name, len(log.Occurrences(name)))
			}
		}
		b.WriteString("\nTranscript with speakers:\n")
		b.WriteString(transcript.FormatWithSpeakers(attributed))
		return b.String(), nil
	})
}
