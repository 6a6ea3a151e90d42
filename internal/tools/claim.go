package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/veritube/veritube/internal/transcript"
	"github.com/veritube/veritube/internal/youtube"
)

type findClaimInput struct {
	// URL is a YouTube video URL or bare video ID.
	URL string `json:"url"`

	// Claim is the statement to locate in the transcript.
	Claim string `json:"claim"`

	// FuzzyMatch enables word-overlap matching when no cue contains the
	// claim verbatim. Defaults to true.
	FuzzyMatch *bool `json:"fuzzy_match,omitempty"`

	// LanguageCode selects a caption track. Empty picks the first available.
	LanguageCode string `json:"language_code,omitempty"`
}

// findClaimResult is the JSON body returned by find_claim_in_transcript.
type findClaimResult struct {
	VideoID string                 `json:"video_id"`
	Claim   string                 `json:"claim"`
	Found   bool                   `json:"found"`
	Match   *transcript.ClaimMatch `json:"match,omitempty"`
}

func (s *Service) findClaimInTranscript(ctx context.Context, req *mcp.CallToolRequest, in findClaimInput) (*mcp.CallToolResult, any, error) {
	return s.run(ctx, "find_claim_in_transcript", func(ctx context.Context) (string, error) {
		videoID := youtube.VideoID(in.URL)
		fuzzy := in.FuzzyMatch == nil || *in.FuzzyMatch

		cues, err := s.youtube.FetchCues(ctx, videoID, in.LanguageCode)
		s.recordUpstream(ctx, "youtube", "fetch_cues", err)
		if err != nil {
			return "", err
		}

		res := findClaimResult{VideoID: videoID, Claim: in.Claim}
		if match, ok := transcript.FindClaim(cues, in.Claim, fuzzy); ok {
			res.Found = true
			res.Match = &match
		}

		body, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return "", fmt.Errorf("tools: marshal claim result: %w", err)
		}
		return string(body), nil
	})
}

type verifyClaimInput struct {
	// Claim is the statement to verify.
	Claim string `json:"claim"`

	// Context optionally narrows the fact-check query, e.g. the video topic
	// or the speaker's name.
	Context string `json:"context,omitempty"`
}

// mockResultsNote warns the model that results did not come from a live
// search API.
const mockResultsNote = "[NOTE: These are synthetic mock search results. Configure a search API key for live claim verification.]"

func (s *Service) searchForClaimVerification(ctx context.Context, req *mcp.CallToolRequest, in verifyClaimInput) (*mcp.CallToolResult, any, error) {
	return s.run(ctx, "search_for_claim_verification", func(ctx context.Context) (string, error) {
		cv, err := s.search.SearchForClaim(ctx, in.Claim, in.Context)
		s.recordUpstream(ctx, "search", "search_for_claim", err)
		if err != nil {
			return "", err
		}

		body, err := json.MarshalIndent(cv, "", "  ")
		if err != nil {
			return "", fmt.Errorf("tools: marshal verification result: %w", err)
		}

		if cv.FactChecks != nil && cv.FactChecks.MockMode {
			return mockResultsNote + "\n\n" + string(body), nil
		}
		return string(body), nil
	})
}
