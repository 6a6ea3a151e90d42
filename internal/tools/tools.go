// Package tools implements the MCP tool surface: transcript retrieval,
// metadata, segment extraction, claim location, claim verification, and
// speaker identification.
//
// Handlers never fail the MCP call for domain problems. A video without
// captions or a missing search key is an answer, not a protocol error, so
// those render as "Error: ..." text the model can read and act on.
// Genuinely unexpected failures render as "Unexpected error: ...".
package tools

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/metric"

	"github.com/veritube/veritube/internal/observe"
	"github.com/veritube/veritube/internal/search"
	"github.com/veritube/veritube/internal/timecode"
	"github.com/veritube/veritube/internal/youtube"
)

// defaultContextRadius is the half-width in seconds of a transcript segment
// when the caller does not say otherwise.
const defaultContextRadius = 30

// Options carries presentation defaults, typically from the transcript
// section of the config file.
type Options struct {
	// ContextRadius is the default segment half-width in seconds. Zero means
	// 30.
	ContextRadius float64

	// FlushTrailingChapters emits chapter markers that start after the final
	// transcript window.
	FlushTrailingChapters bool
}

// Service holds the collaborators the tool handlers need. Construct it once
// in main and register it on an MCP server.
type Service struct {
	youtube *youtube.Client
	search  *search.Client
	metrics *observe.Metrics

	contextRadius float64
	flushTrailing bool
}

// NewService returns a [Service] using the given collaborators. metrics may
// not be nil; pass [observe.DefaultMetrics] when no custom provider is used.
func NewService(yt *youtube.Client, sc *search.Client, m *observe.Metrics, opts Options) *Service {
	radius := opts.ContextRadius
	if radius <= 0 {
		radius = defaultContextRadius
	}
	return &Service{
		youtube:       yt,
		search:        sc,
		metrics:       m,
		contextRadius: radius,
		flushTrailing: opts.FlushTrailingChapters,
	}
}

// Register adds all veritube tools to the MCP server.
func (s *Service) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_transcript",
		Description: "Get the transcript for a YouTube video with timestamps in ~10 second intervals. Chapter markers are interleaved when the video has chapters.",
	}, s.getTranscript)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_video_metadata",
		Description: "Get metadata for a YouTube video: title, author, channel URL, thumbnail, description, and optionally view/like statistics.",
	}, s.getVideoMetadata)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_transcript_languages",
		Description: "List available transcript languages for a YouTube video.",
	}, s.listTranscriptLanguages)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_transcript_segment",
		Description: "Extract the transcript segment around a timestamp (MM:SS or HH:MM:SS), with surrounding context and the containing chapter when available.",
	}, s.getTranscriptSegment)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_claim_in_transcript",
		Description: "Locate a claim in a video's transcript and return its timestamp and surrounding text. Falls back to fuzzy word-overlap matching when no exact match exists.",
	}, s.findClaimInTranscript)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_for_claim_verification",
		Description: "Search the web for fact-checks and background information about a claim. Returns structured JSON results.",
	}, s.searchForClaimVerification)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "identify_speakers",
		Description: "Identify speakers in a video transcript from text patterns (Name:, [Name], (Name)) and return a speaker summary plus the attributed transcript.",
	}, s.identifySpeakers)
}

// run wraps a tool body with an invocation ULID, structured logs, and
// metrics. The body's error is rendered as tool text, never as an MCP error.
func (s *Service) run(ctx context.Context, tool string, body func(ctx context.Context) (string, error)) (*mcp.CallToolResult, any, error) {
	id := ulid.Make().String()
	log := observe.Logger(ctx).With("tool", tool, "invocation_id", id)
	log.Debug("tool invocation started")

	s.metrics.ActiveToolCalls.Add(ctx, 1)
	defer s.metrics.ActiveToolCalls.Add(ctx, -1)

	start := time.Now()
	text, err := body(ctx)
	elapsed := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
		text = renderError(err)
		log.Warn("tool invocation failed", "err", err, "duration", elapsed)
	} else {
		log.Info("tool invocation completed", "duration", elapsed)
	}

	s.metrics.RecordToolCall(ctx, tool, status)
	s.metrics.ToolExecutionDuration.Record(ctx, elapsed.Seconds(),
		metric.WithAttributes(observe.Attr("tool", tool)))

	return textResult(text), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// renderError keeps the original presentation convention: domain failures
// the model should reason about get "Error:", everything else gets
// "Unexpected error:".
func renderError(err error) string {
	if isExpected(err) {
		return "Error: " + err.Error()
	}
	return "Unexpected error: " + err.Error()
}

func isExpected(err error) bool {
	var tsErr *timecode.InvalidTimestampError
	return errors.Is(err, youtube.ErrTranscriptUnavailable) ||
		errors.Is(err, search.ErrUnconfigured) ||
		errors.As(err, &tsErr)
}
