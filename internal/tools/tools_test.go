package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/veritube/veritube/internal/observe"
	"github.com/veritube/veritube/internal/search"
	"github.com/veritube/veritube/internal/youtube"
)

// newTestService wires a Service against a synthetic YouTube origin and a
// mock-mode search client.
func newTestService(t *testing.T, opts Options) *Service {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	watchPage := fmt.Sprintf(`<html><head>
<meta name="description" content="An interview about the moon landing.">
</head><body><script>var ytInitialPlayerResponse = {
"captionTracks":[{"baseUrl":"%s/timedtext","languageCode":"en","kind":"asr","name":{"simpleText":"English (auto-generated)"}}],
"viewCount":"1000",
"likeCount":"50",
"uploadDate":"2024-02-02",
"shortDescription":"Talk.\n0:00 Intro\n0:05 Discussion"
};</script></body></html>`, srv.URL)

	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("v") == "missing" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, watchPage)
	})
	mux.HandleFunc("/oembed", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"title":"Moon Landing Interview","author_name":"SpaceChannel","author_url":"https://youtube.com/@SpaceChannel","thumbnail_url":"https://i.ytimg.com/vi/abc/hq720.jpg"}`)
	})
	mux.HandleFunc("/timedtext", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0" dur="4">Welcome to the show</text>
  <text start="4" dur="4">John: Thanks for having me</text>
  <text start="8" dur="4">the moon landing happened in 1969</text>
</transcript>`)
	})

	yt := youtube.NewClient(youtube.WithBaseURL(srv.URL), youtube.WithHTTPClient(srv.Client()))
	sc := search.NewClient("", search.WithMockMode(true), search.WithResultCount(2))

	metrics, err := observe.NewMetrics(sdkmetric.NewMeterProvider())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return NewService(yt, sc, metrics, opts)
}

// toolText extracts the single text content block from a tool result.
func toolText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("got %d content blocks, want 1", len(res.Content))
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want *mcp.TextContent", res.Content[0])
	}
	return tc.Text
}

func TestGetTranscript(t *testing.T) {
	t.Parallel()
	s := newTestService(t, Options{})

	res, _, err := s.getTranscript(context.Background(), nil, getTranscriptInput{URL: "https://www.youtube.com/watch?v=abc123"})
	if err != nil {
		t.Fatalf("getTranscript: %v", err)
	}
	text := toolText(t, res)

	for _, want := range []string{
		"--- Video Metadata ---",
		"Title: Moon Landing Interview",
		"Author: SpaceChannel",
		"View count: 1000",
		"Likes: 50",
		"Upload date: 2024-02-02",
		"Description:\nAn interview about the moon landing.",
		"--- Transcript ---",
		"[CHAPTER] 00:00 - Intro",
		"[00:00] Welcome to the show John: Thanks for having me",
		"[CHAPTER] 00:05 - Discussion",
		"[00:08] the moon landing happened in 1969",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("transcript output missing %q\n---\n%s", want, text)
		}
	}
}

func TestGetTranscriptWithoutMetadata(t *testing.T) {
	t.Parallel()
	s := newTestService(t, Options{})

	off := false
	res, _, err := s.getTranscript(context.Background(), nil, getTranscriptInput{URL: "abc123", IncludeMetadata: &off})
	if err != nil {
		t.Fatalf("getTranscript: %v", err)
	}
	text := toolText(t, res)

	if strings.Contains(text, "Video Metadata") {
		t.Error("metadata block present despite include_metadata=false")
	}
	if !strings.Contains(text, "[00:00] Welcome to the show") {
		t.Errorf("transcript body missing:\n%s", text)
	}
}

func TestGetTranscriptUnavailable(t *testing.T) {
	t.Parallel()
	s := newTestService(t, Options{})

	res, _, err := s.getTranscript(context.Background(), nil, getTranscriptInput{URL: "missing"})
	if err != nil {
		t.Fatalf("handler must render errors as text, got: %v", err)
	}
	text := toolText(t, res)
	if !strings.HasPrefix(text, "Error: ") {
		t.Errorf("output = %q, want Error: prefix", text)
	}
}

func TestGetVideoMetadata(t *testing.T) {
	t.Parallel()
	s := newTestService(t, Options{})

	res, _, err := s.getVideoMetadata(context.Background(), nil, getVideoMetadataInput{URL: "abc123"})
	if err != nil {
		t.Fatalf("getVideoMetadata: %v", err)
	}
	text := toolText(t, res)

	for _, want := range []string{
		"--- Video Metadata ---",
		"Thumbnail URL: https://i.ytimg.com/vi/abc/hq720.jpg",
		"--- Video Statistics ---",
		"View count: 1000",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metadata output missing %q\n---\n%s", want, text)
		}
	}
}

func TestGetVideoMetadataWithoutStatistics(t *testing.T) {
	t.Parallel()
	s := newTestService(t, Options{})

	off := false
	res, _, err := s.getVideoMetadata(context.Background(), nil, getVideoMetadataInput{URL: "abc123", IncludeStatistics: &off})
	if err != nil {
		t.Fatalf("getVideoMetadata: %v", err)
	}
	if text := toolText(t, res); strings.Contains(text, "Video Statistics") {
		t.Errorf("statistics block present despite include_statistics=false:\n%s", text)
	}
}

func TestListTranscriptLanguages(t *testing.T) {
	t.Parallel()
	s := newTestService(t, Options{})

	res, _, err := s.listTranscriptLanguages(context.Background(), nil, listLanguagesInput{URL: "abc123"})
	if err != nil {
		t.Fatalf("listTranscriptLanguages: %v", err)
	}
	text := toolText(t, res)
	if !strings.Contains(text, "- English (auto-generated) (en) (auto-generated)") &&
		!strings.Contains(text, "- English (auto-generated) (en)") {
		t.Errorf("language list unexpected:\n%s", text)
	}
}

func TestGetTranscriptSegment(t *testing.T) {
	t.Parallel()
	s := newTestService(t, Options{})

	res, _, err := s.getTranscriptSegment(context.Background(), nil, getSegmentInput{URL: "abc123", Timestamp: "0:08"})
	if err != nil {
		t.Fatalf("getTranscriptSegment: %v", err)
	}
	text := toolText(t, res)

	var body struct {
		VideoID          string  `json:"video_id"`
		VideoTitle       string  `json:"video_title"`
		Timestamp        string  `json:"timestamp"`
		TimestampSeconds int     `json:"timestamp_seconds"`
		Chapter          *string `json:"chapter"`
		Segment          string  `json:"segment"`
	}
	if err := json.Unmarshal([]byte(text), &body); err != nil {
		t.Fatalf("segment result is not JSON: %v\n%s", err, text)
	}
	if body.VideoID != "abc123" || body.TimestampSeconds != 8 {
		t.Errorf("body = %+v", body)
	}
	if body.VideoTitle != "Moon Landing Interview" {
		t.Errorf("video_title = %q", body.VideoTitle)
	}
	if body.Chapter == nil || *body.Chapter != "Discussion" {
		t.Errorf("chapter = %v, want Discussion", body.Chapter)
	}
	if !strings.Contains(body.Segment, "moon landing") {
		t.Errorf("segment text = %q", body.Segment)
	}
}

func TestGetTranscriptSegmentBadTimestamp(t *testing.T) {
	t.Parallel()
	s := newTestService(t, Options{})

	res, _, err := s.getTranscriptSegment(context.Background(), nil, getSegmentInput{URL: "abc123", Timestamp: "8 seconds"})
	if err != nil {
		t.Fatalf("handler must render errors as text, got: %v", err)
	}
	if text := toolText(t, res); !strings.HasPrefix(text, "Error: ") {
		t.Errorf("output = %q, want Error: prefix for invalid timestamp", text)
	}
}

func TestFindClaimInTranscript(t *testing.T) {
	t.Parallel()
	s := newTestService(t, Options{})

	res, _, err := s.findClaimInTranscript(context.Background(), nil, findClaimInput{URL: "abc123", Claim: "moon landing happened"})
	if err != nil {
		t.Fatalf("findClaimInTranscript: %v", err)
	}
	text := toolText(t, res)

	var body findClaimResult
	if err := json.Unmarshal([]byte(text), &body); err != nil {
		t.Fatalf("claim result is not JSON: %v\n%s", err, text)
	}
	if !body.Found || body.Match == nil {
		t.Fatalf("claim not found: %+v", body)
	}
	if body.Match.Timestamp != "0:08" {
		t.Errorf("timestamp = %q, want 0:08", body.Match.Timestamp)
	}
}

func TestFindClaimNotFound(t *testing.T) {
	t.Parallel()
	s := newTestService(t, Options{})

	off := false
	res, _, err := s.findClaimInTranscript(context.Background(), nil, findClaimInput{URL: "abc123", Claim: "completely unrelated words", FuzzyMatch: &off})
	if err != nil {
		t.Fatalf("findClaimInTranscript: %v", err)
	}
	var body findClaimResult
	if err := json.Unmarshal([]byte(toolText(t, res)), &body); err != nil {
		t.Fatalf("claim result is not JSON: %v", err)
	}
	if body.Found || body.Match != nil {
		t.Errorf("unexpected match: %+v", body)
	}
}

func TestSearchForClaimVerificationMockNote(t *testing.T) {
	t.Parallel()
	s := newTestService(t, Options{})

	res, _, err := s.searchForClaimVerification(context.Background(), nil, verifyClaimInput{Claim: "the earth is round"})
	if err != nil {
		t.Fatalf("searchForClaimVerification: %v", err)
	}
	text := toolText(t, res)
	if !strings.HasPrefix(text, mockResultsNote) {
		t.Errorf("mock results missing note banner:\n%s", text)
	}
	if !strings.Contains(text, `"fact_check_results"`) || !strings.Contains(text, `"information_results"`) {
		t.Errorf("verification JSON missing result sections:\n%s", text)
	}
}

func TestSearchForClaimVerificationUnconfigured(t *testing.T) {
	t.Parallel()
	s := newTestService(t, Options{})
	s.search = search.NewClient("")

	res, _, err := s.searchForClaimVerification(context.Background(), nil, verifyClaimInput{Claim: "anything"})
	if err != nil {
		t.Fatalf("handler must render errors as text, got: %v", err)
	}
	text := toolText(t, res)
	if !strings.HasPrefix(text, "Error: ") || !strings.Contains(text, "no search API key configured") {
		t.Errorf("output = %q", text)
	}
}

func TestIdentifySpeakers(t *testing.T) {
	t.Parallel()
	s := newTestService(t, Options{})

	res, _, err := s.identifySpeakers(context.Background(), nil, identifySpeakersInput{URL: "abc123"})
	if err != nil {
		t.Fatalf("identifySpeakers: %v", err)
	}
	text := toolText(t, res)

	if !strings.Contains(text, "Found 1 potential speakers:") {
		t.Errorf("speaker summary missing:\n%s", text)
	}
	if !strings.Contains(text, "- John: 1 occurrences") {
		t.Errorf("speaker occurrences missing:\n%s", text)
	}
	if !strings.Contains(text, "<John> Thanks for having me") {
		t.Errorf("attributed transcript missing:\n%s", text)
	}
}

func TestIdentifySpeakersCountsRepeatOccurrences(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><script>var ytInitialPlayerResponse = {
"captionTracks":[{"baseUrl":"%s/timedtext","languageCode":"en","name":{"simpleText":"English"}}]
};</script></body></html>`, srv.URL)
	})
	mux.HandleFunc("/timedtext", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0" dur="3">Host: welcome back</text>
  <text start="3" dur="3">Guest: glad to be here</text>
  <text start="6" dur="3">Host: first question</text>
  <text start="9" dur="3">Host: follow up</text>
</transcript>`)
	})

	yt := youtube.NewClient(youtube.WithBaseURL(srv.URL), youtube.WithHTTPClient(srv.Client()))
	metrics, err := observe.NewMetrics(sdkmetric.NewMeterProvider())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	s := NewService(yt, search.NewClient("", search.WithMockMode(true)), metrics, Options{})

	res, _, err := s.identifySpeakers(context.Background(), nil, identifySpeakersInput{URL: "abc123"})
	if err != nil {
		t.Fatalf("identifySpeakers: %v", err)
	}
	text := toolText(t, res)

	// The summary prints how often each speaker occurs, not the raw
	// occurrence timestamps.
	if !strings.Contains(text, "- Host: 3 occurrences") {
		t.Errorf("Host count missing or wrong:\n%s", text)
	}
	if !strings.Contains(text, "- Guest: 1 occurrences") {
		t.Errorf("Guest count missing or wrong:\n%s", text)
	}
	if strings.Contains(text, "%!d") {
		t.Errorf("summary contains a formatting artifact:\n%s", text)
	}
}

func TestRegisterAddsAllTools(t *testing.T) {
	t.Parallel()
	s := newTestService(t, Options{})

	server := mcp.NewServer(&mcp.Implementation{Name: "veritube-test", Version: "0.0.1"}, nil)
	s.Register(server)
}
