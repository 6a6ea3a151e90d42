package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/veritube/veritube/internal/transcript"
)

// Language describes one available caption track.
type Language struct {
	// Code is the BCP-47 language code (e.g. "en", "es").
	Code string `json:"language_code"`

	// Name is the human-readable language name.
	Name string `json:"language"`

	// IsGenerated reports whether the track was machine-generated rather
	// than uploaded by the channel.
	IsGenerated bool `json:"is_generated"`
}

// captionTrack mirrors one entry of the watch page's captionTracks table.
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" marks auto-generated tracks
	Name         struct {
		SimpleText string `json:"simpleText"`
		Runs       []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"name"`
}

// displayName returns the track's human-readable name regardless of which
// JSON shape the page used.
func (t captionTrack) displayName() string {
	if t.Name.SimpleText != "" {
		return t.Name.SimpleText
	}
	var sb strings.Builder
	for _, r := range t.Name.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// captionTracks extracts the caption track table from a video's watch page.
func (c *Client) captionTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	page, err := c.fetchWatchPage(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTranscriptUnavailable, err)
	}

	raw, ok := extractJSONValue(page, "captionTracks")
	if !ok {
		return nil, fmt.Errorf("%w: no caption tracks for video %q", ErrTranscriptUnavailable, videoID)
	}

	var tracks []captionTrack
	if err := json.Unmarshal([]byte(raw), &tracks); err != nil {
		return nil, fmt.Errorf("%w: parse caption tracks for %q: %w", ErrTranscriptUnavailable, videoID, err)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: empty caption track table for %q", ErrTranscriptUnavailable, videoID)
	}
	return tracks, nil
}

// ListLanguages returns the caption languages available for a video, in the
// order the watch page lists them.
func (c *Client) ListLanguages(ctx context.Context, videoID string) ([]Language, error) {
	tracks, err := c.captionTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}

	langs := make([]Language, len(tracks))
	for i, t := range tracks {
		langs[i] = Language{
			Code:        t.LanguageCode,
			Name:        t.displayName(),
			IsGenerated: t.Kind == "asr",
		}
	}
	return langs, nil
}

// timedText mirrors the timedtext XML document a caption track URL serves.
type timedText struct {
	Texts []struct {
		Start float64 `xml:"start,attr"`
		Dur   float64 `xml:"dur,attr"`
		Body  string  `xml:",chardata"`
	} `xml:"text"`
}

// FetchCues downloads and decodes a video's caption track. languageCode
// selects a track by exact code match; when empty, the first listed track is
// used. A missing track or a failed fetch yields an error wrapping
// [ErrTranscriptUnavailable].
func (c *Client) FetchCues(ctx context.Context, videoID, languageCode string) ([]transcript.Cue, error) {
	tracks, err := c.captionTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}

	track := tracks[0]
	if languageCode != "" {
		found := false
		for _, t := range tracks {
			if t.LanguageCode == languageCode {
				track = t
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: no %q caption track for video %q",
				ErrTranscriptUnavailable, languageCode, videoID)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.BaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build timedtext request: %w", ErrTranscriptUnavailable, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch timedtext for %q: %w", ErrTranscriptUnavailable, videoID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: timedtext for %q returned %s", ErrTranscriptUnavailable, videoID, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read timedtext for %q: %w", ErrTranscriptUnavailable, videoID, err)
	}

	var doc timedText
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode timedtext for %q: %w", ErrTranscriptUnavailable, videoID, err)
	}

	cues := make([]transcript.Cue, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		text := strings.TrimSpace(html.UnescapeString(t.Body))
		if text == "" {
			continue
		}
		cues = append(cues, transcript.Cue{
			Text:     text,
			Start:    t.Start,
			Duration: t.Dur,
		})
	}
	return cues, nil
}
