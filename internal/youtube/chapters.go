package youtube

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/veritube/veritube/internal/timecode"
	"github.com/veritube/veritube/internal/transcript"
)

var (
	shortDescriptionPattern = regexp.MustCompile(`"shortDescription":"((?:[^"\\]|\\.)*)"`)
	chapterLinePattern      = regexp.MustCompile(`^\s*[\[(]?(\d{1,2}:\d{2}(?::\d{2})?)[\])]?\s*[-–:]?\s*(.+?)\s*$`)
	chapterRendererPattern  = regexp.MustCompile(`"chapterRenderer":\{"title":\{"simpleText":"((?:[^"\\]|\\.)*)"\},"timeRangeStartMillis":(\d+)`)
)

// FetchChapters extracts a video's chapter list from the watch page. Creator
// descriptions are the primary source: any line starting with a timestamp is
// treated as a chapter marker. When the description yields nothing we fall
// back to the player's chapterRenderer JSON. Chapters are deduplicated by
// start time and returned in ascending order; a video without chapters
// produces an empty slice, not an error.
func (c *Client) FetchChapters(ctx context.Context, videoID string) ([]transcript.Chapter, error) {
	page, err := c.fetchWatchPage(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("youtube: fetch chapters for %q: %w", videoID, err)
	}

	chapters := chaptersFromDescription(page)
	if len(chapters) == 0 {
		chapters = chaptersFromRenderer(page)
	}
	return normalizeChapters(chapters), nil
}

func chaptersFromDescription(page string) []transcript.Chapter {
	m := shortDescriptionPattern.FindStringSubmatch(page)
	if m == nil {
		return nil
	}
	desc, err := strconv.Unquote(`"` + m[1] + `"`)
	if err != nil {
		desc = strings.ReplaceAll(m[1], `\n`, "\n")
	}

	var chapters []transcript.Chapter
	for _, line := range strings.Split(desc, "\n") {
		lm := chapterLinePattern.FindStringSubmatch(line)
		if lm == nil {
			continue
		}
		secs, err := timecode.Parse(lm[1])
		if err != nil {
			continue
		}
		chapters = append(chapters, transcript.Chapter{Title: lm[2], Start: float64(secs)})
	}
	return chapters
}

func chaptersFromRenderer(page string) []transcript.Chapter {
	var chapters []transcript.Chapter
	for _, m := range chapterRendererPattern.FindAllStringSubmatch(page, -1) {
		title, err := strconv.Unquote(`"` + m[1] + `"`)
		if err != nil {
			title = m[1]
		}
		millis, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			continue
		}
		chapters = append(chapters, transcript.Chapter{Title: title, Start: float64(millis) / 1000})
	}
	return chapters
}

// normalizeChapters sorts ascending by start and drops later duplicates of
// the same start time.
func normalizeChapters(chapters []transcript.Chapter) []transcript.Chapter {
	if len(chapters) == 0 {
		return []transcript.Chapter{}
	}
	sort.SliceStable(chapters, func(i, j int) bool { return chapters[i].Start < chapters[j].Start })
	out := chapters[:1]
	for _, ch := range chapters[1:] {
		if ch.Start == out[len(out)-1].Start {
			continue
		}
		out = append(out, ch)
	}
	return out
}
