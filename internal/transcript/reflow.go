package transcript

import (
	"sort"
	"strings"

	"github.com/veritube/veritube/internal/timecode"
)

// windowSeconds is the target merged-window length. A window closes before
// the cue whose duration would push the accumulated total past this bound,
// so every emitted window (except possibly the last) holds at most
// windowSeconds of accumulated cues plus the single cue that started it.
const windowSeconds = 10

// window is one merged reflow output unit.
type window struct {
	start float64
	text  string
}

// line renders the window as "[MM:SS] text" using the strict clock
// convention.
func (w window) line() string {
	return "[" + timecode.FormatClock(int(w.start)) + "] " + w.text
}

// mergeWindows accumulates cues into windows of roughly windowSeconds each.
// Cue texts inside a window are joined by single spaces; the window start is
// the first accumulated cue's start. The final partial window is always
// emitted. Cues with malformed (negative) durations count as zero.
func mergeWindows(cues []Cue) []window {
	if len(cues) == 0 {
		return nil
	}

	var out []window
	var text strings.Builder
	start := cues[0].Start
	accumulated := 0.0

	for _, cue := range cues {
		d := cue.Duration
		if d < 0 {
			d = 0
		}
		if accumulated > 0 && accumulated+d > windowSeconds {
			out = append(out, window{start: start, text: text.String()})
			text.Reset()
			text.WriteString(cue.Text)
			start = cue.Start
			accumulated = d
			continue
		}
		if text.Len() > 0 {
			text.WriteString(" ")
		}
		text.WriteString(cue.Text)
		accumulated += d
	}

	if text.Len() > 0 {
		out = append(out, window{start: start, text: text.String()})
	}
	return out
}

// Reflow merges cues into ~10-second windows and renders one
// "[MM:SS] text" line per window, newline-joined. An empty cue sequence
// yields an empty string. Reflow never fails.
func Reflow(cues []Cue) string {
	windows := mergeWindows(cues)
	lines := make([]string, len(windows))
	for i, w := range windows {
		lines[i] = w.line()
	}
	return strings.Join(lines, "\n")
}

// ReflowWithChapters merges cues like [Reflow] and interleaves chapter
// annotation lines by time order. Chapters are sorted ascending by start
// once; before each window line, every not-yet-emitted chapter whose start
// is at or before the window's start (floored to whole seconds) is emitted
// as a "[CHAPTER] MM:SS - title" line. Each chapter appears at most once and
// chapter lines never go backwards in time.
//
// A chapter starting after the last window is dropped unless flushTrailing
// is set, in which case remaining chapters are appended after the final
// window.
func ReflowWithChapters(cues []Cue, chapters []Chapter, flushTrailing bool) string {
	windows := mergeWindows(cues)

	sorted := sortChapters(chapters)

	// Single-pass merge of two ordered streams: windows by start time and
	// chapters by start time, with next advancing through sorted.
	var lines []string
	next := 0
	for _, w := range windows {
		trigger := float64(int(w.start))
		for next < len(sorted) && sorted[next].Start <= trigger {
			lines = append(lines, chapterLine(sorted[next]))
			next++
		}
		lines = append(lines, w.line())
	}

	if flushTrailing {
		for ; next < len(sorted); next++ {
			lines = append(lines, chapterLine(sorted[next]))
		}
	}

	return strings.Join(lines, "\n")
}

func chapterLine(c Chapter) string {
	return "[CHAPTER] " + c.StartFormatted() + " - " + c.Title
}

// sortChapters returns a copy of chapters sorted ascending by start time
// with entries sharing a start time collapsed to the first occurrence.
// Caption sources sometimes surface the same marker through more than one
// scrape path.
func sortChapters(chapters []Chapter) []Chapter {
	sorted := make([]Chapter, len(chapters))
	copy(sorted, chapters)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	out := make([]Chapter, 0, len(sorted))
	for i, ch := range sorted {
		if i > 0 && ch.Start == sorted[i-1].Start {
			continue
		}
		out = append(out, ch)
	}
	return out
}
