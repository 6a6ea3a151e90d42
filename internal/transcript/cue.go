// Package transcript implements the text-reshaping core for timed caption
// tracks: merging cues into fixed-width display windows with optional chapter
// annotations, recovering speaker turns from free text, extracting
// time-bounded excerpts, and locating claims inside a noisy transcript.
//
// All operations are pure transformations over in-memory cue sequences; the
// package performs no I/O and keeps no state between calls. Inputs are
// expected in non-decreasing start order (the order caption sources deliver
// them); derived structures that need a different ordering (chapters,
// fuzzy-match candidates) are sorted locally.
package transcript

import "github.com/veritube/veritube/internal/timecode"

// Cue is one timed caption entry from the source caption track. Text may
// embed a speaker label; [AttributeSpeakers] recovers it into Speaker.
type Cue struct {
	// Text is the displayed caption text.
	Text string `json:"text"`

	// Start is the offset from video start in seconds. Never negative.
	Start float64 `json:"start"`

	// Duration is the cue length in seconds. May be zero for instantaneous
	// markers.
	Duration float64 `json:"duration"`

	// Speaker is the recovered speaker label, empty when none was detected.
	Speaker string `json:"speaker,omitempty"`
}

// Chapter is a named point in the video timeline, sourced externally.
type Chapter struct {
	// Title is the chapter's display name.
	Title string `json:"title"`

	// Start is the chapter start offset in seconds. Never negative.
	Start float64 `json:"start_time"`
}

// StartFormatted renders the chapter start in the strict zero-padded clock
// convention used for chapter display.
func (c Chapter) StartFormatted() string {
	return timecode.FormatClock(int(c.Start))
}
