// Package timecode converts between clock-style timestamp strings and
// integer seconds.
//
// Two presentation conventions exist and must not be mixed up:
//
//   - Compact ([Format]): minutes and hours carry no leading zero
//     ("3:07", "1:02:05"). Used for ad hoc second-offset display in segment
//     and claim lookups.
//   - Strict ([FormatClock]): every field is zero-padded to width 2
//     ("03:07", "01:02:05"). Used for chapter markers and merged transcript
//     windows.
package timecode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	minSecPattern    = regexp.MustCompile(`^\d+:\d{2}$`)
	hourMinSecPattern = regexp.MustCompile(`^\d+:\d{2}:\d{2}$`)
)

// InvalidTimestampError reports a timestamp string that is neither M:SS nor
// H:MM:SS.
type InvalidTimestampError struct {
	// Input is the offending timestamp string.
	Input string
}

func (e *InvalidTimestampError) Error() string {
	return fmt.Sprintf("timecode: invalid timestamp format %q: expected M:SS or H:MM:SS", e.Input)
}

// Parse converts a clock string to seconds. It accepts exactly two shapes:
// M:SS (minutes unbounded, seconds two digits) and H:MM:SS (hours unbounded,
// minutes and seconds two digits). Any other shape fails with
// [*InvalidTimestampError].
func Parse(s string) (int, error) {
	switch {
	case minSecPattern.MatchString(s):
		parts := strings.SplitN(s, ":", 2)
		minutes, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, &InvalidTimestampError{Input: s}
		}
		seconds, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, &InvalidTimestampError{Input: s}
		}
		return minutes*60 + seconds, nil

	case hourMinSecPattern.MatchString(s):
		parts := strings.SplitN(s, ":", 3)
		hours, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, &InvalidTimestampError{Input: s}
		}
		minutes, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, &InvalidTimestampError{Input: s}
		}
		seconds, err := strconv.Atoi(parts[2])
		if err != nil {
			return 0, &InvalidTimestampError{Input: s}
		}
		return hours*3600 + minutes*60 + seconds, nil

	default:
		return 0, &InvalidTimestampError{Input: s}
	}
}

// Format renders seconds in the compact convention: M:SS below one hour,
// H:MM:SS from one hour onward. Negative inputs are clamped to 0.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 3600 {
		return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// FormatClock renders seconds in the strict convention: MM:SS below one
// hour, HH:MM:SS from one hour onward, every field zero-padded to width 2.
// Negative inputs are clamped to 0.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 3600 {
		return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
