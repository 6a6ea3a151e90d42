package transcript

import "sort"

// LocateSegment returns the cues whose time interval intersects the window
// [target-radius, target+radius], clamped at zero on the left. Both window
// ends are inclusive, and three overlap cases are tested so that cues
// straddling a boundary are kept: the cue starts inside the window, the cue
// ends inside the window, or the cue spans the whole window.
func LocateSegment(cues []Cue, target, radius float64) []Cue {
	windowStart := target - radius
	if windowStart < 0 {
		windowStart = 0
	}
	windowEnd := target + radius

	var out []Cue
	for _, cue := range cues {
		cueStart := cue.Start
		cueEnd := cue.Start + cue.Duration

		startsInside := cueStart >= windowStart && cueStart <= windowEnd
		endsInside := cueEnd >= windowStart && cueEnd <= windowEnd
		spans := cueStart <= windowStart && cueEnd >= windowEnd

		if startsInside || endsInside || spans {
			out = append(out, cue)
		}
	}
	return out
}

// CurrentChapter resolves the chapter active at target: the latest chapter
// whose start is at or before target. A local copy of chapters is sorted
// ascending first, so caller ordering is irrelevant. The second return value
// is false when target precedes every chapter or chapters is empty.
func CurrentChapter(chapters []Chapter, target float64) (Chapter, bool) {
	sorted := make([]Chapter, len(chapters))
	copy(sorted, chapters)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var current Chapter
	found := false
	for _, ch := range sorted {
		if ch.Start <= target {
			current = ch
			found = true
		}
	}
	return current, found
}
