package transcript

import (
	"reflect"
	"testing"
)

func TestLocateSegment_OverlapCases(t *testing.T) {
	t.Parallel()
	spanning := Cue{Text: "spanning", Start: 25, Duration: 10} // [25, 35]

	tests := []struct {
		name         string
		target       float64
		radius       float64
		wantIncluded bool
	}{
		// Window [20, 40] fully contains the cue.
		{"cue inside window", 30, 10, true},
		// Window [34, 38]: the cue's end (35) falls inside.
		{"cue ends inside window", 36, 2, true},
		// Window [24, 26]: the cue's start (25) falls inside.
		{"cue starts inside window", 25, 1, true},
		// Window [29, 31]: the cue spans the whole window.
		{"cue spans window", 30, 1, true},
		// Window [36, 44]: no overlap.
		{"cue before window", 40, 4, false},
		// Window [10, 20]: no overlap.
		{"cue after window", 15, 5, false},
		// Boundary touch is inclusive: window [35, 45] touches cue end.
		{"boundary inclusive", 40, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocateSegment([]Cue{spanning}, tt.target, tt.radius)
			if included := len(got) == 1; included != tt.wantIncluded {
				t.Errorf("LocateSegment(target=%v, radius=%v) included=%v, want %v",
					tt.target, tt.radius, included, tt.wantIncluded)
			}
		})
	}
}

func TestLocateSegment_ClampsWindowStart(t *testing.T) {
	t.Parallel()
	cues := []Cue{
		{Text: "first", Start: 0, Duration: 5},
		{Text: "later", Start: 100, Duration: 5},
	}
	got := LocateSegment(cues, 2, 30) // window would be [-28, 32], clamped to [0, 32]
	if len(got) != 1 || got[0].Text != "first" {
		t.Errorf("LocateSegment near zero = %+v, want just the first cue", got)
	}
}

func TestLocateSegment_PreservesOrder(t *testing.T) {
	t.Parallel()
	cues := cueSeq(0, 5, "a", "b", "c", "d")
	got := LocateSegment(cues, 10, 7) // window [3, 17] touches all four
	var texts []string
	for _, c := range got {
		texts = append(texts, c.Text)
	}
	if !reflect.DeepEqual(texts, []string{"a", "b", "c", "d"}) {
		t.Errorf("selection order = %v", texts)
	}
}

func TestCurrentChapter(t *testing.T) {
	t.Parallel()
	chapters := []Chapter{
		// Deliberately unsorted: the resolver must not trust caller order.
		{Title: "Late", Start: 300},
		{Title: "Intro", Start: 0},
		{Title: "Middle", Start: 120},
	}

	tests := []struct {
		target    float64
		wantTitle string
		wantFound bool
	}{
		{0, "Intro", true},
		{119, "Intro", true},
		{120, "Middle", true},
		{299.9, "Middle", true},
		{300, "Late", true},
		{9999, "Late", true},
	}

	for _, tt := range tests {
		got, found := CurrentChapter(chapters, tt.target)
		if found != tt.wantFound || got.Title != tt.wantTitle {
			t.Errorf("CurrentChapter(%v) = %q, %v; want %q, %v",
				tt.target, got.Title, found, tt.wantTitle, tt.wantFound)
		}
	}

	if _, found := CurrentChapter(chapters, -1); found {
		t.Error("CurrentChapter before every chapter should report not found")
	}
	if _, found := CurrentChapter(nil, 50); found {
		t.Error("CurrentChapter with no chapters should report not found")
	}
}
