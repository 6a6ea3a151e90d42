package transcript

import "testing"

var claimCues = []Cue{
	{Text: "Welcome back to the show.", Start: 0, Duration: 4},
	{Text: "Today we say Hello World to our new viewers.", Start: 4, Duration: 5},
	// No trailing period: tokens come from a bare whitespace split, so
	// punctuation sticks to the word and "blue." would not count as "blue".
	{Text: "The sky is extremely blue", Start: 9, Duration: 4},
	{Text: "Weather report coming up.", Start: 13, Duration: 3},
}

func TestFindClaim_ExactMatch(t *testing.T) {
	t.Parallel()
	got, found := FindClaim(claimCues, "hello world", true)
	if !found {
		t.Fatal("expected exact match")
	}
	if got.Context != claimCues[1].Text {
		t.Errorf("Context = %q", got.Context)
	}
	if got.TimestampSeconds != 4 {
		t.Errorf("TimestampSeconds = %d, want 4", got.TimestampSeconds)
	}
	if got.Timestamp != "0:04" {
		t.Errorf("Timestamp = %q, want 0:04 (compact convention)", got.Timestamp)
	}
	// Exact matches never carry a fuzzy score.
	if got.MatchScore != 0 || got.Similarity != 0 {
		t.Errorf("exact match carries fuzzy fields: score=%v similarity=%v",
			got.MatchScore, got.Similarity)
	}
}

func TestFindClaim_ExactPrecedesFuzzy(t *testing.T) {
	t.Parallel()
	// The claim appears verbatim in a late cue while an earlier cue would
	// fuzzy-score well; the exact pass must win and return no score.
	cues := []Cue{
		{Text: "the sky is very very blue today indeed", Start: 0},
		{Text: "I said the sky is blue today.", Start: 10},
	}
	got, found := FindClaim(cues, "The Sky Is Blue Today", true)
	if !found {
		t.Fatal("expected match")
	}
	if got.TimestampSeconds != 10 {
		t.Errorf("matched cue at %d, want the exact match at 10", got.TimestampSeconds)
	}
	if got.MatchScore != 0 {
		t.Errorf("MatchScore = %v, want 0 for exact match", got.MatchScore)
	}
}

func TestFindClaim_FuzzyThreshold(t *testing.T) {
	t.Parallel()

	// 4 of 5 claim words overlap with "The sky is extremely blue": 0.8.
	got, found := FindClaim(claimCues, "the sky is blue today", true)
	if !found {
		t.Fatal("expected fuzzy match")
	}
	if got.Context != "The sky is extremely blue" {
		t.Errorf("Context = %q", got.Context)
	}
	if got.MatchScore != 0.8 {
		t.Errorf("MatchScore = %v, want 0.8", got.MatchScore)
	}
	if got.Similarity <= 0 || got.Similarity > 1 {
		t.Errorf("Similarity = %v, want a score in (0, 1]", got.Similarity)
	}

	// Punctuation binds to its token under the bare split: "blue." is not
	// "blue", so the same claim scores only 3/5 against a punctuated cue.
	punctuated := []Cue{{Text: "The sky is extremely blue.", Start: 9}}
	got, found = FindClaim(punctuated, "the sky is blue today", true)
	if !found {
		t.Fatal("expected fuzzy match against punctuated cue")
	}
	if got.MatchScore != 0.6 {
		t.Errorf("MatchScore = %v, want 0.6 for punctuated token", got.MatchScore)
	}

	// Zero overlap never matches.
	if _, found := FindClaim(claimCues, "quantum chromodynamics lecture", true); found {
		t.Error("expected no match for zero-overlap claim")
	}

	// Exactly 0.5 overlap does not clear the strict threshold.
	cues := []Cue{{Text: "alpha beta something else", Start: 0}}
	if _, found := FindClaim(cues, "alpha beta gamma delta", true); found {
		t.Error("overlap of exactly 0.5 must not match")
	}
}

func TestFindClaim_FuzzyDisabled(t *testing.T) {
	t.Parallel()
	if _, found := FindClaim(claimCues, "the sky is blue today", false); found {
		t.Error("fuzzy disabled: near-miss claim must not match")
	}
}

func TestFindClaim_TieKeepsEarliest(t *testing.T) {
	t.Parallel()
	cues := []Cue{
		{Text: "one two three four noise", Start: 5},
		{Text: "one two three four other", Start: 50},
	}
	got, found := FindClaim(cues, "one two three four five", true)
	if !found {
		t.Fatal("expected fuzzy match")
	}
	if got.TimestampSeconds != 5 {
		t.Errorf("tie resolved to %d, want earliest cue at 5", got.TimestampSeconds)
	}
}

func TestFindClaim_EmptyClaimMatchesFirstCue(t *testing.T) {
	t.Parallel()
	// Documented degenerate case: the empty claim is a substring of every
	// cue, so the very first cue is returned as an exact match.
	got, found := FindClaim(claimCues, "   ", true)
	if !found {
		t.Fatal("expected trivial match")
	}
	if got.Context != claimCues[0].Text {
		t.Errorf("Context = %q, want first cue", got.Context)
	}
}

func TestFindClaim_NoCues(t *testing.T) {
	t.Parallel()
	if _, found := FindClaim(nil, "anything", true); found {
		t.Error("no cues: expected no match")
	}
}
