package transcript

import (
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/veritube/veritube/internal/timecode"
)

// fuzzyThreshold is the minimum word-overlap score a fuzzy candidate must
// strictly exceed to count as a match. Exactly 0.5 is rejected.
const fuzzyThreshold = 0.5

// ClaimMatch locates where a claim is discussed in a transcript.
type ClaimMatch struct {
	// Timestamp is the matching cue's start in the compact clock convention.
	Timestamp string `json:"timestamp"`

	// TimestampSeconds is the matching cue's start truncated to seconds.
	TimestampSeconds int `json:"timestamp_seconds"`

	// Context is the matching cue's raw text.
	Context string `json:"context"`

	// MatchScore is the claim-word overlap fraction in (0.5, 1.0]. It is set
	// only for fuzzy matches; exact substring matches carry no score.
	MatchScore float64 `json:"match_score,omitempty"`

	// Similarity is an informational Jaro-Winkler similarity between the
	// normalized claim and the matching cue text. Like MatchScore it is set
	// only for fuzzy matches and plays no part in match acceptance.
	Similarity float64 `json:"similarity,omitempty"`
}

// FindClaim searches cues for claim. It first scans for a case-insensitive
// literal substring match and returns the earliest such cue immediately.
// When no cue contains the claim and fuzzy is true, a second pass scores
// every cue by the fraction of the claim's words it shares
// (|claim ∩ cue| / |claim|) and keeps the earliest strictly-highest score
// above 0.5.
//
// The boolean reports whether any match was found. An empty claim trivially
// substring-matches the first cue; that degenerate case is intentional.
func FindClaim(cues []Cue, claim string, fuzzy bool) (ClaimMatch, bool) {
	normalized := strings.ToLower(strings.TrimSpace(claim))

	for _, cue := range cues {
		if strings.Contains(strings.ToLower(cue.Text), normalized) {
			return ClaimMatch{
				Timestamp:        timecode.Format(int(cue.Start)),
				TimestampSeconds: int(cue.Start),
				Context:          cue.Text,
			}, true
		}
	}

	if !fuzzy {
		return ClaimMatch{}, false
	}

	claimWords := wordSet(normalized)
	if len(claimWords) == 0 {
		return ClaimMatch{}, false
	}

	var best *Cue
	bestScore := 0.0
	for i := range cues {
		cueWords := wordSet(strings.ToLower(cues[i].Text))
		common := 0
		for w := range claimWords {
			if _, ok := cueWords[w]; ok {
				common++
			}
		}
		score := float64(common) / float64(len(claimWords))
		// Strict comparisons on both bounds: exactly 0.5 never matches, and
		// ties keep the earliest cue.
		if score > fuzzyThreshold && score > bestScore {
			best = &cues[i]
			bestScore = score
		}
	}

	if best == nil {
		return ClaimMatch{}, false
	}
	return ClaimMatch{
		Timestamp:        timecode.Format(int(best.Start)),
		TimestampSeconds: int(best.Start),
		Context:          best.Text,
		MatchScore:       bestScore,
		Similarity:       matchr.JaroWinkler(normalized, strings.ToLower(best.Text), false),
	}, true
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(s)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
