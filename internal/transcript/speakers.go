package transcript

import (
	"regexp"
	"strings"

	"github.com/veritube/veritube/internal/timecode"
)

// speakerPattern pairs a compiled prefix pattern with the capture group
// index holding the speaker label. Patterns are tried in slice order and the
// first match wins, so priority lives in the ordering, not in the patterns
// themselves.
type speakerPattern struct {
	re    *regexp.Regexp
	label int
}

// genericSpeakerPatterns are tried after any caller-supplied hints. The
// broad capitalized-name pattern deliberately precedes the role-word
// patterns: a bare role word such as "Host" is a valid name-shaped token and
// is captured by the earlier pattern. Callers depend on that ordering.
var genericSpeakerPatterns = []speakerPattern{
	// One or two capitalized words followed by a colon: "John:", "Mary Jane:".
	{re: regexp.MustCompile(`^([A-Z][a-z]+(?: [A-Z][a-z]+)?):`), label: 1},
	// Capitalized name in square brackets: "[John]".
	{re: regexp.MustCompile(`^\[([A-Z][a-z]+(?: [A-Z][a-z]+)?)\]`), label: 1},
	// Capitalized name in parentheses: "(John)".
	{re: regexp.MustCompile(`^\(([A-Z][a-z]+(?: [A-Z][a-z]+)?)\)`), label: 1},
	// Literal Speaker / Speaker N: "Speaker:", "Speaker 2:".
	{re: regexp.MustCompile(`^(Speaker(?: \d+)?):`), label: 1},
	// Fixed role words: "Interviewer:", "Participant 3:".
	{re: regexp.MustCompile(`^(Interviewer|Interviewee|Host|Guest|Moderator|Participant(?: \d+)?):`), label: 1},
}

// SpeakerLog records, per detected speaker, the start offsets of the cues
// attributed to them. Iteration order is first-seen order, which downstream
// reporting relies on.
type SpeakerLog struct {
	order       []string
	occurrences map[string][]float64
}

func newSpeakerLog() *SpeakerLog {
	return &SpeakerLog{occurrences: make(map[string][]float64)}
}

func (l *SpeakerLog) add(name string, start float64) {
	if _, seen := l.occurrences[name]; !seen {
		l.order = append(l.order, name)
	}
	l.occurrences[name] = append(l.occurrences[name], start)
}

// Names returns the detected speaker labels in first-seen order.
func (l *SpeakerLog) Names() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Occurrences returns the cue start offsets attributed to name, in
// transcript order. The result is nil for unknown speakers.
func (l *SpeakerLog) Occurrences(name string) []float64 {
	occ := l.occurrences[name]
	out := make([]float64, len(occ))
	copy(out, occ)
	return out
}

// Len returns the number of distinct speakers detected.
func (l *SpeakerLog) Len() int {
	return len(l.order)
}

// AttributeSpeakers scans each cue's text for a leading speaker label and,
// when one is found, moves it into the cue's Speaker field and strips the
// matched prefix from the text. hints are known participant names matched
// exactly and case-sensitively before any generic pattern.
//
// Classification is per cue: the first matching pattern wins and no further
// patterns are tried. Cues with no match pass through untouched. The input
// slice is not modified.
func AttributeSpeakers(cues []Cue, hints []string) ([]Cue, *SpeakerLog) {
	patterns := make([]speakerPattern, 0, len(hints)+len(genericSpeakerPatterns))
	for _, hint := range hints {
		patterns = append(patterns, speakerPattern{
			re:    regexp.MustCompile(`^(` + regexp.QuoteMeta(hint) + `):`),
			label: 1,
		})
	}
	patterns = append(patterns, genericSpeakerPatterns...)

	out := make([]Cue, len(cues))
	log := newSpeakerLog()

	for i, cue := range cues {
		out[i] = cue
		for _, p := range patterns {
			m := p.re.FindStringSubmatchIndex(cue.Text)
			if m == nil {
				continue
			}
			label := cue.Text[m[2*p.label]:m[2*p.label+1]]
			out[i].Speaker = label
			out[i].Text = strings.TrimSpace(cue.Text[m[1]:])
			log.add(label, cue.Start)
			break
		}
	}

	return out, log
}

// FormatWithSpeakers renders labeled cues one per line as
// "[MM:SS] <Speaker> text", omitting the speaker bracket for cues without a
// label. Unlike [Reflow], no merging is performed; the line count equals the
// cue count.
func FormatWithSpeakers(cues []Cue) string {
	lines := make([]string, len(cues))
	for i, cue := range cues {
		ts := "[" + timecode.FormatClock(int(cue.Start)) + "] "
		if cue.Speaker != "" {
			lines[i] = ts + "<" + cue.Speaker + "> " + cue.Text
		} else {
			lines[i] = ts + cue.Text
		}
	}
	return strings.Join(lines, "\n")
}
