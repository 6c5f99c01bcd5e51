// Package merge combines adjacent short caption fragments into longer
// units before sentence analysis. Auto-generated captions cut lines at
// display width, not at phrase boundaries; merging small-gap and
// short-duration neighbors back together gives the assembler units that
// resemble spoken phrases.
package merge

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mlaurent/go-captions/internal/caption"
	"github.com/mlaurent/go-captions/internal/normalize"
)

// Default thresholds. MaxGap observed between caption cue boundaries on
// both sources sits in the 300–500 ms band; 400 ms is the midpoint.
const (
	DefaultMaxGap      = 400 * time.Millisecond
	DefaultMinDuration = time.Second
	DefaultMaxLenLatin = 80 // runes, space-joined text
	DefaultMaxLenCJK   = 50 // runes, directly concatenated text
)

// Merger merges adjacent fragments under gap/duration/length rules.
// The zero value uses the Latin defaults.
type Merger struct {
	// MaxGap is the largest silence between two fragments that still
	// allows a merge. Zero or negative means DefaultMaxGap.
	MaxGap time.Duration

	// MinDuration marks a fragment as "too short to stand alone"; such
	// fragments merge regardless of gap. Zero or negative means
	// DefaultMinDuration.
	MinDuration time.Duration

	// MaxLen caps the merged text length in runes. Zero or negative
	// means DefaultMaxLenCJK or DefaultMaxLenLatin depending on CJK.
	MaxLen int

	// CJK selects direct concatenation instead of space-joining and
	// enables the transition-word completeness cue.
	CJK bool

	// TransitionWords overrides normalize.DefaultTransitionWords for
	// the CJK completeness check when non-nil.
	TransitionWords []string
}

// Merge walks fragments in order and combines each into the previous
// accumulated fragment when the gap is small or the fragment too short,
// the combined text fits the length cap, and the accumulated text does
// not already read as a complete sentence. Single pass, no lookahead;
// never reorders and never shrinks the covered time range.
func (m Merger) Merge(fragments []caption.Fragment) []caption.Fragment {
	if len(fragments) == 0 {
		return nil
	}

	maxGap := m.MaxGap
	if maxGap <= 0 {
		maxGap = DefaultMaxGap
	}
	minDur := m.MinDuration
	if minDur <= 0 {
		minDur = DefaultMinDuration
	}
	maxLen := m.MaxLen
	if maxLen <= 0 {
		if m.CJK {
			maxLen = DefaultMaxLenCJK
		} else {
			maxLen = DefaultMaxLenLatin
		}
	}

	merged := make([]caption.Fragment, 0, len(fragments))
	acc := fragments[0]

	for _, f := range fragments[1:] {
		gap := f.Offset - acc.End()
		joined := m.join(acc.Text, f.Text)

		mergeable := (gap < maxGap || f.Duration < minDur) &&
			utf8.RuneCountInString(joined) <= maxLen &&
			!m.looksComplete(acc.Text)

		if mergeable {
			acc.Text = joined
			// Extend to cover the new fragment's end; overlapping cues
			// must not shrink the accumulated range.
			if end := f.End(); end > acc.End() {
				acc.Duration = end - acc.Offset
			}
			continue
		}

		merged = append(merged, acc)
		acc = f
	}

	return append(merged, acc)
}

func (m Merger) join(a, b string) string {
	if m.CJK {
		return a + b
	}
	return a + " " + b
}

// looksComplete reports whether text already reads as a finished
// sentence: it ends with terminal punctuation, or for CJK it opens with
// a topic-transition word (such fragments start a thought of their own).
func (m Merger) looksComplete(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(text)
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	if m.CJK {
		transitions := m.TransitionWords
		if transitions == nil {
			transitions = normalize.DefaultTransitionWords
		}
		for _, w := range transitions {
			if strings.HasPrefix(text, w) {
				return true
			}
		}
	}
	return false
}

// Pipeline runs the full cleanup sequence used for auto-generated
// caption tracks: invalid fragments are dropped, neighbors merged, the
// result sorted by offset, consecutive duplicate texts removed, and
// durations recomputed from inter-fragment gaps with a one-second floor.
func (m Merger) Pipeline(fragments []caption.Fragment) []caption.Fragment {
	valid := make([]caption.Fragment, 0, len(fragments))
	for _, f := range fragments {
		if strings.TrimSpace(f.Text) == "" || f.Duration <= 0 || f.Offset < 0 {
			continue
		}
		valid = append(valid, f)
	}
	if len(valid) == 0 {
		return nil
	}

	merged := m.Merge(valid)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Offset < merged[j].Offset
	})

	// Auto-caption tracks repeat the previous line while the next one
	// scrolls in; drop exact consecutive repeats.
	deduped := make([]caption.Fragment, 0, len(merged))
	for _, f := range merged {
		if n := len(deduped); n > 0 && f.Text == deduped[n-1].Text {
			continue
		}
		deduped = append(deduped, f)
	}

	for i := range deduped {
		if i < len(deduped)-1 {
			d := deduped[i+1].Offset - deduped[i].Offset
			if d < DefaultMinDuration {
				d = DefaultMinDuration
			}
			deduped[i].Duration = d
		} else if deduped[i].Duration < DefaultMinDuration {
			deduped[i].Duration = DefaultMinDuration
		}
	}

	return deduped
}
