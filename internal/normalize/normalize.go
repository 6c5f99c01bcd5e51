// Package normalize cleans raw caption text before sentence analysis.
//
// Latin and CJK scripts require structurally different treatment: Latin
// captions are whitespace-delimited and need casing/punctuation repair,
// while CJK captions carry no inter-word spacing and must be chunked at
// sentence-final punctuation, transition words, or a length ceiling.
//
// All functions are total over any string input and idempotent on
// already-clean text. Nothing here ever fails: transcript quality varies
// wildly by source and one bad fragment must never abort the pipeline.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxSegmentRunes is the default length ceiling for a CJK segment.
// Auto-generated CJK subtitles frequently arrive with no punctuation at
// all; without a ceiling a whole video becomes one segment.
const MaxSegmentRunes = 30

// DefaultTransitionWords are CJK topic-transition cues. A segment is cut
// before any of these when they prefix the remaining unconsumed text.
var DefaultTransitionWords = []string{
	"但是", "所以", "因此", "然后", "接着", "不过", "另外", "首先",
	"其次", "最后", "总之", "因为", "如果", "虽然", "而且",
}

// DefaultFinalParticles are CJK sentence-final particles. A segment ends
// after one of these unless terminal punctuation follows immediately.
var DefaultFinalParticles = []string{"吗", "呢", "啊", "吧", "嘛", "呀", "啦"}

var (
	// Bracketed annotations: sound effects, speaker tags, translator notes.
	bracketRe = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)|\{[^}]*\}|【[^】]*】|（[^）]*）`)

	// Whitespace runs, including newlines from multi-line cues.
	spaceRe = regexp.MustCompile(`\s+`)

	// Apostrophes floated away from their word by the caption encoder,
	// e.g. "don ' t" or "it 's". Spacing alone cannot tell a floated
	// apostrophe from a quotation mark ("it 's" vs "said 'hello"), so
	// the repair requires a contraction suffix after the quote.
	apostropheRe = regexp.MustCompile(`(\pL)\s*['` + "`" + `’]\s*(s|t|re|ll|ve|d|m)\b`)

	// A lowercase letter opening a new sentence.
	sentenceStartRe = regexp.MustCompile(`([.!?]\s+)(\p{Ll})`)
)

// Normalizer holds the tunable rules for text cleanup. The zero value
// uses the package defaults; word lists are injectable so another
// language's cues can be supplied without code changes.
type Normalizer struct {
	// MaxSegment is the CJK segment length ceiling in runes.
	// Zero or negative means MaxSegmentRunes.
	MaxSegment int

	// TransitionWords overrides DefaultTransitionWords when non-nil.
	TransitionWords []string

	// FinalParticles overrides DefaultFinalParticles when non-nil.
	FinalParticles []string
}

// Text normalizes text using the rules for its script.
func (n Normalizer) Text(text string, cjk bool) string {
	if cjk {
		return n.CJK(text)
	}
	return n.Latin(text)
}

// Latin normalizes whitespace-delimited text: collapses whitespace,
// strips bracketed annotations, reattaches floated apostrophes,
// capitalizes sentence starts, and guarantees terminal punctuation.
func (n Normalizer) Latin(text string) string {
	text = bracketRe.ReplaceAllString(text, " ")
	text = apostropheRe.ReplaceAllString(text, "$1'$2")
	text = strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
	if text == "" {
		return ""
	}

	text = capitalizeFirst(text)
	text = sentenceStartRe.ReplaceAllStringFunc(text, func(m string) string {
		r, size := utf8.DecodeLastRuneInString(m)
		return m[:len(m)-size] + string(unicode.ToUpper(r))
	})

	if !endsWithTerminal(text) {
		text += "."
	}
	return text
}

// CJK normalizes unspaced text: strips all whitespace and bracketed
// annotations, then chunks the result into sentence-sized segments cut
// at terminal punctuation, before transition words, after sentence-final
// particles, or at the length ceiling. Segments are joined with a line
// break and each is guaranteed terminal punctuation.
func (n Normalizer) CJK(text string) string {
	text = bracketRe.ReplaceAllString(text, "")
	text = spaceRe.ReplaceAllString(text, "")
	if text == "" {
		return ""
	}

	maxSeg := n.MaxSegment
	if maxSeg <= 0 {
		maxSeg = MaxSegmentRunes
	}
	transitions := n.TransitionWords
	if transitions == nil {
		transitions = DefaultTransitionWords
	}
	particles := n.FinalParticles
	if particles == nil {
		particles = DefaultFinalParticles
	}

	var segments []string
	var seg strings.Builder
	segLen := 0

	flush := func() {
		s := seg.String()
		seg.Reset()
		segLen = 0
		if s == "" || isOnlyPunct(s) {
			// A stray punctuation mark left over from a length cut
			// carries no content of its own.
			return
		}
		if !endsWithTerminal(s) {
			s += "。"
		}
		segments = append(segments, s)
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		// Cut before a transition word opening a new thought.
		if segLen > 0 && hasTransitionPrefix(runes[i:], transitions) {
			flush()
		}

		seg.WriteRune(r)
		segLen++

		switch {
		case isCJKTerminal(r):
			flush()
		case segLen >= maxSeg:
			flush()
		case isFinalParticle(r, particles) && !nextIsTerminal(runes, i):
			flush()
		}
	}
	flush()

	return strings.Join(segments, "\n")
}

// capitalizeFirst upper-cases the first letter of text, skipping any
// leading non-letter runes (quotes, digits).
func capitalizeFirst(text string) string {
	for i, r := range text {
		if unicode.IsLetter(r) {
			return text[:i] + string(unicode.ToUpper(r)) + text[i+utf8.RuneLen(r):]
		}
		if !unicode.IsPunct(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			break
		}
	}
	return text
}

// endsWithTerminal reports whether s ends with sentence-final
// punctuation in either script.
func endsWithTerminal(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	switch r {
	case '.', '!', '?', '。', '！', '？', '…':
		return true
	}
	return false
}

func isCJKTerminal(r rune) bool {
	return r == '。' || r == '！' || r == '？'
}

func isOnlyPunct(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}

func hasTransitionPrefix(rest []rune, transitions []string) bool {
	s := string(rest)
	for _, w := range transitions {
		if strings.HasPrefix(s, w) {
			return true
		}
	}
	return false
}

func isFinalParticle(r rune, particles []string) bool {
	for _, p := range particles {
		if string(r) == p {
			return true
		}
	}
	return false
}

// nextIsTerminal reports whether the rune after index i is terminal
// punctuation. Used to defer a particle cut to the punctuation cut so
// "好吗？" is never split between 吗 and ？.
func nextIsTerminal(runes []rune, i int) bool {
	if i+1 >= len(runes) {
		return false
	}
	return isCJKTerminal(runes[i+1])
}

// Text normalizes with the default rules.
func Text(text string, cjk bool) string {
	return Normalizer{}.Text(text, cjk)
}
