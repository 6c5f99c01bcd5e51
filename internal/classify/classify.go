// Package classify detects the dominant script of a text fragment so the
// pipeline can select language-specific cleanup rules. The only
// distinction that matters downstream is CJK versus everything else:
// CJK text carries no inter-word whitespace and uses different
// sentence-final punctuation.
package classify

import "unicode"

// Default ratio of CJK runes above which a text classifies as CJK.
// Legacy behavior used 0.1, which over-classified mixed subtitles that
// quote short Chinese phrases inside English sentences; 0.3 is the
// current default. The ratio is tunable via Classifier.Threshold.
const DefaultThreshold = 0.3

// cjkRanges covers the Unicode blocks counted as CJK: unified ideographs
// and their extensions, Hiragana, Katakana, Hangul, and CJK punctuation.
var cjkRanges = []*unicode.RangeTable{
	unicode.Han,
	unicode.Hiragana,
	unicode.Katakana,
	unicode.Hangul,
}

// Classifier classifies text by CJK rune ratio.
// The zero value uses DefaultThreshold.
type Classifier struct {
	// Threshold is the minimum CJK rune ratio for a CJK classification.
	// Zero or negative means DefaultThreshold.
	Threshold float64
}

// Ratio returns the fraction of runes in text that belong to a CJK
// script, ignoring whitespace. Empty or all-whitespace text has ratio 0.
func (c Classifier) Ratio(text string) float64 {
	var cjk, total int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsOneOf(cjkRanges, r) {
			cjk++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(cjk) / float64(total)
}

// IsCJK reports whether text classifies as CJK: its CJK rune ratio
// meets or exceeds the threshold. Empty text is never CJK.
func (c Classifier) IsCJK(text string) bool {
	threshold := c.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return c.Ratio(text) >= threshold
}

// IsCJK classifies text using DefaultThreshold.
func IsCJK(text string) bool {
	return Classifier{}.IsCJK(text)
}
