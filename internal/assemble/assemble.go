// Package assemble groups normalized transcript items into semantically
// coherent paragraphs with aggregated time ranges.
//
// The assembler is a stable forward scan over its input: items are
// appended to a single in-progress accumulator, and the accumulator is
// flushed into a Paragraph when enough complete sentences have been
// collected, when a new-topic cue opens the next thought, or when the
// input ends. Each call owns its accumulator, so concurrent assembly of
// different transcripts needs no locking.
package assemble

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/mlaurent/go-captions/internal/caption"
	"github.com/mlaurent/go-captions/internal/format"
	"github.com/mlaurent/go-captions/internal/optimize"
)

// Default paragraph bounds. Two completed sentences allow an early
// break at a topic transition; four is the hard cap before a forced
// flush. The looser legacy cap of six remains reachable via Config.
const (
	DefaultMinSentences = 2
	DefaultMaxSentences = 4
	DefaultMaxWords     = 100
)

// incompleteEndings are trailing words that plainly continue onto the
// next fragment; a paragraph is never closed right after one of them.
// Matched case-insensitively against the last word of the appended text.
var incompleteEndings = []string{
	"and", "or", "but", "because", "if", "for", "to", "the", "a", "an",
	"in", "on", "at", "by", "with", "of", "as", "that", "so", "which",
	"i'm", "it's", "he's", "she's", "we're", "you're", "they're",
	"i'll", "we'll", "don't", "can't", "won't",
}

// continuationStarts are coordinating conjunctions that glue the
// current text onto the previous sentence rather than opening a new one.
var continuationStarts = []string{"and", "but", "or", "nor", "yet", "so"}

// topicCues mark the start of a new thought; reaching one with enough
// completed sentences accumulated closes the current paragraph.
var topicCues = []string{
	"however", "now", "next", "then", "okay", "alright", "anyway",
	"first", "second", "finally", "meanwhile", "therefore",
	"但是", "所以", "因此", "然后", "接着", "不过", "另外", "首先",
	"其次", "最后", "总之",
}

// sentenceRe extracts sentences from optimizer output: a run of
// non-terminal runes followed by terminal punctuation.
var sentenceRe = regexp.MustCompile(`[^.!?。！？]+[.!?。！？]+`)

// Config bounds paragraph growth.
type Config struct {
	MinSentences int // Completed sentences before a topic cue may break.
	MaxSentences int // Hard cap on completed sentences per paragraph.
	MaxWords     int // Hard cap on accumulated words per paragraph.
}

// DefaultConfig returns the default paragraph bounds.
func DefaultConfig() Config {
	return Config{
		MinSentences: DefaultMinSentences,
		MaxSentences: DefaultMaxSentences,
		MaxWords:     DefaultMaxWords,
	}
}

// normalize clamps degenerate values to the defaults. MaxSentences is
// raised to MinSentences when the two cross.
func (c Config) normalize() Config {
	if c.MinSentences < 1 {
		c.MinSentences = DefaultMinSentences
	}
	if c.MaxSentences < 1 {
		c.MaxSentences = DefaultMaxSentences
	}
	if c.MaxSentences < c.MinSentences {
		c.MaxSentences = c.MinSentences
	}
	if c.MaxWords < 1 {
		c.MaxWords = DefaultMaxWords
	}
	return c
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithOptimizer injects the external rewriting capability used by
// AssembleOptimized. Defaults to optimize.Noop.
func WithOptimizer(o optimize.Optimizer) Option {
	return func(a *Assembler) {
		if o != nil {
			a.optimizer = o
		}
	}
}

// WithBaseURL sets the video URL used to build per-paragraph time
// links. Without it paragraphs carry no links.
func WithBaseURL(url string) Option {
	return func(a *Assembler) {
		a.baseURL = url
	}
}

// WithIncompleteEndings overrides the trailing-word list that keeps a
// paragraph open.
func WithIncompleteEndings(words []string) Option {
	return func(a *Assembler) {
		a.incomplete = words
	}
}

// WithTopicCues overrides the new-topic cue word list.
func WithTopicCues(words []string) Option {
	return func(a *Assembler) {
		a.cues = words
	}
}

// Assembler groups transcript items into paragraphs. Construct with
// New; the zero value is not usable.
type Assembler struct {
	cfg        Config
	baseURL    string
	optimizer  optimize.Optimizer
	incomplete []string
	cues       []string
}

// New creates an Assembler. Degenerate Config values are clamped to the
// defaults.
func New(cfg Config, opts ...Option) *Assembler {
	a := &Assembler{
		cfg:        cfg.normalize(),
		optimizer:  optimize.Noop{},
		incomplete: incompleteEndings,
		cues:       topicCues,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// accumulator is the in-progress paragraph state. It lives for a single
// Assemble call and is reset to empty after each flush; it is never
// shared or referenced outside the scan.
type accumulator struct {
	texts      []string
	timestamps []time.Duration
	first      time.Duration
	timed      bool
	completed  int // entries ending in terminal punctuation
	words      int
}

// Assemble groups items into paragraphs. Empty input yields nil. Every
// item's text lands in exactly one paragraph, in input order.
func (a *Assembler) Assemble(items []caption.Item) []caption.Paragraph {
	var paragraphs []caption.Paragraph
	var acc accumulator

	flush := func() {
		if len(acc.texts) == 0 {
			return
		}
		paragraphs = append(paragraphs, a.emit(&acc))
		acc = accumulator{}
	}

	for _, item := range items {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			continue
		}

		// A topic cue opening this item closes the current paragraph,
		// provided enough complete sentences have accumulated.
		if acc.completed >= a.cfg.MinSentences &&
			a.startsNewTopic(text) && a.lastComplete(&acc) {
			flush()
		}

		a.append(&acc, item, text)

		switch {
		case a.endsIncomplete(text):
			// Plainly continuing onto the next fragment; keep open.
		case acc.completed >= a.cfg.MaxSentences, acc.words >= a.cfg.MaxWords:
			flush()
		}
	}

	// Forced end-of-input flush. Unconditional so trailing blank items
	// cannot strand accumulated text.
	flush()

	return paragraphs
}

// AssembleOptimized runs the optimizer over the full concatenated
// transcript once, splits the rewritten text into sentences, zips them
// against the original item timestamps by index, and assembles the
// result. Any optimizer failure degrades to plain assembly of the
// original items; the error never propagates. The returned bool reports
// whether the optimized path was used.
func (a *Assembler) AssembleOptimized(ctx context.Context, items []caption.Item) ([]caption.Paragraph, bool) {
	if len(items) == 0 {
		return nil, false
	}

	// Blank items carry no text and no sentence, so they must not
	// occupy an index in the timestamp zip below.
	kept := make([]caption.Item, 0, len(items))
	full := make([]string, 0, len(items))
	for _, item := range items {
		if t := strings.TrimSpace(item.Text); t != "" {
			kept = append(kept, item)
			full = append(full, t)
		}
	}
	if len(kept) == 0 {
		return nil, false
	}

	rewritten, err := a.optimizer.Optimize(ctx, strings.Join(full, " "))
	if err != nil || strings.TrimSpace(rewritten) == "" {
		return a.Assemble(items), false
	}

	sentences := splitSentences(rewritten)
	if len(sentences) == 0 {
		return a.Assemble(items), false
	}

	derived := make([]caption.Item, len(sentences))
	for i, s := range sentences {
		derived[i] = caption.Item{Text: s}
		if i < len(kept) && kept[i].Timed {
			derived[i].Timestamp = kept[i].Timestamp
			derived[i].Timed = true
		}
	}

	return a.Assemble(derived), true
}

// append adds the item to the accumulator, either as a continuation of
// the previous sentence or as a fresh entry, and records its timestamp.
func (a *Assembler) append(acc *accumulator, item caption.Item, text string) {
	if n := len(acc.texts); n > 0 && a.continuesPrevious(acc.texts[n-1], text) {
		prev := acc.texts[n-1]
		if wasComplete := endsTerminal(prev); wasComplete {
			acc.completed--
		}
		acc.texts[n-1] = joinContinuation(prev, text)
		if endsTerminal(acc.texts[n-1]) {
			acc.completed++
		}
	} else {
		acc.texts = append(acc.texts, text)
		if endsTerminal(text) {
			acc.completed++
		}
	}
	acc.words += len(strings.Fields(text))

	if item.Timed {
		if !acc.timed {
			acc.first = item.Timestamp
			acc.timed = true
		}
		acc.timestamps = append(acc.timestamps, item.Timestamp)
	}
}

// emit finalizes the accumulator into an immutable Paragraph.
func (a *Assembler) emit(acc *accumulator) caption.Paragraph {
	p := caption.Paragraph{
		Lines: append([]string(nil), acc.texts...),
		Start: acc.first,
	}
	if n := len(acc.timestamps); n > 0 {
		p.End = acc.timestamps[n-1]
	}
	if a.baseURL != "" {
		p.TimeLinks = make([]string, len(acc.timestamps))
		for i, ts := range acc.timestamps {
			p.TimeLinks[i] = format.TimeLink(a.baseURL, ts)
		}
	}
	return p
}

// continuesPrevious reports whether text should be merged into the
// previous sentence instead of opening a new one: it starts lowercase,
// opens with a coordinating conjunction, or the previous text ended on
// an incomplete cue.
func (a *Assembler) continuesPrevious(prev, text string) bool {
	if a.endsIncomplete(prev) {
		return true
	}
	first, _ := utf8.DecodeRuneInString(text)
	if unicode.IsLower(first) {
		word := firstWord(text)
		for _, c := range continuationStarts {
			if word == c {
				return true
			}
		}
		return !endsTerminal(prev)
	}
	return false
}

// endsIncomplete reports whether text trails off on a word that plainly
// continues onto the next fragment.
func (a *Assembler) endsIncomplete(text string) bool {
	word := strings.ToLower(strings.TrimRight(lastWord(text), ",;"))
	for _, w := range a.incomplete {
		if word == w {
			return true
		}
	}
	return false
}

// startsNewTopic reports whether text opens with a topic-transition
// cue. Latin cues must match the first word exactly; only CJK cues,
// which have no word delimiters, match as a prefix.
func (a *Assembler) startsNewTopic(text string) bool {
	word := strings.ToLower(strings.TrimRight(firstWord(text), ","))
	for _, cue := range a.cues {
		if r, _ := utf8.DecodeRuneInString(cue); r < utf8.RuneSelf {
			if word == cue {
				return true
			}
		} else if strings.HasPrefix(text, cue) {
			return true
		}
	}
	return false
}

// lastComplete reports whether the accumulator's newest entry already
// ends in terminal punctuation, so breaking before the next item does
// not split a sentence.
func (a *Assembler) lastComplete(acc *accumulator) bool {
	n := len(acc.texts)
	return n > 0 && endsTerminal(acc.texts[n-1])
}

// splitSentences splits optimizer output on sentence-final punctuation.
// A trailing run without terminal punctuation becomes a final sentence.
func splitSentences(text string) []string {
	matches := sentenceRe.FindAllStringIndex(text, -1)
	var sentences []string
	end := 0
	for _, m := range matches {
		s := strings.TrimSpace(text[m[0]:m[1]])
		if s != "" {
			sentences = append(sentences, s)
		}
		end = m[1]
	}
	if rest := strings.TrimSpace(text[end:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// joinContinuation glues a continuing fragment onto the sentence it
// completes.
func joinContinuation(prev, text string) string {
	return prev + " " + text
}

func endsTerminal(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(strings.TrimRight(s, `"')»】`))
	switch r {
	case '.', '!', '?', '。', '！', '？', '…':
		return true
	}
	return false
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func lastWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
