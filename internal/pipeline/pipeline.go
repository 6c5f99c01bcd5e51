// Package pipeline wires the caption processing stages into a single
// pass: script classification, per-fragment normalization, short
// fragment merging, and paragraph assembly with the optional external
// rewriting pre-pass.
package pipeline

import (
	"context"
	"strings"

	"github.com/mlaurent/go-captions/internal/assemble"
	"github.com/mlaurent/go-captions/internal/caption"
	"github.com/mlaurent/go-captions/internal/classify"
	"github.com/mlaurent/go-captions/internal/merge"
	"github.com/mlaurent/go-captions/internal/normalize"
	"github.com/mlaurent/go-captions/internal/optimize"
)

// Options configures one processing pass. The zero value runs the
// default pipeline: classify with the default threshold, merge, and
// assemble without the optimizer.
type Options struct {
	// CJKThreshold overrides classify.DefaultThreshold when positive.
	CJKThreshold float64

	// SkipMerge bypasses the fragment merge pipeline. Manual subtitle
	// tracks are already cut at phrase boundaries and merge poorly.
	SkipMerge bool

	// Assemble bounds paragraph growth; zero fields use the defaults.
	Assemble assemble.Config

	// Optimizer, when non-nil, enables the external rewriting pre-pass.
	// Optimizer failures degrade to direct assembly.
	Optimizer optimize.Optimizer

	// BaseURL is the video URL used for per-paragraph time links.
	BaseURL string
}

// Result is the outcome of one processing pass.
type Result struct {
	Paragraphs []caption.Paragraph
	CJK        bool // Classification of the whole transcript.
	Optimized  bool // Whether the optimizer pre-pass was applied.
}

// Process runs the full pipeline over raw fragments. An empty fragment
// list yields an empty result, not an error; no input ever fails the
// pass itself.
func Process(ctx context.Context, fragments []caption.Fragment, opts Options) Result {
	if len(fragments) == 0 {
		return Result{}
	}

	// Classify the transcript as a whole: per-fragment classification
	// flickers on mixed-language captions, and the cleanup rules must
	// be consistent across one track.
	var full strings.Builder
	for _, f := range fragments {
		full.WriteString(f.Text)
	}
	classifier := classify.Classifier{Threshold: opts.CJKThreshold}
	cjk := classifier.IsCJK(full.String())

	var norm normalize.Normalizer
	cleaned := make([]caption.Fragment, 0, len(fragments))
	for _, f := range fragments {
		text := norm.Text(f.Text, cjk)
		if text == "" {
			continue
		}
		cleaned = append(cleaned, caption.Fragment{
			Text:     text,
			Offset:   f.Offset,
			Duration: f.Duration,
		})
	}

	if !opts.SkipMerge {
		cleaned = merge.Merger{CJK: cjk}.Pipeline(cleaned)
	}
	if len(cleaned) == 0 {
		return Result{CJK: cjk}
	}

	asmOpts := []assemble.Option{assemble.WithBaseURL(opts.BaseURL)}
	if opts.Optimizer != nil {
		asmOpts = append(asmOpts, assemble.WithOptimizer(opts.Optimizer))
	}
	asm := assemble.New(opts.Assemble, asmOpts...)

	items := caption.Items(cleaned)
	if opts.Optimizer != nil {
		paragraphs, optimized := asm.AssembleOptimized(ctx, items)
		return Result{Paragraphs: paragraphs, CJK: cjk, Optimized: optimized}
	}
	return Result{Paragraphs: asm.Assemble(items), CJK: cjk}
}
