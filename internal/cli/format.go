package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mlaurent/go-captions/internal/assemble"
	"github.com/mlaurent/go-captions/internal/config"
	"github.com/mlaurent/go-captions/internal/export"
	"github.com/mlaurent/go-captions/internal/format"
	"github.com/mlaurent/go-captions/internal/optimize"
	"github.com/mlaurent/go-captions/internal/pipeline"
	"github.com/mlaurent/go-captions/internal/source"
)

// maxConcurrentFiles bounds the errgroup fan-out when several caption
// files are processed in one invocation.
const maxConcurrentFiles = 4

// formatFlags collects the flags of the format command.
type formatFlags struct {
	output       string
	baseURL      string
	title        string
	tags         []string
	optimizeFlag bool
	provider     string
	toClipboard  bool
	noMerge      bool
	minSentences int
	maxSentences int
	maxWords     int
	cjkThreshold float64
}

// FormatCmd creates the format command.
// The env parameter provides injectable dependencies for testing.
func FormatCmd(env *Env) *cobra.Command {
	var flags formatFlags

	cmd := &cobra.Command{
		Use:   "format <captions-file>...",
		Short: "Turn caption files into paragraph notes",
		Long: `Turn fetched caption files into timestamped markdown notes.

Accepted payloads are YouTube timedtext JSON, Bilibili subtitle JSON,
and a plain fragment list ([{"text","offset","duration"}], milliseconds);
the format is detected from the payload shape. Use "-" to read from stdin.

Fragments are cleaned per script (CJK or Latin), short neighbors are
merged, and the result is grouped into paragraphs with one time link per
contributing caption. With --optimize the full transcript is first
rewritten by an AI provider; on any provider failure the command falls
back to direct assembly.`,
		Example: `  captions format talk.json --base-url "https://youtu.be/dQw4w9WgXcQ?x=1"
  captions format talk.json -o notes.md --optimize
  captions format talk.json --optimize --provider deepseek
  captions format ep1.json ep2.json ep3.json
  curl -s "$TIMEDTEXT_URL" | captions format - --clipboard`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd.Context(), env, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: <input>.md; single input only)")
	cmd.Flags().StringVar(&flags.baseURL, "base-url", "", "Video URL used to build paragraph time links")
	cmd.Flags().StringVar(&flags.title, "title", "", "Note title (default: input file name)")
	cmd.Flags().StringSliceVar(&flags.tags, "tags", nil, "Frontmatter tags")
	cmd.Flags().BoolVar(&flags.optimizeFlag, "optimize", false, "Rewrite the transcript with an AI provider before splitting")
	cmd.Flags().StringVar(&flags.provider, "provider", ProviderOpenAI, "AI provider for --optimize: openai, deepseek")
	cmd.Flags().BoolVar(&flags.toClipboard, "clipboard", false, "Copy the note to the clipboard instead of writing a file")
	cmd.Flags().BoolVar(&flags.noMerge, "no-merge", false, "Skip fragment merging (manual subtitle tracks)")
	cmd.Flags().IntVar(&flags.minSentences, "min-sentences", 0, "Sentences before a topic cue may break a paragraph")
	cmd.Flags().IntVar(&flags.maxSentences, "max-sentences", 0, "Hard cap on sentences per paragraph")
	cmd.Flags().IntVar(&flags.maxWords, "max-words", 0, "Hard cap on words per paragraph")
	cmd.Flags().Float64Var(&flags.cjkThreshold, "cjk-threshold", 0, "CJK rune ratio for CJK classification (0-1)")

	return cmd
}

// runFormat validates flags, resolves configuration, and processes each
// input. Multiple inputs are processed concurrently.
func runFormat(ctx context.Context, env *Env, inputs []string, flags formatFlags) error {
	// === VALIDATION (fail-fast) ===

	if flags.output != "" && len(inputs) > 1 {
		return ErrOutputConflict
	}
	if flags.toClipboard && len(inputs) > 1 {
		return fmt.Errorf("cannot copy multiple notes: %w", ErrOutputConflict)
	}
	for _, in := range inputs {
		if in == "-" {
			continue
		}
		if _, err := os.Stat(in); err != nil {
			return fmt.Errorf("%s: %w", in, ErrFileNotFound)
		}
	}

	var optimizer optimize.Optimizer
	if flags.optimizeFlag {
		var err error
		if optimizer, err = resolveOptimizer(env, flags.provider); err != nil {
			return err
		}
	}

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		return err
	}

	// The configured output directory only matters when output paths are
	// derived from the inputs.
	outputDir := cfg.OutputDir
	if flags.output != "" || flags.toClipboard {
		outputDir = ""
	}
	if outputDir != "" {
		outputDir = config.ExpandPath(outputDir)
		if err := config.EnsureOutputDir(outputDir); err != nil {
			return err
		}
	}

	opts := pipeline.Options{
		CJKThreshold: flags.cjkThreshold,
		SkipMerge:    flags.noMerge,
		Assemble: assemble.Config{
			MinSentences: firstPositive(flags.minSentences, cfg.MinSentences),
			MaxSentences: firstPositive(flags.maxSentences, cfg.MaxSentences),
			MaxWords:     flags.maxWords,
		},
		Optimizer: optimizer,
		BaseURL:   flags.baseURL,
	}
	if opts.CJKThreshold == 0 {
		opts.CJKThreshold = cfg.CJKThreshold
	}

	// === PROCESSING ===

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFiles)
	for _, in := range inputs {
		g.Go(func() error {
			return formatOne(ctx, env, in, flags, opts, outputDir)
		})
	}
	return g.Wait()
}

// formatOne processes a single caption file end to end.
func formatOne(ctx context.Context, env *Env, input string, flags formatFlags, opts pipeline.Options, outputDir string) error {
	data, err := readInput(env, input)
	if err != nil {
		return err
	}

	fragments, err := source.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", inputName(input), err)
	}

	result := pipeline.Process(ctx, fragments, opts)
	if flags.optimizeFlag && !result.Optimized {
		fmt.Fprintf(env.Stderr, "Warning: optimizer unavailable for %s, using direct assembly\n", inputName(input))
	}

	note := export.Note{
		Title:      flags.title,
		Source:     flags.baseURL,
		Tags:       flags.tags,
		Paragraphs: result.Paragraphs,
	}
	if note.Title == "" {
		note.Title = strings.TrimSuffix(filepath.Base(inputName(input)), filepath.Ext(input))
	}

	rendered, err := export.Markdown(note, env.Now())
	if err != nil {
		return err
	}

	if flags.toClipboard {
		if err := env.WriteClipboard(rendered); err != nil {
			return fmt.Errorf("cannot copy to clipboard: %w", err)
		}
		fmt.Fprintf(env.Stderr, "Copied %d paragraphs to clipboard\n", len(result.Paragraphs))
		return nil
	}

	outPath := flags.output
	if outPath == "" {
		outPath = deriveOutputPath(inputName(input))
		if outputDir != "" {
			outPath = filepath.Join(outputDir, filepath.Base(outPath))
		}
	}
	warnNonMarkdownExtension(env.Stderr, outPath)

	if err := writeFileAtomic(outPath, rendered); err != nil {
		return err
	}
	fmt.Fprintf(env.Stderr, "Wrote %s (%d paragraphs, %s)\n",
		outPath, len(result.Paragraphs), format.DurationHuman(coveredTime(result)))
	return nil
}

// readInput reads a caption payload from a file or stdin ("-").
func readInput(env *Env, input string) ([]byte, error) {
	if input == "-" {
		data, err := io.ReadAll(env.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(input) // #nosec G304 -- user-specified input file
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", input, err)
	}
	return data, nil
}

// inputName returns a display/output name for an input; stdin becomes
// "captions".
func inputName(input string) string {
	if input == "-" {
		return "captions"
	}
	return input
}

// coveredTime returns the time range spanned by the paragraphs.
func coveredTime(r pipeline.Result) (d time.Duration) {
	if n := len(r.Paragraphs); n > 0 {
		d = r.Paragraphs[n-1].End - r.Paragraphs[0].Start
	}
	return d
}

// firstPositive returns the first positive value, or 0.
func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
