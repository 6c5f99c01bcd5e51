package export_test

// Coverage Notes:
// - Frontmatter is asserted by substring, not full-document equality:
//   yaml.v3 owns field ordering and quoting.
// - Paragraph block shape (link, space, joined lines) is asserted exactly.

import (
	"strings"
	"testing"
	"time"

	"github.com/mlaurent/go-captions/internal/caption"
	"github.com/mlaurent/go-captions/internal/export"
)

var renderedAt = time.Date(2024, 11, 3, 10, 0, 0, 0, time.UTC)

// ---------------------------------------------------------------------------
// TestMarkdown - frontmatter, heading, and paragraph blocks
// ---------------------------------------------------------------------------

func TestMarkdown(t *testing.T) {
	t.Parallel()

	note := export.Note{
		Title:  "Intro to Go",
		Source: "https://youtu.be/abc?x=1",
		Tags:   []string{"video", "transcript"},
		Paragraphs: []caption.Paragraph{
			{
				Lines:     []string{"First sentence.", "Second sentence."},
				Start:     0,
				End:       5 * time.Second,
				TimeLinks: []string{"[00:00](https://youtu.be/abc?x=1&t=0)", "[00:05](https://youtu.be/abc?x=1&t=5)"},
			},
			{
				Lines:     []string{"Third sentence."},
				Start:     10 * time.Second,
				End:       10 * time.Second,
				TimeLinks: []string{"[00:10](https://youtu.be/abc?x=1&t=10)"},
			},
		},
	}

	got, err := export.Markdown(note, renderedAt)
	if err != nil {
		t.Fatalf("Markdown() error: %v", err)
	}

	if !strings.HasPrefix(got, "---\n") {
		t.Errorf("output does not open with frontmatter:\n%s", got)
	}
	for _, want := range []string{
		"title: Intro to Go",
		"source: https://youtu.be/abc?x=1",
		"created: \"2024-11-03\"",
		"- video",
		"- transcript",
		"# Intro to Go",
		"[00:00](https://youtu.be/abc?x=1&t=0) First sentence. Second sentence.\n",
		"\n[00:10](https://youtu.be/abc?x=1&t=10) Third sentence.\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

// ---------------------------------------------------------------------------
// TestMarkdownMinimal - no links, no tags, no title
// ---------------------------------------------------------------------------

func TestMarkdownMinimal(t *testing.T) {
	t.Parallel()

	note := export.Note{
		Paragraphs: []caption.Paragraph{
			{Lines: []string{"Only sentence."}},
		},
	}

	got, err := export.Markdown(note, renderedAt)
	if err != nil {
		t.Fatalf("Markdown() error: %v", err)
	}
	if strings.Contains(got, "# ") {
		t.Errorf("untitled note should have no heading:\n%s", got)
	}
	if !strings.Contains(got, "Only sentence.\n") {
		t.Errorf("output missing paragraph text:\n%s", got)
	}
	if strings.Contains(got, "tags:") {
		t.Errorf("empty tags should be omitted from frontmatter:\n%s", got)
	}
}

// ---------------------------------------------------------------------------
// TestMarkdownEmpty - zero paragraphs still renders a valid document
// ---------------------------------------------------------------------------

func TestMarkdownEmpty(t *testing.T) {
	t.Parallel()

	got, err := export.Markdown(export.Note{Title: "Empty"}, renderedAt)
	if err != nil {
		t.Fatalf("Markdown() error: %v", err)
	}
	if !strings.Contains(got, "# Empty") {
		t.Errorf("output missing heading:\n%s", got)
	}
}
