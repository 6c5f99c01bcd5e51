// Package export serializes assembled paragraphs into a markdown note
// with YAML frontmatter, one timestamped block per paragraph.
package export

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mlaurent/go-captions/internal/caption"
)

// Note is a renderable transcript document.
type Note struct {
	Title      string
	Source     string // Video URL, recorded in frontmatter and heading.
	Tags       []string
	Paragraphs []caption.Paragraph
}

// frontmatter is the YAML header of the note.
type frontmatter struct {
	Title   string   `yaml:"title"`
	Source  string   `yaml:"source,omitempty"`
	Tags    []string `yaml:"tags,omitempty"`
	Created string   `yaml:"created"`
}

// Markdown renders the note. Each paragraph becomes one block: its
// first time link (when present), then the paragraph lines joined with
// single spaces. Paragraph order is preserved.
func Markdown(note Note, now time.Time) (string, error) {
	fm, err := yaml.Marshal(frontmatter{
		Title:   note.Title,
		Source:  note.Source,
		Tags:    note.Tags,
		Created: now.Format("2006-01-02"),
	})
	if err != nil {
		return "", fmt.Errorf("rendering frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")

	if note.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", note.Title)
	}

	for i, p := range note.Paragraphs {
		if i > 0 {
			b.WriteString("\n")
		}
		if len(p.TimeLinks) > 0 {
			b.WriteString(p.TimeLinks[0])
			b.WriteString(" ")
		}
		b.WriteString(joinLines(p.Lines))
		b.WriteString("\n")
	}

	return b.String(), nil
}

// joinLines joins paragraph lines into one block. CJK lines arrive with
// their own line breaks from normalization; those are preserved inside
// the joined text.
func joinLines(lines []string) string {
	return strings.Join(lines, " ")
}
