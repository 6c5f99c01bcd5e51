// Package caption defines the transcript data model shared by the
// processing pipeline: raw fragments as delivered by a caption source,
// simplified items fed to the paragraph assembler, and the assembled
// paragraphs consumed by exporters.
package caption

import "time"

// Fragment is a single raw caption entry: a short text span with a start
// offset and duration in the source video. Fragments are immutable once
// created; sources deliver them ordered by Offset ascending, though the
// ordering is not guaranteed and the merge pipeline re-sorts.
type Fragment struct {
	Text     string
	Offset   time.Duration // Start time in the source video.
	Duration time.Duration // Display duration of the caption.
}

// End returns the fragment's end time (Offset + Duration).
func (f Fragment) End() time.Duration {
	return f.Offset + f.Duration
}

// Item is the assembler's input: a text span with an optional timestamp.
// Derived items (sentences produced by an optimizer pass) may lack one,
// in which case Timed is false and Timestamp is meaningless.
type Item struct {
	Text      string
	Timestamp time.Duration
	Timed     bool
}

// Items converts fragments to assembler items, carrying each fragment's
// offset as the item timestamp.
func Items(fragments []Fragment) []Item {
	items := make([]Item, len(fragments))
	for i, f := range fragments {
		items[i] = Item{Text: f.Text, Timestamp: f.Offset, Timed: true}
	}
	return items
}

// Paragraph is a terminal aggregate of one or more sentences sharing a
// coherent topic, with the time range they cover. Never mutated after
// creation.
//
// Lines holds the order-significant per-sentence strings; joining them
// into a single block is deferred to the rendering collaborator.
type Paragraph struct {
	Lines     []string
	Start     time.Duration // Timestamp of the first contributing item.
	End       time.Duration // Timestamp of the last contributing item.
	TimeLinks []string      // One formatted markdown link per contributing timestamp.
}
