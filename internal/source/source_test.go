package source_test

// Coverage Notes:
// - Format detection is tested through Parse with realistic payload
//   shapes; per-format decoders are exercised through the same paths.
// - Empty but well-formed payloads yield ErrNoCaptions, not a zero-length
//   slice: downstream treats "no captions" as a user-facing condition.

import (
	"errors"
	"testing"
	"time"

	"github.com/mlaurent/go-captions/internal/caption"
	"github.com/mlaurent/go-captions/internal/source"
)

const youtubePayload = `{
  "events": [
    {"tStartMs": 0, "dDurationMs": 2000, "segs": [{"utf8": "hello "}, {"utf8": "there"}]},
    {"tStartMs": 1500, "dDurationMs": 0},
    {"tStartMs": 2500, "dDurationMs": 1800, "segs": [{"utf8": "general\nkenobi"}]}
  ]
}`

const bilibiliPayload = `{
  "body": [
    {"from": 0.5, "to": 2.1, "content": "第一行字幕"},
    {"from": 2.1, "to": 4.0, "content": "第二行字幕"},
    {"from": 4.0, "to": 5.0, "content": "  "}
  ]
}`

const plainPayload = `[
  {"text": "Hello", "offset": 0, "duration": 500},
  {"text": "world.", "offset": 400, "duration": 600}
]`

// ---------------------------------------------------------------------------
// TestParse - shape detection and decoding
// ---------------------------------------------------------------------------

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("youtube timedtext", func(t *testing.T) {
		t.Parallel()

		got, err := source.Parse([]byte(youtubePayload))
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		want := []caption.Fragment{
			{Text: "hello there", Offset: 0, Duration: 2 * time.Second},
			{Text: "general kenobi", Offset: 2500 * time.Millisecond, Duration: 1800 * time.Millisecond},
		}
		assertFragments(t, got, want)
	})

	t.Run("bilibili subtitles", func(t *testing.T) {
		t.Parallel()

		got, err := source.Parse([]byte(bilibiliPayload))
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		want := []caption.Fragment{
			{Text: "第一行字幕", Offset: 500 * time.Millisecond, Duration: 1600 * time.Millisecond},
			{Text: "第二行字幕", Offset: 2100 * time.Millisecond, Duration: 1900 * time.Millisecond},
		}
		assertFragments(t, got, want)
	})

	t.Run("plain fragment list", func(t *testing.T) {
		t.Parallel()

		got, err := source.Parse([]byte(plainPayload))
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		want := []caption.Fragment{
			{Text: "Hello", Offset: 0, Duration: 500 * time.Millisecond},
			{Text: "world.", Offset: 400 * time.Millisecond, Duration: 600 * time.Millisecond},
		}
		assertFragments(t, got, want)
	})

	t.Run("unknown object shape", func(t *testing.T) {
		t.Parallel()

		_, err := source.Parse([]byte(`{"captions": []}`))
		if !errors.Is(err, source.ErrUnknownFormat) {
			t.Errorf("Parse() error = %v, want ErrUnknownFormat", err)
		}
	})

	t.Run("not json", func(t *testing.T) {
		t.Parallel()

		_, err := source.Parse([]byte("WEBVTT\n\n00:00.000 --> 00:02.000\nhello"))
		if !errors.Is(err, source.ErrUnknownFormat) {
			t.Errorf("Parse() error = %v, want ErrUnknownFormat", err)
		}
	})

	t.Run("empty payload", func(t *testing.T) {
		t.Parallel()

		_, err := source.Parse([]byte("  \n"))
		if !errors.Is(err, source.ErrNoCaptions) {
			t.Errorf("Parse() error = %v, want ErrNoCaptions", err)
		}
	})

	t.Run("events without text", func(t *testing.T) {
		t.Parallel()

		_, err := source.Parse([]byte(`{"events": [{"tStartMs": 0, "dDurationMs": 100}]}`))
		if !errors.Is(err, source.ErrNoCaptions) {
			t.Errorf("Parse() error = %v, want ErrNoCaptions", err)
		}
	})
}

func assertFragments(t *testing.T, got, want []caption.Fragment) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("got %d fragments, want %d: %+v", len(got), len(want), got)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("fragment %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
