// Package source parses already-fetched caption payloads into the
// fragment model. Fetching itself (player APIs, cookies, signatures) is
// a separate collaborator; this package only understands the JSON
// shapes those collaborators hand over:
//
//   - YouTube timedtext JSON: {"events":[{"tStartMs","dDurationMs","segs":[{"utf8"}]}]}
//   - Bilibili subtitle JSON: {"body":[{"from","to","content"}]} with seconds
//   - a plain fragment list: [{"text","offset","duration"}] with milliseconds
package source

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mlaurent/go-captions/internal/caption"
)

// Parse decodes a caption payload, detecting the format by shape.
// Returns ErrUnknownFormat when the payload matches none of the known
// shapes, and ErrNoCaptions when the payload is well-formed but empty.
func Parse(data []byte) ([]caption.Fragment, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, ErrNoCaptions
	}

	if strings.HasPrefix(trimmed, "[") {
		return ParsePlain(data)
	}

	var probe struct {
		Events []json.RawMessage `json:"events"`
		Body   []json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}
	switch {
	case probe.Events != nil:
		return ParseYouTube(data)
	case probe.Body != nil:
		return ParseBilibili(data)
	}
	return nil, ErrUnknownFormat
}

// youtubeTrack mirrors the timedtext JSON delivered by YouTube's
// caption endpoint. Each event may carry multiple text segments.
type youtubeTrack struct {
	Events []struct {
		StartMs    int64 `json:"tStartMs"`
		DurationMs int64 `json:"dDurationMs"`
		Segs       []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// ParseYouTube decodes a YouTube timedtext JSON payload. Events without
// text segments (style or window events) are skipped.
func ParseYouTube(data []byte) ([]caption.Fragment, error) {
	var track youtubeTrack
	if err := json.Unmarshal(data, &track); err != nil {
		return nil, fmt.Errorf("decoding YouTube captions: %w", err)
	}

	var fragments []caption.Fragment
	for _, ev := range track.Events {
		var b strings.Builder
		for _, seg := range ev.Segs {
			b.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(strings.ReplaceAll(b.String(), "\n", " "))
		if text == "" {
			continue
		}
		fragments = append(fragments, caption.Fragment{
			Text:     text,
			Offset:   time.Duration(ev.StartMs) * time.Millisecond,
			Duration: time.Duration(ev.DurationMs) * time.Millisecond,
		})
	}
	if len(fragments) == 0 {
		return nil, ErrNoCaptions
	}
	return fragments, nil
}

// bilibiliTrack mirrors the subtitle JSON served by Bilibili, both the
// human-made and the AI-generated variants. Times are seconds.
type bilibiliTrack struct {
	Body []struct {
		From    float64 `json:"from"`
		To      float64 `json:"to"`
		Content string  `json:"content"`
	} `json:"body"`
}

// ParseBilibili decodes a Bilibili subtitle JSON payload.
func ParseBilibili(data []byte) ([]caption.Fragment, error) {
	var track bilibiliTrack
	if err := json.Unmarshal(data, &track); err != nil {
		return nil, fmt.Errorf("decoding Bilibili subtitles: %w", err)
	}

	var fragments []caption.Fragment
	for _, line := range track.Body {
		text := strings.TrimSpace(line.Content)
		if text == "" {
			continue
		}
		fragments = append(fragments, caption.Fragment{
			Text:     text,
			Offset:   secondsToDuration(line.From),
			Duration: secondsToDuration(line.To - line.From),
		})
	}
	if len(fragments) == 0 {
		return nil, ErrNoCaptions
	}
	return fragments, nil
}

// plainFragment is the neutral interchange shape for piping fragments
// between tools, with millisecond fields.
type plainFragment struct {
	Text       string `json:"text"`
	OffsetMs   int64  `json:"offset"`
	DurationMs int64  `json:"duration"`
}

// ParsePlain decodes a plain JSON fragment list.
func ParsePlain(data []byte) ([]caption.Fragment, error) {
	var list []plainFragment
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decoding fragment list: %w", err)
	}

	var fragments []caption.Fragment
	for _, f := range list {
		text := strings.TrimSpace(f.Text)
		if text == "" {
			continue
		}
		fragments = append(fragments, caption.Fragment{
			Text:     text,
			Offset:   time.Duration(f.OffsetMs) * time.Millisecond,
			Duration: time.Duration(f.DurationMs) * time.Millisecond,
		})
	}
	if len(fragments) == 0 {
		return nil, ErrNoCaptions
	}
	return fragments, nil
}

// secondsToDuration converts fractional seconds to a Duration, rounding
// to the nearest millisecond.
func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s*1000)) * time.Millisecond
}
