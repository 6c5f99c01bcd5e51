// Package format provides display formatting for timestamps, time
// links, and progress reporting.
package format

import (
	"fmt"
	"time"
)

// Timestamp formats an offset as HH:MM:SS or MM:SS.
func Timestamp(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// TimeLink formats a markdown link jumping to offset in the video at
// baseURL. The exact shape is load-bearing for markdown validity:
// [MM:SS](<base-url>&t=<seconds>), seconds floored.
func TimeLink(baseURL string, offset time.Duration) string {
	return fmt.Sprintf("[%s](%s&t=%d)", Timestamp(offset), baseURL, int(offset.Seconds()))
}

// DurationHuman formats a duration for human display.
// Examples: "2h", "30m", "1h30m", "45s"
func DurationHuman(d time.Duration) string {
	if d >= time.Hour {
		hours := d / time.Hour
		minutes := (d % time.Hour) / time.Minute
		if minutes > 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}
	if d >= time.Minute {
		return fmt.Sprintf("%dm", d/time.Minute)
	}
	return fmt.Sprintf("%ds", d/time.Second)
}
