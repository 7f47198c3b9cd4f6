package entry

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/linejournal/internal/linediff"
)

// TimestampLayout is the fixed-width timestamp format used in records.
// Lexicographic order of formatted timestamps equals chronological order.
const TimestampLayout = "2006-01-02 15:04:05"

// Entry is one decoded journal record.
type Entry struct {
	Timestamp string
	Op        linediff.Op
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp validates s against TimestampLayout.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q must match %q: %w", s, "YYYY-MM-DD HH:MM:SS", err)
	}
	return t, nil
}

// trimLineEnding drops trailing CR/LF characters only.
func trimLineEnding(s string) string {
	return strings.TrimRight(s, "\r\n")
}
