package entry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/linejournal/internal/linediff"
)

// EncodeLegacy renders a record as "<ts>, <action>, l<N>: <content>\n".
// The trailing line ending of content is trimmed.
func EncodeLegacy(timestamp string, op linediff.Op) string {
	return fmt.Sprintf("%s, %s, l%d: %s\n", timestamp, op.Kind, op.Line(), trimLineEnding(op.Content))
}

// DecodeLegacy parses a record produced by EncodeLegacy.
//
// The record is split on the first two ", " separators; the remainder loses
// its leading "l" and is split on the first ": " into index and content.
func DecodeLegacy(record string) (Entry, error) {
	line := trimLineEnding(record)

	fields := strings.SplitN(line, ", ", 3)
	if len(fields) != 3 {
		return Entry{}, formatError(ErrCodeFieldCount, record,
			fmt.Errorf("expected 3 comma-separated fields, got %d", len(fields)))
	}
	timestamp, action, change := fields[0], fields[1], fields[2]

	if !strings.HasPrefix(change, "l") {
		return Entry{}, formatError(ErrCodeFieldCount, record, errors.New(`line field must start with "l"`))
	}
	parts := strings.SplitN(change[1:], ": ", 2)
	if len(parts) != 2 {
		return Entry{}, formatError(ErrCodeFieldCount, record, errors.New(`missing ": " after line number`))
	}

	n, err := strconv.Atoi(parts[0])
	if err != nil || n < 1 {
		return Entry{}, formatError(ErrCodeBadIndex, record, fmt.Errorf("line number %q is not a positive integer", parts[0]))
	}

	kind, err := linediff.ParseKind(action)
	if err != nil {
		return Entry{}, formatError(ErrCodeBadAction, record, err)
	}

	return Entry{
		Timestamp: timestamp,
		Op:        linediff.Op{Kind: kind, Index: n - 1, Content: parts[1]},
	}, nil
}
