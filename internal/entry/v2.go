package entry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/linejournal/internal/linediff"
)

// Version is the current structured record version.
const Version = 2

// record is the v2 wire shape. Field order is fixed so encoding is
// deterministic.
type record struct {
	V       int    `json:"v"`
	TS      string `json:"ts"`
	Op      string `json:"op"`
	Line    int    `json:"line"`
	Content string `json:"content"`
}

// EncodeV2 renders a record as a single-line JSON object (no trailing
// newline). HTML escaping is disabled so content is stored as written.
func EncodeV2(timestamp string, op linediff.Op) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(record{
		V:       Version,
		TS:      timestamp,
		Op:      op.Kind.String(),
		Line:    op.Line(),
		Content: trimLineEnding(op.Content),
	})
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// DecodeV2 parses a record produced by EncodeV2.
func DecodeV2(raw string) (Entry, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()

	var r record
	if err := dec.Decode(&r); err != nil {
		return Entry{}, formatError(ErrCodeBadRecord, raw, err)
	}
	if dec.More() {
		return Entry{}, formatError(ErrCodeBadRecord, raw, errors.New("trailing data after record"))
	}
	if r.V != Version {
		return Entry{}, formatError(ErrCodeBadRecord, raw, fmt.Errorf("unsupported record version %d", r.V))
	}
	if r.Line < 1 {
		return Entry{}, formatError(ErrCodeBadIndex, raw, fmt.Errorf("line number %d is not a positive integer", r.Line))
	}
	kind, err := linediff.ParseKind(r.Op)
	if err != nil {
		return Entry{}, formatError(ErrCodeBadAction, raw, err)
	}

	return Entry{
		Timestamp: r.TS,
		Op:        linediff.Op{Kind: kind, Index: r.Line - 1, Content: r.Content},
	}, nil
}
