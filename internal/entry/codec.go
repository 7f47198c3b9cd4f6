package entry

import (
	"fmt"
	"strings"

	"github.com/roach88/linejournal/internal/linediff"
)

// Format selects the wire format used when writing records.
type Format string

const (
	FormatLegacy Format = "legacy"
	FormatV2     Format = "v2"
)

// ParseFormat validates a configured format name. The empty string selects
// FormatV2.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatV2:
		return FormatV2, nil
	case FormatLegacy:
		return FormatLegacy, nil
	default:
		return "", fmt.Errorf("unknown record format %q (want %q or %q)", s, FormatV2, FormatLegacy)
	}
}

// Encode renders one record in format f without a trailing newline.
func (f Format) Encode(timestamp string, op linediff.Op) (string, error) {
	switch f {
	case FormatLegacy:
		return strings.TrimSuffix(EncodeLegacy(timestamp, op), "\n"), nil
	case FormatV2, "":
		return EncodeV2(timestamp, op)
	default:
		return "", fmt.Errorf("encode record: unknown format %q", f)
	}
}

// EncodeAll renders every op with the same timestamp.
func (f Format) EncodeAll(timestamp string, ops []linediff.Op) ([]string, error) {
	out := make([]string, 0, len(ops))
	for _, op := range ops {
		rec, err := f.Encode(timestamp, op)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Decode parses a record in either format.
func Decode(raw string) (Entry, error) {
	if strings.HasPrefix(raw, "{") {
		return DecodeV2(trimLineEnding(raw))
	}
	return DecodeLegacy(raw)
}

// DecodeAll decodes records in order and stops at the first malformed one.
// Callers must not use a partial result: on error the returned slice is nil.
func DecodeAll(raws []string) ([]Entry, error) {
	entries := make([]Entry, 0, len(raws))
	for i, raw := range raws {
		e, err := Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("decode record %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
