// Package replay reconstructs line sequences from journal records.
//
// Replay always starts from an empty sequence and applies records in stored
// order with linediff.Apply. It is a pure function of the records and the
// optional threshold.
//
// StateAtOrAfter does NOT rebuild the historical snapshot at the threshold.
// Records older than the threshold are skipped rather than used as a base,
// so the result is "changes since the threshold applied to nothing". Callers
// that expect a point-in-time snapshot will be surprised; this matches how
// journals have always been rebuilt and is kept on purpose.
package replay

import (
	"context"
	"fmt"

	"github.com/roach88/linejournal/internal/entry"
	"github.com/roach88/linejournal/internal/linediff"
)

// Reader supplies the raw records of a journal. A missing journal must read
// as an empty slice without error.
type Reader interface {
	Read(ctx context.Context, id string) ([]string, error)
}

// Reconstructor rebuilds journal states from a Reader.
type Reconstructor struct {
	reader Reader
}

// New returns a Reconstructor over r.
func New(r Reader) *Reconstructor {
	return &Reconstructor{reader: r}
}

// PreviousState replays every record of the journal.
func (r *Reconstructor) PreviousState(ctx context.Context, id string) ([]string, error) {
	raw, err := r.reader.Read(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("previous state of %s: %w", id, err)
	}
	lines, err := Previous(raw)
	if err != nil {
		return nil, fmt.Errorf("previous state of %s: %w", id, err)
	}
	return lines, nil
}

// StateAtOrAfter replays only the records whose timestamp is not
// lexicographically less than threshold, starting from an empty sequence.
func (r *Reconstructor) StateAtOrAfter(ctx context.Context, id, threshold string) ([]string, error) {
	raw, err := r.reader.Read(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("state of %s since %s: %w", id, threshold, err)
	}
	lines, err := Since(raw, threshold)
	if err != nil {
		return nil, fmt.Errorf("state of %s since %s: %w", id, threshold, err)
	}
	return lines, nil
}

// Previous decodes raw records and replays all of them. Any malformed record
// aborts the replay; no partial state is returned.
func Previous(raw []string) ([]string, error) {
	return Since(raw, "")
}

// Since decodes raw records and replays those stamped at or after threshold.
// The empty threshold selects every record.
func Since(raw []string, threshold string) ([]string, error) {
	entries, err := entry.DecodeAll(raw)
	if err != nil {
		return nil, err
	}
	return Replay(entries, threshold), nil
}

// Replay applies entries in order to an empty sequence, skipping entries
// stamped before threshold. The result is never nil.
func Replay(entries []entry.Entry, threshold string) []string {
	lines := []string{}
	for _, e := range entries {
		if e.Timestamp < threshold {
			continue
		}
		lines = linediff.Apply(lines, e.Op)
	}
	return lines
}
