package harness

import (
	"context"
	"fmt"
	"reflect"

	"github.com/roach88/linejournal/internal/entry"
	"github.com/roach88/linejournal/internal/replay"
	"github.com/roach88/linejournal/internal/source"
)

// evaluate checks one assertion against the collected journals.
func (h *harness) evaluate(ctx context.Context, a Assertion, result *Result) error {
	raw, ok := result.Journals[a.File]
	if !ok {
		var err error
		raw, err = h.journal.Read(ctx, h.journalID(a.File))
		if err != nil {
			return err
		}
	}

	switch a.Type {
	case AssertState:
		got, err := replay.Previous(raw)
		if err != nil {
			return err
		}
		return compareLines(a.Lines, got)

	case AssertStateSince:
		got, err := replay.Since(raw, a.Since)
		if err != nil {
			return err
		}
		return compareLines(a.Lines, got)

	case AssertEntryCount:
		if len(raw) != a.Count {
			return fmt.Errorf("expected %d entries, got %d", a.Count, len(raw))
		}
		return nil

	case AssertEntryAbsent:
		entries, err := entry.DecodeAll(raw)
		if err != nil {
			return err
		}
		for i, e := range entries {
			if e.Op.Content == a.Content {
				return fmt.Errorf("entry %d carries %q", i, a.Content)
			}
		}
		return nil

	case AssertMatchesFile:
		got, err := replay.Previous(raw)
		if err != nil {
			return err
		}
		current, err := source.ReadLines(h.path(a.File))
		if err != nil {
			return err
		}
		return compareLines(current, got)

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// compareLines treats nil and empty as the same sequence.
func compareLines(want, got []string) error {
	if len(want) == 0 && len(got) == 0 {
		return nil
	}
	if !reflect.DeepEqual(want, got) {
		return fmt.Errorf("expected %q, got %q", want, got)
	}
	return nil
}
