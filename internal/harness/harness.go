package harness

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/linejournal/internal/entry"
	"github.com/roach88/linejournal/internal/journal"
	"github.com/roach88/linejournal/internal/store"
	"github.com/roach88/linejournal/internal/testutil"
	"github.com/roach88/linejournal/internal/tracker"
)

// harness holds the per-run collaborators.
type harness struct {
	dir     string
	journal *journal.Store
	tracker *tracker.Tracker
}

// Run executes a scenario and returns the result.
//
// Each run gets a fresh scratch directory and in-memory database.
//
// Execution flow:
// 1. Create scratch directory and in-memory journal store
// 2. Apply each step and feed it to the tracker
// 3. Collect the journal of every file touched
// 4. Evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	if err := Validate(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	dir, err := os.MkdirTemp("", "linejournal-scenario-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(dir)

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	js, err := journal.New(st, journal.Options{
		Cap:    scenario.Retention,
		Format: entry.Format(scenario.Format),
	})
	if err != nil {
		return nil, err
	}

	tr, err := tracker.New(js, tracker.Options{
		Clock:    testutil.NewDeterministicClock(),
		Sessions: testutil.NewFixedSessionGenerator(scenario.Name),
	})
	if err != nil {
		return nil, err
	}

	h := &harness{dir: dir, journal: js, tracker: tr}
	ctx := context.Background()
	result := NewResult()

	for i, step := range scenario.Steps {
		trace, err := h.applyStep(ctx, step)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.File, err)
		}
		trace.Step = i
		result.Trace = append(result.Trace, trace)
	}

	for _, step := range scenario.Steps {
		if _, ok := result.Journals[step.File]; ok {
			continue
		}
		raw, err := js.Read(ctx, h.journalID(step.File))
		if err != nil {
			return nil, fmt.Errorf("read journal of %s: %w", step.File, err)
		}
		result.Journals[step.File] = raw
	}

	for i, a := range scenario.Assertions {
		if err := h.evaluate(ctx, a, result); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d] (%s %s): %v", i, a.Type, a.File, err))
		}
	}

	return result, nil
}

func (h *harness) path(file string) string {
	return filepath.Join(h.dir, file)
}

func (h *harness) journalID(file string) string {
	return h.journal.Identify(h.path(file))
}

// applyStep mutates the scratch file and reports the change to the tracker
// with the kind a watcher would have seen.
func (h *harness) applyStep(ctx context.Context, step Step) (StepTrace, error) {
	path := h.path(step.File)

	kind := tracker.Modified
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		kind = tracker.Created
	}

	if step.Delete {
		kind = tracker.Deleted
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return StepTrace{}, err
		}
	} else {
		var content string
		if len(step.Lines) > 0 {
			content = strings.Join(step.Lines, "\n") + "\n"
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return StepTrace{}, err
		}
	}

	res, err := h.tracker.Handle(ctx, tracker.Event{Path: path, Kind: kind})
	if err != nil {
		return StepTrace{}, err
	}

	return StepTrace{
		File:    step.File,
		Kind:    kind.String(),
		Added:   res.Added,
		Evicted: res.Evicted,
		Total:   res.Total,
	}, nil
}
