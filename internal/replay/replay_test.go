package replay

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/linejournal/internal/entry"
	"github.com/roach88/linejournal/internal/linediff"
)

// mapReader is an in-memory Reader keyed by journal id.
type mapReader map[string][]string

func (m mapReader) Read(_ context.Context, id string) ([]string, error) {
	if raw, ok := m[id]; ok {
		return raw, nil
	}
	return []string{}, nil
}

type failingReader struct{ err error }

func (f failingReader) Read(context.Context, string) ([]string, error) {
	return nil, f.err
}

// journalOf encodes successive states as diff batches, one timestamp each.
func journalOf(t *testing.T, states ...[]string) []string {
	t.Helper()
	var raw []string
	var prev []string
	for i, st := range states {
		ts := fmt.Sprintf("2024-12-09 10:00:%02d", i)
		recs, err := entry.FormatV2.EncodeAll(ts, linediff.Diff(prev, st))
		require.NoError(t, err)
		raw = append(raw, recs...)
		prev = st
	}
	return raw
}

func TestPreviousState_ReplaysAllBatches(t *testing.T) {
	raw := journalOf(t,
		[]string{"a", "b", "c"},
		[]string{"a", "x", "c"},
		[]string{"a", "x", "c", "d"},
	)
	r := New(mapReader{"j.DAT": raw})

	got, err := r.PreviousState(context.Background(), "j.DAT")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "x", "c", "d"}, got)
}

func TestPreviousState_ScenarioC(t *testing.T) {
	raw := journalOf(t, []string{"a", "b"}, []string{})
	got, err := Previous(raw)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPreviousState_MissingJournalIsEmpty(t *testing.T) {
	r := New(mapReader{})
	got, err := r.PreviousState(context.Background(), "none.DAT")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPreviousState_ReaderError(t *testing.T) {
	boom := errors.New("disk on fire")
	r := New(failingReader{err: boom})
	_, err := r.PreviousState(context.Background(), "j.DAT")
	assert.ErrorIs(t, err, boom)
}

func TestPreviousState_FormatErrorAbortsReplay(t *testing.T) {
	raw := journalOf(t, []string{"a", "b"})
	raw = append(raw, "2024-12-09 10:00:09, added, lzz: nope")
	raw = append(raw, journalOf(t, []string{"c"})...)

	r := New(mapReader{"j.DAT": raw})
	got, err := r.PreviousState(context.Background(), "j.DAT")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, entry.IsFormatError(err))
}

func TestStateAtOrAfter_Bounds(t *testing.T) {
	raw := journalOf(t,
		[]string{"a", "b"},
		[]string{"a", "b", "c"},
		[]string{"z", "b", "c"},
	)
	r := New(mapReader{"j.DAT": raw})
	ctx := context.Background()

	all, err := r.PreviousState(ctx, "j.DAT")
	require.NoError(t, err)

	older, err := r.StateAtOrAfter(ctx, "j.DAT", "2000-01-01 00:00:00")
	require.NoError(t, err)
	assert.Equal(t, all, older)

	newer, err := r.StateAtOrAfter(ctx, "j.DAT", "2030-01-01 00:00:00")
	require.NoError(t, err)
	assert.Empty(t, newer)
}

// A threshold replay is not a historical snapshot: changes from the threshold
// on are applied to an empty sequence.
func TestStateAtOrAfter_StartsFromEmptyNotFromHistory(t *testing.T) {
	raw := journalOf(t,
		[]string{"a", "b", "c"}, // 10:00:00
		[]string{"a", "x", "c"}, // 10:00:01: removed l2 b, added l2 x
	)

	got, err := Since(raw, "2024-12-09 10:00:01")
	require.NoError(t, err)
	// Removing line 2 from nothing is a no-op; adding line 2 to nothing appends.
	assert.Equal(t, []string{"x"}, got)
}

func TestStateAtOrAfter_ThresholdIsInclusive(t *testing.T) {
	raw := journalOf(t, []string{"a"}, []string{"a", "b"})

	got, err := Since(raw, "2024-12-09 10:00:00")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestReplay_Deterministic(t *testing.T) {
	raw := journalOf(t,
		[]string{"1", "2", "3", "4"},
		[]string{"2", "3"},
		[]string{"2", "3", "5", "6", "7"},
		[]string{"7"},
	)
	entries, err := entry.DecodeAll(raw)
	require.NoError(t, err)

	first := Replay(entries, "")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Replay(entries, ""))
	}
	assert.Equal(t, []string{"7"}, first)
}

func TestReplay_MatchesTrackedHistory(t *testing.T) {
	states := [][]string{
		{"title", "", "body"},
		{"title", "intro", "", "body"},
		{"title"},
		{},
		{"again"},
	}
	for n := 1; n <= len(states); n++ {
		got, err := Previous(journalOf(t, states[:n]...))
		require.NoError(t, err)
		want := states[n-1]
		if len(want) == 0 {
			assert.Empty(t, got, "after %d states", n)
			continue
		}
		assert.Equal(t, want, got, "after %d states", n)
	}
}
