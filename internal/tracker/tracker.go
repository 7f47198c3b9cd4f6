// Package tracker turns file change notifications into journal entries.
//
// Each event is one synchronous unit of work: stamp the time, read the
// file, diff it against the state replayed from its journal and append the
// result. A failure aborts only that event.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/linejournal/internal/entry"
	"github.com/roach88/linejournal/internal/journal"
	"github.com/roach88/linejournal/internal/logging"
	"github.com/roach88/linejournal/internal/replay"
	"github.com/roach88/linejournal/internal/source"
)

// Failure stages reported in metrics.
const (
	stageRead   = "read"
	stageRecord = "record"
)

// Options configures a Tracker. Zero values select the defaults.
type Options struct {
	Clock    Clock
	Sessions SessionGenerator
	Metrics  *Metrics
	Logger   *slog.Logger
}

// Tracker records changes of watched files into a journal store.
type Tracker struct {
	store    *journal.Store
	clock    Clock
	sessions SessionGenerator
	metrics  *Metrics
	logger   *slog.Logger
}

// New creates a Tracker writing to store.
func New(store *journal.Store, opts Options) (*Tracker, error) {
	if store == nil {
		return nil, errors.New("tracker: journal store is required")
	}
	t := &Tracker{
		store:    store,
		clock:    opts.Clock,
		sessions: opts.Sessions,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
	}
	if t.clock == nil {
		t.clock = systemClock{}
	}
	if t.sessions == nil {
		t.sessions = UUIDv7Generator{}
	}
	if t.metrics == nil {
		t.metrics = NewMetrics(nil)
	}
	if t.logger == nil {
		t.logger = logging.Discard()
	}
	return t, nil
}

// Handle processes one change notification.
//
// Every kind takes the same path. A deleted file reads as empty, so every
// retained line is journaled as removed.
func (t *Tracker) Handle(ctx context.Context, ev Event) (journal.AppendResult, error) {
	session := t.sessions.Generate()
	log := t.logger.With(
		slog.String("session", session),
		slog.String("path", ev.Path),
		slog.String("kind", ev.Kind.String()),
	)
	t.metrics.Events.WithLabelValues(ev.Kind.String()).Inc()

	ts := entry.FormatTimestamp(t.clock.Now())

	current, err := source.ReadLines(ev.Path)
	if err != nil {
		t.metrics.Failures.WithLabelValues(stageRead).Inc()
		log.Error("read source failed", slog.Any("error", err))
		return journal.AppendResult{}, fmt.Errorf("handle %s: %w", ev.Path, err)
	}

	res, err := t.store.Record(ctx, ev.Path, ts, current, replay.Previous)
	if err != nil {
		t.metrics.Failures.WithLabelValues(stageRecord).Inc()
		log.Error("record change failed",
			slog.String("journal", res.JournalID),
			slog.Any("error", err))
		return res, fmt.Errorf("handle %s: %w", ev.Path, err)
	}

	t.metrics.Appended.Add(float64(res.Added))
	t.metrics.Evicted.Add(float64(res.Evicted))
	log.Info("change recorded",
		slog.String("journal", res.JournalID),
		slog.Int("added", res.Added),
		slog.Int("evicted", res.Evicted))
	return res, nil
}
