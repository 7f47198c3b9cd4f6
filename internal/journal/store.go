package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/linejournal/internal/entry"
	"github.com/roach88/linejournal/internal/linediff"
	"github.com/roach88/linejournal/internal/logging"
)

// DefaultCap is the retention cap used when none is configured.
const DefaultCap = 50

// Options configures a Store.
type Options struct {
	// Prefix is the identifier prefix (DefaultPrefix when empty).
	Prefix string

	// Cap is the maximum number of records kept per journal (DefaultCap
	// when zero or negative).
	Cap int

	// Format selects the wire format of newly written records.
	Format entry.Format

	// Logger receives debug output; nil discards it.
	Logger *slog.Logger
}

// BaseFunc derives the prior line sequence from a journal's raw records.
type BaseFunc func(raw []string) ([]string, error)

// AppendResult summarizes one append.
type AppendResult struct {
	JournalID string
	Added     int // records appended by this call
	Evicted   int // oldest records dropped to honour the cap
	Total     int // records held after the append
}

// Store owns the journals persisted in a Backend.
type Store struct {
	backend Backend
	prefix  string
	cap     int
	format  entry.Format
	locks   *keyedMutex
	logger  *slog.Logger
}

// New creates a Store over backend.
func New(backend Backend, opts Options) (*Store, error) {
	if backend == nil {
		return nil, errors.New("journal store: backend is required")
	}
	format, err := entry.ParseFormat(string(opts.Format))
	if err != nil {
		return nil, fmt.Errorf("journal store: %w", err)
	}
	if opts.Cap <= 0 {
		opts.Cap = DefaultCap
	}
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Store{
		backend: backend,
		prefix:  opts.Prefix,
		cap:     opts.Cap,
		format:  format,
		locks:   newKeyedMutex(),
		logger:  logger,
	}, nil
}

// Cap returns the retention cap.
func (s *Store) Cap() int {
	return s.cap
}

// Identify returns the journal id for filePath under this store's prefix.
func (s *Store) Identify(filePath string) string {
	return Identify(s.prefix, filePath)
}

// Append diffs prior against current and appends the resulting records,
// stamped with timestamp, to the journal of filePath.
func (s *Store) Append(ctx context.Context, filePath, timestamp string, prior, current []string) (AppendResult, error) {
	return s.Record(ctx, filePath, timestamp, current, func([]string) ([]string, error) {
		return prior, nil
	})
}

// Record is Append with the prior state derived from the journal itself.
// base runs on the records loaded under the journal lock, so the prior state
// and the rewrite always see the same list.
//
// An empty diff writes nothing and does not create the journal.
func (s *Store) Record(ctx context.Context, filePath, timestamp string, current []string, base BaseFunc) (AppendResult, error) {
	id := s.Identify(filePath)
	result := AppendResult{JournalID: id}

	unlock := s.locks.Lock(id)
	defer unlock()

	raw, _, err := s.backend.Load(ctx, id)
	if err != nil {
		return result, fmt.Errorf("append %s: %w", id, err)
	}

	var prior []string
	if base != nil {
		prior, err = base(raw)
		if err != nil {
			return result, fmt.Errorf("append %s: %w", id, err)
		}
	}

	ops := linediff.Diff(prior, current)
	result.Total = len(raw)
	if len(ops) == 0 {
		return result, nil
	}

	encoded, err := s.format.EncodeAll(timestamp, ops)
	if err != nil {
		return result, fmt.Errorf("append %s: %w", id, err)
	}

	lines := append(raw, encoded...)
	if over := len(lines) - s.cap; over > 0 {
		lines = lines[over:]
		result.Evicted = over
	}

	if err := s.backend.Replace(ctx, id, lines); err != nil {
		return result, fmt.Errorf("append %s: %w", id, err)
	}

	result.Added = len(encoded)
	result.Total = len(lines)
	s.logger.Debug("journal appended",
		"journal", id,
		"added", result.Added,
		"evicted", result.Evicted,
		"total", result.Total,
	)
	return result, nil
}

// Read returns the persisted records of a journal verbatim. A journal that
// does not exist reads as empty.
func (s *Store) Read(ctx context.Context, id string) ([]string, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	lines, _, err := s.backend.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", id, err)
	}
	if lines == nil {
		lines = []string{}
	}
	return lines, nil
}

// Exists reports whether a journal has been created.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	if err := ValidateID(id); err != nil {
		return false, err
	}
	_, found, err := s.backend.Load(ctx, id)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", id, err)
	}
	return found, nil
}

// List returns the ids of all known journals in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	ids, err := s.backend.List(ctx)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
