package store

import (
	"context"
	"fmt"
)

// Load returns the record lines of a journal ordered by seq.
// found is false when the journal has no rows.
func (s *Store) Load(ctx context.Context, id string) ([]string, bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT line FROM journal_entries
		WHERE journal_id = ?
		ORDER BY seq ASC
	`, id)
	if err != nil {
		return nil, false, fmt.Errorf("load journal %s: %w", id, err)
	}
	defer rows.Close()

	lines := []string{}
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, false, fmt.Errorf("scan journal %s: %w", id, err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate journal %s: %w", id, err)
	}

	return lines, len(lines) > 0, nil
}

// Replace swaps the record lines of a journal in one transaction.
func (s *Store) Replace(ctx context.Context, id string, lines []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace journal %s: begin tx: %w", id, err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `DELETE FROM journal_entries WHERE journal_id = ?`, id); err != nil {
		return fmt.Errorf("replace journal %s: delete: %w", id, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO journal_entries (journal_id, seq, line)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("replace journal %s: prepare: %w", id, err)
	}
	defer stmt.Close()

	for i, line := range lines {
		if _, err := stmt.ExecContext(ctx, id, i, line); err != nil {
			return fmt.Errorf("replace journal %s: insert %d: %w", id, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace journal %s: commit: %w", id, err)
	}
	return nil
}

// List returns the ids of all journals in ascending byte order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT journal_id FROM journal_entries
		ORDER BY journal_id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list journals: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan journal id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal ids: %w", err)
	}
	return ids, nil
}
