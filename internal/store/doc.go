// Package store provides a SQLite-backed journal backend.
//
// It persists exactly what the file backend persists: the ordered record
// lines of each journal, keyed by journal id. A journal exists once it has at
// least one row.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Replace runs DELETE + INSERT inside one transaction, so readers see either
// the old or the new record list, never a mix. All reads order by seq.
package store
