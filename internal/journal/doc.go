// Package journal owns the bounded per-file change journals.
//
// Each tracked file maps to one journal, identified by
// "<prefix>_<base name>_<fingerprint>.DAT". A journal holds at most Cap
// records in append order; when an append pushes it over the cap the oldest
// records are evicted and the full list is rewritten.
//
// # Single writer
//
// Append and Record hold a per-journal mutex for the whole
// load → diff → encode → trim → rewrite sequence, so concurrent callers on
// the same journal never interleave. Read, Exists and List take no lock and
// may observe a list that is about to be replaced.
//
// # Persistence
//
// Records are persisted through a Backend. DirBackend keeps one text file per
// journal; internal/store provides a SQLite backend with the same contract.
package journal
