// Package index defines the similarity-index collaborator the ingestion
// pipeline writes to, and provides two implementations: an embedded
// SQLite database and an in-memory map.
//
// The ingestion core only needs two operations — Exists (metadata-
// filtered hash lookup) and Upsert — plus source removal and status
// reporting. Retrieval and ranking belong to the search side of the
// system and are deliberately absent here; nothing in this package knows
// what an embedding is.
//
// # Duplicate admission
//
// Exists-then-Upsert is two round trips without atomicity. The schema's
// UNIQUE constraint on chunk_hash (and first-writer-wins insertion) is
// what actually guarantees at-most-once admission when two callers race
// on identical new content.
//
// # Drivers
//
// The SQLite implementation compiles against modernc.org/sqlite (pure
// Go, default) or mattn/go-sqlite3 (cgo, -tags sqlite_cgo); see the
// build_* files.
package index
