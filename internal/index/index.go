package index

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist.
	ErrNotFound = errors.New("not found")
	// ErrUnknownFilter is returned for a filter the index doesn't support.
	ErrUnknownFilter = errors.New("unknown filter")
)

// Filter names the metadata field an existence check matches against.
type Filter string

const (
	// FilterDocumentHash matches the content hash of a whole document.
	FilterDocumentHash Filter = "document_hash"
	// FilterChunkHash matches the content hash of a single chunk.
	FilterChunkHash Filter = "chunk_hash"
)

// Record is one chunk as handed to the similarity index: identifier,
// text and the flattened metadata the index stores alongside it.
// Embedding happens downstream; the ingestion core never sees vectors.
type Record struct {
	ChunkID  string
	Content  string
	Metadata map[string]string
}

// HealthStatus reports whether the index is usable and how much it holds.
type HealthStatus struct {
	Accessible bool
	ChunkCount int
}

// Index is the narrow collaborator surface the ingestion core consumes.
// Exists and Upsert are the write-path contract; the remaining operations
// support source removal and status reporting.
//
// Exists followed by Upsert is two round trips with no atomicity between
// them: two concurrent ingestions of the same new document can both see
// "not a duplicate" and both emit. The index itself is the authority on
// at-most-once admission (the SQLite implementation enforces a unique
// constraint on chunk_hash); callers must not assume the pair is atomic.
type Index interface {
	Exists(ctx context.Context, filter Filter, hash string) (bool, error)
	Upsert(ctx context.Context, rec *Record) error

	// SourceHash returns the most recently stored source hash for a
	// source, or ErrNotFound. Used for incremental re-ingestion.
	SourceHash(ctx context.Context, source string) (string, error)

	DeleteBySource(ctx context.Context, source string) (int, error)
	Count(ctx context.Context) (int, error)
	Health(ctx context.Context) HealthStatus
	Close() error
}
