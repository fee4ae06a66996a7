// Package types defines the core data model of the ingestion pipeline:
// Document, DocumentChunk, the caller-facing request/response shapes and
// the domain error taxonomy.
//
// Documents and chunks are value objects: their identity hashes are
// computed at construction time and never mutated afterwards. The
// pipeline does not retain them beyond producing emitted records;
// ownership of persisted state belongs to the similarity index.
//
// The well-known metadata fields (source, title, timestamp, hashes) are
// typed struct fields; arbitrary extras travel in the Extra map and are
// flattened alongside them by Document.Metadata.
package types
