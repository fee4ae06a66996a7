// Package hashing implements the two-tier content identity scheme used
// throughout the ingestion pipeline.
//
// Two hashes with distinct purposes:
//
//   - ContentHash: SHA-256 of trimmed text. Detects byte-identical content
//     regardless of where it came from. Used for document- and chunk-level
//     deduplication.
//   - SourceHash: SHA-256 of source|title|timestamp|content. Detects any
//     change to a known source across re-ingestion, including edits that
//     ContentHash normalizes away.
//
// Two documents with identical trimmed content always share a ContentHash;
// two documents are the same version iff their SourceHash values are equal.
//
// ChunkID composes a deterministic chunk identifier from the document
// source, the chunk's position and the chunk's own content hash:
//
//	id := hashing.ChunkID("/docs/guide.md", 3, chunkHash)
//	// "chunk_a1b2c3d4_0003_e5f6a7b8"
//
// All functions are pure over in-memory strings and have no error cases.
package hashing
