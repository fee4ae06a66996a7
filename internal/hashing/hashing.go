package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// ContentHash computes the hex-encoded SHA-256 of the trimmed content.
// Leading and trailing whitespace never changes content identity, so two
// documents that differ only in surrounding whitespace hash identically.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(content)))
	return hex.EncodeToString(sum[:])
}

// SourceHash computes the hex-encoded SHA-256 over source, title, timestamp
// and content joined with a literal pipe. The content is NOT trimmed here:
// the source hash exists to detect any edit to a known source, including
// trailing-whitespace-only edits that ContentHash deliberately ignores.
func SourceHash(source, title, timestamp, content string) string {
	joined := strings.Join([]string{source, title, timestamp, content}, "|")
	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])
}

// FormatTimestamp renders a timestamp the way hash inputs and stored
// metadata expect it. RFC3339 in UTC keeps source hashes reproducible
// across runs and machines.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ChunkID derives the deterministic identifier for a chunk:
//
//	chunk_<sha256(documentSource)[:8]>_<chunkIndex %04d>_<contentHash[:8]>
//
// No randomness and no clock: re-running ingestion over an unchanged
// document reproduces byte-identical IDs, which is what makes the index's
// skip-on-duplicate behavior idempotent.
func ChunkID(documentSource string, chunkIndex int, contentHash string) string {
	sum := sha256.Sum256([]byte(documentSource))
	return fmt.Sprintf("chunk_%s_%04d_%s", hex.EncodeToString(sum[:])[:8], chunkIndex, Short(contentHash))
}

// Short returns the first 8 characters of a hex hash, the form used in
// chunk IDs and log lines.
func Short(hash string) string {
	if len(hash) <= 8 {
		return hash
	}
	return hash[:8]
}
