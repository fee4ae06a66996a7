package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentHash_TrimInvariance(t *testing.T) {
	base := ContentHash("hello world")

	tests := []struct {
		name    string
		content string
		same    bool
	}{
		{"identical", "hello world", true},
		{"leading whitespace", "   hello world", true},
		{"trailing whitespace", "hello world\n\n", true},
		{"both ends", "\t hello world \n", true},
		{"interior whitespace differs", "hello  world", false},
		{"different content", "hello there", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContentHash(tt.content)
			if tt.same {
				assert.Equal(t, base, got)
			} else {
				assert.NotEqual(t, base, got)
			}
		})
	}
}

func TestContentHash_MatchesRawDigest(t *testing.T) {
	sum := sha256.Sum256([]byte("abc"))
	assert.Equal(t, hex.EncodeToString(sum[:]), ContentHash("abc"))
}

func TestSourceHash_FieldSensitivity(t *testing.T) {
	base := SourceHash("/docs/a.md", "Title", "2024-01-02T03:04:05Z", "body")

	// Changing any single field changes the hash.
	assert.NotEqual(t, base, SourceHash("/docs/b.md", "Title", "2024-01-02T03:04:05Z", "body"))
	assert.NotEqual(t, base, SourceHash("/docs/a.md", "Other", "2024-01-02T03:04:05Z", "body"))
	assert.NotEqual(t, base, SourceHash("/docs/a.md", "Title", "2024-01-02T03:04:06Z", "body"))
	assert.NotEqual(t, base, SourceHash("/docs/a.md", "Title", "2024-01-02T03:04:05Z", "body2"))

	// Identical inputs reproduce the hash.
	assert.Equal(t, base, SourceHash("/docs/a.md", "Title", "2024-01-02T03:04:05Z", "body"))
}

func TestSourceHash_ContentNotTrimmed(t *testing.T) {
	// A trailing-whitespace-only edit must register as a source change
	// even though it does not change the content hash.
	a := SourceHash("/docs/a.md", "Title", "2024-01-02T03:04:05Z", "body")
	b := SourceHash("/docs/a.md", "Title", "2024-01-02T03:04:05Z", "body \n")
	assert.NotEqual(t, a, b)
	assert.Equal(t, ContentHash("body"), ContentHash("body \n"))
}

func TestFormatTimestamp(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	ts := time.Date(2024, 6, 1, 17, 30, 0, 0, loc)
	assert.Equal(t, "2024-06-01T12:30:00Z", FormatTimestamp(ts))
}

func TestChunkID_Format(t *testing.T) {
	contentHash := ContentHash("chunk body")
	id := ChunkID("/docs/a.md", 7, contentHash)

	parts := strings.Split(id, "_")
	require.Len(t, parts, 4)
	assert.Equal(t, "chunk", parts[0])
	assert.Len(t, parts[1], 8)
	assert.Equal(t, "0007", parts[2])
	assert.Equal(t, contentHash[:8], parts[3])
}

func TestChunkID_Deterministic(t *testing.T) {
	h := ContentHash("same content")
	assert.Equal(t, ChunkID("/a", 0, h), ChunkID("/a", 0, h))

	// Any input change produces a different ID.
	assert.NotEqual(t, ChunkID("/a", 0, h), ChunkID("/b", 0, h))
	assert.NotEqual(t, ChunkID("/a", 0, h), ChunkID("/a", 1, h))
	assert.NotEqual(t, ChunkID("/a", 0, h), ChunkID("/a", 0, ContentHash("other")))
}

func TestShort(t *testing.T) {
	assert.Equal(t, "abcdef12", Short("abcdef1234567890"))
	assert.Equal(t, "abc", Short("abc"))
}
