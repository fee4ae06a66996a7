package types

import (
	"errors"
	"strconv"
	"time"

	"github.com/guiderag/guide/internal/hashing"
)

// DocumentChunk is one ingestible unit derived from a Document. Like the
// Document it is constructed once, hashes included, and never mutated.
type DocumentChunk struct {
	// Identification
	ChunkID        string // deterministic, see hashing.ChunkID
	DocumentSource string

	// Content
	Content     string
	ContentHash string // hash of this chunk's own trimmed content

	// Position
	ChunkIndex   int // 0-based, strictly increasing within a document
	ChunkSize    int // measured in the configured unit (characters or words)
	ChunkOverlap int // 0 for the first chunk, configured overlap otherwise

	// Metadata
	Metadata  map[string]string // document metadata plus chunk-specific fields
	CreatedAt time.Time
}

// NewDocumentChunk derives a chunk from its parent document. The chunk ID
// is a pure function of document source, chunk index and chunk content, so
// repeated ingestion runs over unchanged content reproduce the same IDs.
func NewDocumentChunk(doc *Document, chunkIndex int, content string, size, overlap int) *DocumentChunk {
	contentHash := hashing.ContentHash(content)
	c := &DocumentChunk{
		ChunkID:        hashing.ChunkID(doc.Source, chunkIndex, contentHash),
		DocumentSource: doc.Source,
		Content:        content,
		ContentHash:    contentHash,
		ChunkIndex:     chunkIndex,
		ChunkSize:      size,
		ChunkOverlap:   overlap,
		CreatedAt:      time.Now().UTC(),
	}

	md := doc.Metadata()
	md["document_hash"] = doc.ContentHash
	md["chunk_hash"] = contentHash
	md["chunk_index"] = strconv.Itoa(chunkIndex)
	md["chunk_size"] = strconv.Itoa(size)
	md["chunk_overlap"] = strconv.Itoa(overlap)
	md["created_at"] = hashing.FormatTimestamp(c.CreatedAt)
	c.Metadata = md

	return c
}

// Validate performs basic integrity checks on the chunk.
func (c *DocumentChunk) Validate() error {
	if c.ChunkID == "" {
		return errors.New("chunk ID must be computed")
	}
	if c.DocumentSource == "" {
		return errors.New("chunk document source cannot be empty")
	}
	if c.ChunkIndex < 0 {
		return errors.New("chunk index must be non-negative")
	}
	if c.ContentHash == "" {
		return errors.New("chunk content hash must be computed")
	}
	return nil
}
