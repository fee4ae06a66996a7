package types

import (
	"errors"
	"time"

	"github.com/guiderag/guide/internal/hashing"
)

// SourceType identifies where a document came from.
type SourceType string

const (
	SourceFile      SourceType = "file"
	SourceDirectory SourceType = "directory"
	SourceURL       SourceType = "url"
)

// Document represents one logical source unit of already-decoded text.
// Hash fields are computed once at construction and never mutated; two
// Documents with identical trimmed content share a ContentHash regardless
// of origin, and two Documents are the same version iff their SourceHash
// values are equal.
type Document struct {
	// Identification
	Source     string // file path or URL, the stable identity of origin
	Title      string
	SourceType SourceType

	// Content
	Content string

	// Derived identity
	ContentHash string // SHA-256 of trimmed content
	SourceHash  string // SHA-256 of source|title|timestamp|content

	// Metadata
	Extra     map[string]string // open extension map for arbitrary extras
	CreatedAt time.Time         // file mtime for files, fetch time for URLs
}

// NewDocument builds an immutable Document with both hashes computed.
func NewDocument(source, title string, sourceType SourceType, content string, createdAt time.Time) *Document {
	return &Document{
		Source:      source,
		Title:       title,
		SourceType:  sourceType,
		Content:     content,
		ContentHash: hashing.ContentHash(content),
		SourceHash:  hashing.SourceHash(source, title, hashing.FormatTimestamp(createdAt), content),
		CreatedAt:   createdAt,
	}
}

// Timestamp returns the creation time in the canonical string form used
// for hash inputs and stored metadata.
func (d *Document) Timestamp() string {
	return hashing.FormatTimestamp(d.CreatedAt)
}

// Metadata flattens the document into the string-keyed map handed to the
// similarity index. Extras go in first so the well-known fields cannot be
// clobbered by them.
func (d *Document) Metadata() map[string]string {
	md := make(map[string]string, len(d.Extra)+6)
	for k, v := range d.Extra {
		md[k] = v
	}
	md["source"] = d.Source
	md["title"] = d.Title
	md["source_type"] = string(d.SourceType)
	md["timestamp"] = d.Timestamp()
	md["content_hash"] = d.ContentHash
	md["source_hash"] = d.SourceHash
	return md
}

// Validate checks that the document carries its identity fields.
func (d *Document) Validate() error {
	if d.Source == "" {
		return errors.New("document source cannot be empty")
	}
	if d.ContentHash == "" || d.SourceHash == "" {
		return errors.New("document hashes must be computed")
	}
	return nil
}
