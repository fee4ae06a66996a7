package types

import (
	"errors"
	"fmt"
)

// Domain errors surfaced by the ingestion pipeline. Every surfaced error
// names the offending source so a partial-failure batch response can
// enumerate which sources failed and why.
var (
	// ErrSourceNotFound indicates a file or directory that does not exist.
	ErrSourceNotFound = errors.New("source not found")
	// ErrNotADirectory indicates a directory-mode call against a non-directory.
	ErrNotADirectory = errors.New("not a directory")
	// ErrInvalidChunkConfig indicates a chunk size <= 0 or negative overlap;
	// rejected before any work begins.
	ErrInvalidChunkConfig = errors.New("invalid chunk configuration")
)

// ContentReadError reports an I/O failure while reading a document. It is
// fatal for that document only; a directory batch continues with the next
// source.
type ContentReadError struct {
	Source string
	Err    error
}

func (e *ContentReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Source, e.Err)
}

func (e *ContentReadError) Unwrap() error {
	return e.Err
}
