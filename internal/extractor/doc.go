// Package extractor turns raw source material into Documents with title,
// source URI and timestamp metadata.
//
// For file sources the title comes from the first non-empty content line
// (Markdown heading markers and <title> wrappers removed, filename stem
// as fallback) and the timestamp from the file's mtime. For URL sources
// the fetch collaborator supplies title, content and fetch time; the
// extractor only assembles them into a Document.
//
// Format-specific extraction (HTML stripping, PDF text, and so on) is
// not this package's job: it receives already-decoded text.
package extractor
