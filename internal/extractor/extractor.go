package extractor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/guiderag/guide/pkg/types"
)

// FromFile reads a file and derives its Document: title from the content,
// timestamp from the file's modification time, source URI from the path.
// A missing file maps to ErrSourceNotFound; any other I/O failure comes
// back as a ContentReadError carrying the offending source.
func FromFile(path string) (*types.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", types.ErrSourceNotFound, path)
		}
		return nil, &types.ContentReadError{Source: path, Err: err}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &types.ContentReadError{Source: path, Err: err}
	}

	content := string(raw)
	return types.NewDocument(path, Title(content, stem(path)), types.SourceFile, content, info.ModTime()), nil
}

// FromURL assembles a Document from material produced by the fetch
// collaborator. The extractor does no fetching itself; it only joins the
// fetched fields into the document's hash inputs.
func FromURL(url, title, content string, fetchedAt time.Time) *types.Document {
	return types.NewDocument(url, title, types.SourceURL, content, fetchedAt)
}

// Title derives a document title: the first non-empty line of the
// content with Markdown heading markers stripped and a literal
// <title>...</title> wrapper unwrapped. Empty or whitespace-only content
// falls back to the supplied fallback (the filename stem for files).
func Title(content, fallback string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return fallback
	}

	line, _, _ := strings.Cut(trimmed, "\n")
	line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
	if strings.HasPrefix(line, "<title>") && strings.HasSuffix(line, "</title>") {
		line = line[len("<title>") : len(line)-len("</title>")]
	}

	if line == "" {
		return fallback
	}
	return line
}

// stem returns the path's final component without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
