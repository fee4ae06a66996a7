package extractor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guiderag/guide/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		fallback string
		want     string
	}{
		{"plain first line", "Getting Started\nmore text", "stem", "Getting Started"},
		{"markdown heading", "# Getting Started\nbody", "stem", "Getting Started"},
		{"deep heading", "### Deep Heading", "stem", "Deep Heading"},
		{"html title", "<title>Page Title</title>\nbody", "stem", "Page Title"},
		{"leading blank lines", "\n\n  First Real Line  \nrest", "stem", "First Real Line"},
		{"empty content", "", "stem", "stem"},
		{"whitespace only", "   \n\t\n", "stem", "stem"},
		{"empty html title", "<title></title>", "stem", "stem"},
		{"hashes only", "###", "stem", "stem"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(tt.content, tt.fallback))
		})
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "guide.md", "# User Guide\n\nSome body text.\n")

	doc, err := FromFile(path)
	require.NoError(t, err)

	assert.Equal(t, path, doc.Source)
	assert.Equal(t, "User Guide", doc.Title)
	assert.Equal(t, types.SourceFile, doc.SourceType)
	assert.Equal(t, "# User Guide\n\nSome body text.\n", doc.Content)
	assert.NotEmpty(t, doc.ContentHash)
	assert.NotEmpty(t, doc.SourceHash)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, doc.CreatedAt.Equal(info.ModTime()), "timestamp is the file mtime")
}

func TestFromFile_EmptyContentFallsBackToStem(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "release-notes.txt", "")

	doc, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "release-notes", doc.Title)
}

func TestFromFile_Missing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrSourceNotFound))
	assert.Contains(t, err.Error(), "nope.txt")
}

func TestFromFile_ReadFailure(t *testing.T) {
	// A directory stats fine but cannot be read as a file.
	dir := t.TempDir()

	_, err := FromFile(dir)
	require.Error(t, err)

	var readErr *types.ContentReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, dir, readErr.Source)
	assert.Error(t, readErr.Unwrap())
}

func TestFromFile_DeterministicAcrossReads(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.txt", "stable content")

	a, err := FromFile(path)
	require.NoError(t, err)
	b, err := FromFile(path)
	require.NoError(t, err)

	assert.Equal(t, a.ContentHash, b.ContentHash)
	assert.Equal(t, a.SourceHash, b.SourceHash, "unchanged file reproduces its source hash")
}

func TestFromURL(t *testing.T) {
	fetchedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	doc := FromURL("https://example.com/page", "Example Page", "page body", fetchedAt)

	assert.Equal(t, "https://example.com/page", doc.Source)
	assert.Equal(t, "Example Page", doc.Title)
	assert.Equal(t, types.SourceURL, doc.SourceType)
	assert.True(t, doc.CreatedAt.Equal(fetchedAt))
}
