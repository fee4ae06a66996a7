package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/guiderag/guide/pkg/types"
)

// supportedExtensions is the file-type allow-list for directory walks.
// Anything else (binaries, PDFs, images) is silently excluded rather than
// reported as a failure.
var supportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".html": true,
	".htm":  true,
}

// Ingestible reports whether a path's extension is on the allow-list.
func Ingestible(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// ListSources enumerates the ingestible files under root in deterministic
// (lexical) order. Non-recursive walks consider only the immediate
// children; recursive walks descend into subdirectories but skip hidden
// ones.
func ListSources(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", types.ErrSourceNotFound, root)
		}
		return nil, &types.ContentReadError{Source: root, Err: err}
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", types.ErrNotADirectory, root)
	}

	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, &types.ContentReadError{Source: root, Err: err}
		}
		var files []string
		for _, entry := range entries {
			if entry.IsDir() || !Ingestible(entry.Name()) {
				continue
			}
			files = append(files, filepath.Join(root, entry.Name()))
		}
		return files, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if Ingestible(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, &types.ContentReadError{Source: root, Err: err}
	}
	return files, nil
}
