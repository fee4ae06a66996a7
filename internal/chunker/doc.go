// Package chunker divides document text into overlapping chunks for
// indexing and similarity search.
//
// # Basic Usage
//
//	c, err := chunker.New(chunker.Config{ChunkSize: 1000, ChunkOverlap: 200})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for i, text := range c.Split(content) {
//	    fmt.Printf("chunk %d: %d units\n", i, c.Measure(text))
//	}
//
// # Modes
//
// Two budget units are supported:
//
//   - ModeCharacters (canonical default): windows over characters and
//     snaps each split point back up to 50 characters to the nearest
//     space, so chunk byte length stays predictable without cutting words
//     in half. Chunks are trimmed; whitespace-only chunks are dropped.
//   - ModeWords: windows over whitespace-delimited words, joined with
//     single spaces.
//
// # Forward Progress
//
// Both modes advance the window start by max(end-overlap, start+1). The
// start+1 floor makes termination unconditional: even a pathological
// configuration with overlap >= chunk size produces a finite, strictly
// advancing sequence of chunks rather than looping forever.
//
// # Degenerate Input
//
// Empty or whitespace-only content yields exactly one chunk equal to the
// original content. Ingestion always gets at least one unit of record
// keeping per document, never an empty sequence.
package chunker
