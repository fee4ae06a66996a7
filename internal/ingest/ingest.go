package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/guiderag/guide/internal/chunker"
	"github.com/guiderag/guide/internal/extractor"
	"github.com/guiderag/guide/internal/hashing"
	"github.com/guiderag/guide/internal/index"
	"github.com/guiderag/guide/pkg/types"
)

// Outcome is the terminal state of one document's ingestion.
type Outcome string

const (
	// OutcomeIngested means the document was chunked and its new chunks emitted.
	OutcomeIngested Outcome = "ingested"
	// OutcomeDocumentDuplicate means the index already holds this content; zero chunks emitted.
	OutcomeDocumentDuplicate Outcome = "document_duplicate"
	// OutcomeUnchangedSource means the source hash matches the previously
	// seen version; re-chunking was skipped entirely.
	OutcomeUnchangedSource Outcome = "unchanged_source"
	// OutcomeReadFailed means the document could not be read; the batch continues.
	OutcomeReadFailed Outcome = "read_failed"
)

// ErrNoFetcher is returned for URL ingestion when no fetch collaborator
// was configured.
var ErrNoFetcher = errors.New("no URL fetcher configured")

// Fetcher is the URL fetch collaborator. Fetching, rendering and decode
// policy live outside this core; the orchestrator only consumes the
// already-decoded result.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (title, content string, fetchedAt time.Time, err error)
}

// SourceError pairs a failing source with its error so a partial-failure
// batch can enumerate exactly what went wrong where.
type SourceError struct {
	Source string
	Err    error
}

func (e SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e SourceError) Unwrap() error {
	return e.Err
}

// Result accumulates the counts of one ingestion call.
type Result struct {
	DocumentsProcessed int
	DocumentsAdded     int
	ChunksEmitted      int
	ChunksSkipped      int
	Failures           []SourceError
}

// Response converts the result to the caller-facing response shape.
func (r *Result) Response() *types.IngestResponse {
	resp := &types.IngestResponse{
		DocumentsProcessed: r.DocumentsProcessed,
		DocumentsAdded:     r.DocumentsAdded,
		ChunksEmitted:      r.ChunksEmitted,
		ChunksSkipped:      r.ChunksSkipped,
	}
	for _, f := range r.Failures {
		resp.Failures = append(resp.Failures, f.Error())
	}
	return resp
}

// sourceHashCacheSize bounds the per-ingestor memory of recently seen
// source hashes.
const sourceHashCacheSize = 4096

// Ingestor coordinates the pipeline: extract -> chunk -> hash -> classify
// -> emit. Each call processes one document at a time, start to finish;
// an Ingestor holds no per-call mutable state beyond the source-hash
// cache, so concurrent calls over different sources are safe.
//
// Concurrent calls over the same source are NOT serialized here: the
// duplicate check and the emit are separate index round trips, so two
// racing ingestions of identical new content can both pass the check.
// The index's uniqueness constraint on chunk hash is the real authority
// on at-most-once admission.
type Ingestor struct {
	index   index.Index
	chunker *chunker.Chunker
	fetcher Fetcher

	// sourceHashes remembers the last source hash seen per source so an
	// unchanged source skips re-chunking without touching the index.
	sourceHashes *lru.Cache[string, string]
}

// New creates an Ingestor. The chunking configuration is validated up
// front and fixed for the ingestor's lifetime; fetcher may be nil when
// URL ingestion is not needed.
func New(idx index.Index, cfg chunker.Config, fetcher Fetcher) (*Ingestor, error) {
	ch, err := chunker.New(cfg)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New[string, string](sourceHashCacheSize)
	if err != nil {
		return nil, err
	}
	return &Ingestor{
		index:        idx,
		chunker:      ch,
		fetcher:      fetcher,
		sourceHashes: cache,
	}, nil
}

// IngestFile ingests a single file. Read failures are reported both in
// the result and as the returned error.
func (in *Ingestor) IngestFile(ctx context.Context, path string) (*Result, error) {
	res := &Result{}
	if err := in.ingestFilePath(ctx, path, res); err != nil {
		res.Failures = append(res.Failures, SourceError{Source: path, Err: err})
		return res, err
	}
	return res, nil
}

// IngestDirectory enumerates ingestible files under root and ingests
// each independently. A failure in one file never aborts the walk: the
// orchestrator accumulates successes and reports failing paths in the
// result. The walk error itself (missing root, not a directory) is the
// only fatal condition.
func (in *Ingestor) IngestDirectory(ctx context.Context, root string, recursive bool) (*Result, error) {
	paths, err := ListSources(root, recursive)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		if err := in.ingestFilePath(ctx, path, res); err != nil {
			res.Failures = append(res.Failures, SourceError{Source: path, Err: err})
			log.Printf("ingest: %s: %v", path, err)
		}
	}

	log.Printf("ingest: directory %s: %d processed, %d added, %d failed",
		root, res.DocumentsProcessed, res.DocumentsAdded, len(res.Failures))
	return res, nil
}

// IngestURL fetches a URL through the configured collaborator and
// ingests the result.
func (in *Ingestor) IngestURL(ctx context.Context, url string) (*Result, error) {
	if in.fetcher == nil {
		return nil, ErrNoFetcher
	}

	res := &Result{}
	title, content, fetchedAt, err := in.fetcher.Fetch(ctx, url)
	if err != nil {
		readErr := &types.ContentReadError{Source: url, Err: err}
		res.Failures = append(res.Failures, SourceError{Source: url, Err: readErr})
		return res, readErr
	}

	doc := extractor.FromURL(url, title, content, fetchedAt)
	if _, err := in.IngestDocument(ctx, doc, res); err != nil {
		res.Failures = append(res.Failures, SourceError{Source: url, Err: err})
		return res, err
	}
	return res, nil
}

// ingestFilePath extracts one file and runs it through the pipeline.
func (in *Ingestor) ingestFilePath(ctx context.Context, path string, res *Result) error {
	doc, err := extractor.FromFile(path)
	if err != nil {
		return err
	}
	_, err = in.IngestDocument(ctx, doc, res)
	return err
}

// IngestDocument classifies and, when warranted, chunks and emits one
// already-extracted document, accumulating counts into res. The returned
// outcome is terminal for the document.
func (in *Ingestor) IngestDocument(ctx context.Context, doc *types.Document, res *Result) (Outcome, error) {
	if err := doc.Validate(); err != nil {
		return OutcomeReadFailed, fmt.Errorf("%s: %w", doc.Source, err)
	}

	// Incremental re-ingestion: an unchanged source hash means nothing
	// about this version changed, so skip re-chunking entirely.
	if prev, ok := in.previousSourceHash(ctx, doc.Source); ok && prev == doc.SourceHash {
		res.DocumentsProcessed++
		log.Printf("ingest: %s unchanged (%s)", doc.Source, hashing.Short(doc.SourceHash))
		return OutcomeUnchangedSource, nil
	}

	// Document-level dedup: identical content already indexed under any
	// source means zero chunks to emit.
	exists, err := in.index.Exists(ctx, index.FilterDocumentHash, doc.ContentHash)
	if err != nil {
		return OutcomeReadFailed, fmt.Errorf("%s: duplicate check: %w", doc.Source, err)
	}
	if exists {
		res.DocumentsProcessed++
		in.sourceHashes.Add(doc.Source, doc.SourceHash)
		log.Printf("ingest: %s duplicate document (%s)", doc.Source, hashing.Short(doc.ContentHash))
		return OutcomeDocumentDuplicate, nil
	}

	overlap := in.chunker.Config().ChunkOverlap
	emitted, skipped := 0, 0
	for i, text := range in.chunker.Split(doc.Content) {
		chunkOverlap := overlap
		if i == 0 {
			chunkOverlap = 0
		}
		chunk := types.NewDocumentChunk(doc, i, text, in.chunker.Measure(text), chunkOverlap)

		dup, err := in.index.Exists(ctx, index.FilterChunkHash, chunk.ContentHash)
		if err != nil {
			return OutcomeReadFailed, fmt.Errorf("%s: chunk duplicate check: %w", doc.Source, err)
		}
		if dup {
			res.ChunksSkipped++
			skipped++
			continue
		}

		rec := &index.Record{ChunkID: chunk.ChunkID, Content: chunk.Content, Metadata: chunk.Metadata}
		if err := in.index.Upsert(ctx, rec); err != nil {
			return OutcomeReadFailed, fmt.Errorf("%s: emit chunk %s: %w", doc.Source, chunk.ChunkID, err)
		}
		res.ChunksEmitted++
		emitted++
	}

	res.DocumentsProcessed++
	if emitted > 0 {
		res.DocumentsAdded++
	}
	in.sourceHashes.Add(doc.Source, doc.SourceHash)
	log.Printf("ingest: %s: %d chunks emitted, %d duplicates skipped", doc.Source, emitted, skipped)
	return OutcomeIngested, nil
}

// previousSourceHash looks up the last source hash seen for a source,
// first in the LRU cache, then in the index so unchanged detection
// survives process restarts.
func (in *Ingestor) previousSourceHash(ctx context.Context, source string) (string, bool) {
	if h, ok := in.sourceHashes.Get(source); ok {
		return h, true
	}
	h, err := in.index.SourceHash(ctx, source)
	if err != nil {
		return "", false
	}
	in.sourceHashes.Add(source, h)
	return h, true
}
