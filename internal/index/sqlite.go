package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
)

// SQLiteIndex implements the Index interface on an embedded SQLite
// database. Which driver backs it depends on build tags; see
// build_purego.go and build_cgo.go.
type SQLiteIndex struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteIndex opens (or creates) the index database and applies
// pending migrations.
func NewSQLiteIndex(dbPath string) (*SQLiteIndex, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteIndex{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteIndex) Close() error {
	return s.db.Close()
}

// filterColumn maps a Filter onto its indexed column. Filters are a
// closed set; anything else is rejected rather than interpolated.
func filterColumn(filter Filter) (string, error) {
	switch filter {
	case FilterDocumentHash:
		return "document_hash", nil
	case FilterChunkHash:
		return "chunk_hash", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFilter, filter)
	}
}

// Exists reports whether any stored chunk matches the hash under the
// given filter.
func (s *SQLiteIndex) Exists(ctx context.Context, filter Filter, hash string) (bool, error) {
	col, err := filterColumn(filter)
	if err != nil {
		return false, err
	}

	var one int
	err = s.db.QueryRowContext(ctx, "SELECT 1 FROM chunks WHERE "+col+" = ? LIMIT 1", hash).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", col, err)
	}
	return true, nil
}

// Upsert stores a chunk record. Insertion is first-writer-wins: a record
// whose chunk_id or chunk_hash is already present is silently ignored,
// which makes re-runs idempotent and racing duplicate emissions safe.
func (s *SQLiteIndex) Upsert(ctx context.Context, rec *Record) error {
	if rec.ChunkID == "" {
		return fmt.Errorf("chunk ID is required")
	}

	md, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	chunkIndex, _ := strconv.Atoi(rec.Metadata["chunk_index"])

	query := `
		INSERT OR IGNORE INTO chunks
			(chunk_id, document_source, document_hash, chunk_hash, source_hash, chunk_index, content, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		rec.ChunkID,
		rec.Metadata["source"],
		rec.Metadata["document_hash"],
		rec.Metadata["chunk_hash"],
		rec.Metadata["source_hash"],
		chunkIndex,
		rec.Content,
		string(md))
	if err != nil {
		return fmt.Errorf("failed to upsert chunk %s: %w", rec.ChunkID, err)
	}
	return nil
}

// SourceHash returns the most recently stored source hash for a source.
func (s *SQLiteIndex) SourceHash(ctx context.Context, source string) (string, error) {
	var hash sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT source_hash FROM chunks WHERE document_source = ? ORDER BY rowid DESC LIMIT 1",
		source).Scan(&hash)
	if err == sql.ErrNoRows || (err == nil && !hash.Valid) {
		return "", fmt.Errorf("%w: no stored source hash for %s", ErrNotFound, source)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read source hash: %w", err)
	}
	return hash.String, nil
}

// DeleteBySource removes every chunk stored for a source and returns how
// many rows were deleted.
func (s *SQLiteIndex) DeleteBySource(ctx context.Context, source string) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE document_source = ?", source)
	if err != nil {
		return 0, fmt.Errorf("failed to delete chunks for %s: %w", source, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Count returns the number of stored chunks.
func (s *SQLiteIndex) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return n, nil
}

// Health reports whether the database is reachable and how many chunks
// it holds.
func (s *SQLiteIndex) Health(ctx context.Context) HealthStatus {
	n, err := s.Count(ctx)
	if err != nil {
		return HealthStatus{Accessible: false}
	}
	return HealthStatus{Accessible: true, ChunkCount: n}
}
