package index

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-memory Index. It remembers every hash it has ever
// admitted, which makes it a deterministic stand-in for the real index
// in tests and small ephemeral deployments.
type Memory struct {
	mu      sync.Mutex
	records map[string]*Record // by chunk ID, insertion order not tracked
	order   []string           // chunk IDs in admission order
}

// NewMemory creates an empty in-memory index.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]*Record)}
}

// Exists reports whether any admitted record matches the hash under the
// given filter.
func (m *Memory) Exists(_ context.Context, filter Filter, hash string) (bool, error) {
	key := string(filter)
	switch filter {
	case FilterDocumentHash, FilterChunkHash:
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownFilter, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.Metadata[key] == hash {
			return true, nil
		}
	}
	return false, nil
}

// Upsert admits a record unless its chunk ID or chunk hash is already
// present (first-writer-wins, mirroring the SQLite unique constraint).
func (m *Memory) Upsert(_ context.Context, rec *Record) error {
	if rec.ChunkID == "" {
		return fmt.Errorf("chunk ID is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[rec.ChunkID]; ok {
		return nil
	}
	for _, existing := range m.records {
		if existing.Metadata["chunk_hash"] == rec.Metadata["chunk_hash"] {
			return nil
		}
	}

	stored := &Record{
		ChunkID:  rec.ChunkID,
		Content:  rec.Content,
		Metadata: make(map[string]string, len(rec.Metadata)),
	}
	for k, v := range rec.Metadata {
		stored.Metadata[k] = v
	}
	m.records[rec.ChunkID] = stored
	m.order = append(m.order, rec.ChunkID)
	return nil
}

// SourceHash returns the most recently admitted source hash for a source.
func (m *Memory) SourceHash(_ context.Context, source string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.order) - 1; i >= 0; i-- {
		rec := m.records[m.order[i]]
		if rec != nil && rec.Metadata["source"] == source && rec.Metadata["source_hash"] != "" {
			return rec.Metadata["source_hash"], nil
		}
	}
	return "", fmt.Errorf("%w: no stored source hash for %s", ErrNotFound, source)
}

// DeleteBySource removes every record for a source.
func (m *Memory) DeleteBySource(_ context.Context, source string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	kept := m.order[:0]
	for _, id := range m.order {
		rec := m.records[id]
		if rec != nil && rec.Metadata["source"] == source {
			delete(m.records, id)
			deleted++
			continue
		}
		kept = append(kept, id)
	}
	m.order = kept
	return deleted, nil
}

// Count returns the number of admitted records.
func (m *Memory) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records), nil
}

// Health always reports accessible; a process-local map cannot fail.
func (m *Memory) Health(ctx context.Context) HealthStatus {
	n, _ := m.Count(ctx)
	return HealthStatus{Accessible: true, ChunkCount: n}
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

var _ Index = (*Memory)(nil)
var _ Index = (*SQLiteIndex)(nil)
