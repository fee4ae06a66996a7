package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guiderag/guide/internal/chunker"
	"github.com/guiderag/guide/internal/index"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := newServerWithIndex(index.NewMemory(), Config{
		Chunking: chunker.DefaultConfig(),
	})
	require.NoError(t, err)
	return s
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func decodeResult(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))
	return payload
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestHandleIngestSource_File(t *testing.T) {
	s := newTestServer(t)
	path := writeTestFile(t, t.TempDir(), "a.md", "# Title\n\nsome body text")

	result, err := s.handleIngestSource(context.Background(), callRequest("ingest_source", map[string]interface{}{
		"source":      path,
		"source_type": "file",
	}))
	require.NoError(t, err)

	payload := decodeResult(t, result)
	assert.Equal(t, float64(1), payload["documents_processed"])
	assert.Equal(t, float64(1), payload["documents_added"])
	assert.Equal(t, float64(1), payload["chunks_emitted"])
}

func TestHandleIngestSource_Directory(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	writeTestFile(t, dir, "a.md", "first document")
	writeTestFile(t, dir, "b.txt", "second document")

	result, err := s.handleIngestSource(context.Background(), callRequest("ingest_source", map[string]interface{}{
		"source":      dir,
		"source_type": "directory",
		"recursive":   true,
	}))
	require.NoError(t, err)

	payload := decodeResult(t, result)
	assert.Equal(t, float64(2), payload["documents_processed"])
	assert.Equal(t, float64(2), payload["documents_added"])
}

func TestHandleIngestSource_MissingSourceParam(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleIngestSource(context.Background(), callRequest("ingest_source", map[string]interface{}{
		"source_type": "file",
	}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleIngestSource_UnknownSourceType(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleIngestSource(context.Background(), callRequest("ingest_source", map[string]interface{}{
		"source":      "/tmp/whatever.md",
		"source_type": "ftp",
	}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleIngestSource_SourceNotFound(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleIngestSource(context.Background(), callRequest("ingest_source", map[string]interface{}{
		"source":      filepath.Join(t.TempDir(), "missing"),
		"source_type": "directory",
	}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeSourceNotFound, mcpErr.Code)
}

func TestHandleIngestSource_NotADirectory(t *testing.T) {
	s := newTestServer(t)
	path := writeTestFile(t, t.TempDir(), "a.md", "not a directory")

	_, err := s.handleIngestSource(context.Background(), callRequest("ingest_source", map[string]interface{}{
		"source":      path,
		"source_type": "directory",
	}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeNotADirectory, mcpErr.Code)
}

func TestHandleIngestSource_URLWithoutFetcher(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleIngestSource(context.Background(), callRequest("ingest_source", map[string]interface{}{
		"source":      "https://example.com/page",
		"source_type": "url",
	}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeURLsUnsupported, mcpErr.Code)
}

func TestHandleIngestSource_ChunkOverrides(t *testing.T) {
	s := newTestServer(t)
	path := writeTestFile(t, t.TempDir(), "a.md", "alpha beta gamma delta epsilon zeta")

	result, err := s.handleIngestSource(context.Background(), callRequest("ingest_source", map[string]interface{}{
		"source":        path,
		"source_type":   "file",
		"chunk_size":    float64(10),
		"chunk_overlap": float64(2),
	}))
	require.NoError(t, err)

	payload := decodeResult(t, result)
	assert.Greater(t, payload["chunks_emitted"], float64(1))
}

func TestHandleRemoveSource(t *testing.T) {
	s := newTestServer(t)
	path := writeTestFile(t, t.TempDir(), "a.md", "document to remove")

	_, err := s.handleIngestSource(context.Background(), callRequest("ingest_source", map[string]interface{}{
		"source":      path,
		"source_type": "file",
	}))
	require.NoError(t, err)

	result, err := s.handleRemoveSource(context.Background(), callRequest("remove_source", map[string]interface{}{
		"source": path,
	}))
	require.NoError(t, err)

	payload := decodeResult(t, result)
	assert.Equal(t, float64(1), payload["chunks_removed"])

	n, err := s.index.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestHandleRemoveSource_MissingParam(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleRemoveSource(context.Background(), callRequest("remove_source", map[string]interface{}{}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleStatus(t *testing.T) {
	s := newTestServer(t)
	path := writeTestFile(t, t.TempDir(), "a.md", "status fixture")

	_, err := s.handleIngestSource(context.Background(), callRequest("ingest_source", map[string]interface{}{
		"source":      path,
		"source_type": "file",
	}))
	require.NoError(t, err)

	result, err := s.handleStatus(context.Background(), callRequest("kb_status", nil))
	require.NoError(t, err)

	payload := decodeResult(t, result)
	assert.Equal(t, true, payload["accessible"])
	assert.Equal(t, float64(1), payload["chunk_count"])

	chunking, ok := payload["chunking"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(chunker.DefaultChunkSize), chunking["chunk_size"])
}

func TestHandleIngestSource_BusyLimit(t *testing.T) {
	s := newTestServer(t)
	require.True(t, s.sem.TryAcquire(DefaultMaxConcurrent))
	defer s.sem.Release(DefaultMaxConcurrent)

	path := writeTestFile(t, t.TempDir(), "a.md", "never ingested")
	_, err := s.handleIngestSource(context.Background(), callRequest("ingest_source", map[string]interface{}{
		"source":      path,
		"source_type": "file",
	}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeIngestionBusy, mcpErr.Code)
}
