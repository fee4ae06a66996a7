package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/guiderag/guide/internal/index"
	"github.com/guiderag/guide/internal/ingest"
	"github.com/guiderag/guide/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams   = -32602 // Invalid method parameters
	ErrorCodeInternalError   = -32603 // Internal JSON-RPC error
	ErrorCodeSourceNotFound  = -32001 // Source path does not exist
	ErrorCodeNotADirectory   = -32002 // Directory ingestion pointed at a non-directory
	ErrorCodeIngestionBusy   = -32003 // Concurrent ingestion limit reached
	ErrorCodeURLsUnsupported = -32004 // No URL fetcher configured
)

// handleIngestSource handles the ingest_source tool invocation
func (s *Server) handleIngestSource(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	req := &types.IngestRequest{
		Source:       getStringDefault(args, "source", ""),
		SourceType:   types.SourceType(getStringDefault(args, "source_type", "")),
		ChunkSize:    getIntDefault(args, "chunk_size", 0),
		ChunkOverlap: getIntDefault(args, "chunk_overlap", 0),
		Recursive:    getBoolDefault(args, "recursive", false),
	}
	if err := req.Validate(); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, err.Error(), nil)
	}

	ing, err := s.ingestorFor(req)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid chunk configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if !s.sem.TryAcquire(1) {
		return nil, newMCPError(ErrorCodeIngestionBusy, "too many concurrent ingestion calls", nil)
	}
	defer s.sem.Release(1)

	var res *ingest.Result
	switch req.SourceType {
	case types.SourceFile:
		res, err = ing.IngestFile(ctx, req.Source)
	case types.SourceDirectory:
		res, err = ing.IngestDirectory(ctx, req.Source, req.Recursive)
	case types.SourceURL:
		res, err = ing.IngestURL(ctx, req.Source)
	}

	if err != nil {
		switch {
		case errors.Is(err, types.ErrSourceNotFound):
			return nil, newMCPError(ErrorCodeSourceNotFound, "source does not exist", map[string]interface{}{
				"source": req.Source,
			})
		case errors.Is(err, types.ErrNotADirectory):
			return nil, newMCPError(ErrorCodeNotADirectory, "source is not a directory", map[string]interface{}{
				"source": req.Source,
			})
		case errors.Is(err, ingest.ErrNoFetcher):
			return nil, newMCPError(ErrorCodeURLsUnsupported, "url ingestion is not configured", nil)
		}
		var readErr *types.ContentReadError
		if errors.As(err, &readErr) && res != nil {
			// A terminal read failure is a reported outcome, not a
			// protocol error; the response carries it in failures.
			return mcp.NewToolResultText(formatResponse(res.Response())), nil
		}
		return nil, newMCPError(ErrorCodeInternalError, "ingestion failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatResponse(res.Response())), nil
}

// ingestorFor returns the shared ingestor, or a request-scoped one when
// the request overrides the chunking defaults.
func (s *Server) ingestorFor(req *types.IngestRequest) (*ingest.Ingestor, error) {
	if req.ChunkSize == 0 && req.ChunkOverlap == 0 {
		return s.ingestor, nil
	}

	cfg := s.chunking
	if req.ChunkSize > 0 {
		cfg.ChunkSize = req.ChunkSize
	}
	if req.ChunkOverlap > 0 {
		cfg.ChunkOverlap = req.ChunkOverlap
	}
	return ingest.New(s.index, cfg, s.fetcher)
}

// handleRemoveSource handles the remove_source tool invocation
func (s *Server) handleRemoveSource(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	source, ok := args["source"].(string)
	if !ok || source == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "source parameter is required", map[string]interface{}{
			"param":  "source",
			"reason": "missing or empty",
		})
	}

	deleted, err := s.index.DeleteBySource(ctx, source)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to remove source", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"source":         source,
		"chunks_removed": deleted,
	})), nil
}

// handleStatus handles the kb_status tool invocation
func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	health := s.index.Health(ctx)

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"accessible":  health.Accessible,
		"chunk_count": health.ChunkCount,
		"backend": map[string]interface{}{
			"driver":     index.DriverName,
			"build_mode": index.BuildMode,
		},
		"chunking": map[string]interface{}{
			"chunk_size":    s.chunking.ChunkSize,
			"chunk_overlap": s.chunking.ChunkOverlap,
			"mode":          string(s.chunking.Mode),
		},
	})), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatResponse renders an ingest response as indented JSON
func formatResponse(resp *types.IngestResponse) string {
	bytes, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", resp)
	}
	return string(bytes)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
