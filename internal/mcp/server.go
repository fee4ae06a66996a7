package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/semaphore"

	"github.com/guiderag/guide/internal/chunker"
	"github.com/guiderag/guide/internal/index"
	"github.com/guiderag/guide/internal/ingest"
)

const (
	// ServerName is the MCP server name
	ServerName = "guide"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBPath is the default location for the index database
	DefaultDBPath = "~/.guide/index.db"
	// DefaultMaxConcurrent bounds how many ingestion calls run at once.
	// The pipeline itself is strictly sequential per call; this only
	// bounds concurrent calls.
	DefaultMaxConcurrent = 2
)

// Config carries the server's construction parameters.
type Config struct {
	DBPath        string
	Chunking      chunker.Config
	MaxConcurrent int64
	Fetcher       ingest.Fetcher // optional, enables url ingestion
}

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	index    index.Index
	ingestor *ingest.Ingestor
	chunking chunker.Config
	fetcher  ingest.Fetcher
	sem      *semaphore.Weighted
}

// NewServer creates a new MCP server instance backed by the SQLite index
// at cfg.DBPath.
func NewServer(cfg Config) (*Server, error) {
	dbPath := cfg.DBPath
	if dbPath == "" || dbPath == DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".guide", "index.db")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	idx, err := index.NewSQLiteIndex(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize index: %w", err)
	}

	s, err := newServerWithIndex(idx, cfg)
	if err != nil {
		_ = idx.Close()
		return nil, err
	}
	return s, nil
}

// newServerWithIndex wires the server around an already-open index. Split
// out so tests can substitute the in-memory implementation.
func newServerWithIndex(idx index.Index, cfg Config) (*Server, error) {
	chunking := cfg.Chunking
	if chunking.ChunkSize == 0 {
		chunking = chunker.DefaultConfig()
	}
	if err := chunking.Validate(); err != nil {
		return nil, err
	}

	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}

	ing, err := ingest.New(idx, chunking, cfg.Fetcher)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ingestor: %w", err)
	}

	s := &Server{
		mcp:      server.NewMCPServer(ServerName, ServerVersion),
		index:    idx,
		ingestor: ing,
		chunking: chunking,
		fetcher:  cfg.Fetcher,
		sem:      semaphore.NewWeighted(maxConcurrent),
	}
	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.index.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(ingestSourceTool(), s.handleIngestSource)
	s.mcp.AddTool(removeSourceTool(), s.handleRemoveSource)
	s.mcp.AddTool(kbStatusTool(), s.handleStatus)
}
