package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/guiderag/guide/internal/chunker"
	"github.com/guiderag/guide/internal/index"
	"github.com/guiderag/guide/internal/mcp"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("Guide MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", index.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", index.DriverName)
		os.Exit(0)
	}

	// Log startup info to stderr (stdout reserved for MCP protocol)
	log.SetOutput(os.Stderr)

	// Optional .env file; absence is not an error
	_ = godotenv.Load()

	log.Printf("Guide MCP Server v%s starting...", version)
	log.Printf("Build Mode: %s, Driver: %s", index.BuildMode, index.DriverName)

	cfg, err := configFromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	server, err := mcp.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	errChan := make(chan error, 1)
	go func() {
		log.Println("MCP server ready, listening on stdio...")
		errChan <- server.Serve(ctx)
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}

	log.Println("Server stopped")
}

// configFromEnv assembles the server configuration from the environment.
// Unset variables fall back to the built-in defaults.
func configFromEnv() (mcp.Config, error) {
	cfg := mcp.Config{
		DBPath:   os.Getenv("GUIDE_DB_PATH"),
		Chunking: chunker.DefaultConfig(),
	}

	chunkSize, err := intEnv("GUIDE_CHUNK_SIZE", cfg.Chunking.ChunkSize)
	if err != nil {
		return cfg, err
	}
	cfg.Chunking.ChunkSize = chunkSize

	chunkOverlap, err := intEnv("GUIDE_CHUNK_OVERLAP", cfg.Chunking.ChunkOverlap)
	if err != nil {
		return cfg, err
	}
	cfg.Chunking.ChunkOverlap = chunkOverlap

	if mode := os.Getenv("GUIDE_CHUNK_MODE"); mode != "" {
		cfg.Chunking.Mode = chunker.Mode(mode)
	}
	if err := cfg.Chunking.Validate(); err != nil {
		return cfg, err
	}

	maxConcurrent, err := intEnv("GUIDE_MAX_CONCURRENT", mcp.DefaultMaxConcurrent)
	if err != nil {
		return cfg, err
	}
	cfg.MaxConcurrent = int64(maxConcurrent)

	return cfg, nil
}

// intEnv parses an integer environment variable, returning the fallback
// when the variable is unset.
func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
