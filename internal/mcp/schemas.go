package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// ingestSourceTool returns the tool definition for ingest_source
func ingestSourceTool() mcp.Tool {
	return mcp.Tool{
		Name:        "ingest_source",
		Description: "Ingest a file, directory, or URL into the knowledge base with content-addressed deduplication",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source": map[string]interface{}{
					"type":        "string",
					"description": "File path, directory path, or URL to ingest",
				},
				"source_type": map[string]interface{}{
					"type":        "string",
					"description": "What the source is",
					"enum":        []string{"file", "directory", "url"},
				},
				"chunk_size": map[string]interface{}{
					"type":        "integer",
					"description": "Chunk budget override; 0 uses the server default",
					"minimum":     1,
				},
				"chunk_overlap": map[string]interface{}{
					"type":        "integer",
					"description": "Overlap override between consecutive chunks; 0 uses the server default",
					"minimum":     0,
				},
				"recursive": map[string]interface{}{
					"type":        "boolean",
					"description": "For directories, descend into subdirectories",
					"default":     false,
				},
			},
			Required: []string{"source", "source_type"},
		},
	}
}

// removeSourceTool returns the tool definition for remove_source
func removeSourceTool() mcp.Tool {
	return mcp.Tool{
		Name:        "remove_source",
		Description: "Remove every chunk previously ingested from a source",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Source path or URL whose chunks should be removed",
				},
			},
			Required: []string{"source"},
		},
	}
}

// kbStatusTool returns the tool definition for kb_status
func kbStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "kb_status",
		Description: "Report knowledge-base health, chunk count, and effective chunking configuration",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
