// Package mcp exposes the ingestion pipeline as MCP tools over stdio:
// ingest_source, remove_source, and kb_status. Stdout is reserved for
// the protocol, so nothing in this package prints there.
package mcp
