// Package ingest orchestrates the content ingestion pipeline: extract a
// document, detect whether its source changed, deduplicate against the
// index at document and chunk granularity, chunk what remains, and emit
// the new chunks.
//
// Every document reaches exactly one terminal outcome per call —
// ingested, document duplicate, unchanged source, or read failed — and
// directory batches accumulate per-file failures instead of aborting.
// The orchestrator processes documents strictly one at a time; callers
// that want parallel ingestion run multiple calls and rely on the
// index's uniqueness guarantees for duplicate admission.
package ingest
