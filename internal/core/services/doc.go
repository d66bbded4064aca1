// Package services implements the core application logic: the ingestion
// pipeline that turns raw sources into a persisted chunk graph, the
// similarity search engine with its brute-force fallback, and document
// read/delete operations.
//
// Services depend only on domain types and driven ports; adapters are
// injected by the caller, which also owns their lifecycle.
package services
