// Package domain contains the core data model for the chunk graph:
// documents, chunks, relationships, and search result types.
//
// Types in this package are persistence-agnostic. Chunk metadata is a
// fixed set of scalar fields rather than a map because the graph
// backend does not support nested property values.
//
// Import Rules:
//   - Can Import: standard library only
//   - Cannot Import: ports, services, adapters
package domain
