package driven

import (
	"context"

	"github.com/ragweave/ragweave/internal/core/domain"
)

// GraphStore persists the chunk graph: Document and Chunk nodes plus the
// typed edges between them. Every write is an upsert keyed by identity,
// so retries never duplicate nodes or edges.
//
// Implementations scope storage access per operation: acquire a session,
// issue statements, release. Multi-call sequences (document, then chunks,
// then edges) are NOT one atomic transaction; a failure partway leaves a
// document in the pending state.
type GraphStore interface {
	// SaveDocument creates or replaces a document node.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunk creates or replaces a chunk node together with its
	// BELONGS_TO edge to the owning document. An embedding whose length
	// differs from the store's fixed dimensionality is rejected with
	// domain.ErrDimensionMismatch.
	SaveChunk(ctx context.Context, chunk *domain.Chunk) error

	// SaveChunks stores a batch of chunks, each with its BELONGS_TO edge.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// CreateRelationship upserts a typed edge between two existing chunks.
	// The same source, target and type never duplicates. Types failing
	// domain.ValidRelType are rejected with domain.ErrInvalidInput.
	CreateRelationship(ctx context.Context, rel domain.Relationship) error

	// VectorSearch runs an index-accelerated top-k query. Stores without a
	// native vector index return domain.ErrVectorIndexUnavailable and the
	// search engine falls back to brute-force scoring.
	VectorSearch(ctx context.Context, query []float32, topK int) ([]domain.SearchResult, error)

	// AllChunks loads every chunk's id, content, index, embedding and
	// owning-document identity for brute-force similarity scoring.
	AllChunks(ctx context.Context) ([]domain.ScoredChunk, error)

	// GetDocumentChunks returns all chunks of a document ordered by
	// sequence index. Unknown documents yield an empty slice.
	GetDocumentChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// ListDocuments returns all documents with live chunk counts,
	// newest first.
	ListDocuments(ctx context.Context) ([]domain.DocumentStats, error)

	// DeleteDocument removes a document, all its chunks, and every edge
	// touching them.
	DeleteDocument(ctx context.Context, documentID string) error

	// RelatedChunks returns distinct chunks within maxDepth hops of the
	// given chunk, ordered by ascending distance and capped at 10 results
	// regardless of graph density. Hops cover typed relationship edges
	// in both directions and document membership, so with maxDepth >= 2
	// every chunk of the same document is reachable at distance 2.
	RelatedChunks(ctx context.Context, chunkID string, maxDepth int) ([]domain.RelatedChunk, error)

	// HasVectorIndex reports whether a native vector index over chunk
	// embeddings is available. Probed once when the store is opened and
	// cached as a capability flag.
	HasVectorIndex() bool

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
