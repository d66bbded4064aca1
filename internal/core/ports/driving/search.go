package driving

import (
	"context"

	"github.com/ragweave/ragweave/internal/core/domain"
)

// SearchService answers top-k semantic similarity queries against the
// chunk graph.
type SearchService interface {
	// Search embeds the query text and returns the topK most similar
	// chunks, ranked by descending cosine similarity. An empty store
	// yields an empty list, not an error.
	Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)

	// SearchByVector answers a query for a pre-computed embedding.
	SearchByVector(ctx context.Context, query []float32, topK int) ([]domain.SearchResult, error)

	// Related returns distinct chunks within maxDepth relationship hops
	// of the given chunk, nearest first.
	Related(ctx context.Context, chunkID string, maxDepth int) ([]domain.RelatedChunk, error)
}

// DocumentService exposes read and delete operations over ingested
// documents.
type DocumentService interface {
	// List returns all documents with chunk counts, newest first.
	List(ctx context.Context) ([]domain.DocumentStats, error)

	// Chunks returns a document's chunks ordered by sequence index.
	Chunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// Delete removes a document, cascading to its chunks and their edges.
	Delete(ctx context.Context, documentID string) error
}
