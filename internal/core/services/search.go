package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ragweave/ragweave/internal/core/domain"
	"github.com/ragweave/ragweave/internal/core/ports/driven"
	"github.com/ragweave/ragweave/internal/core/ports/driving"
	"github.com/ragweave/ragweave/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// DefaultTopK is the result count used when the caller passes none.
const DefaultTopK = 5

// DefaultRelatedDepth is the traversal depth used when the caller passes none.
const DefaultRelatedDepth = 2

// SearchService answers top-k similarity queries against the chunk graph.
//
// When the store has a native vector index the query is delegated to it;
// otherwise, or when the index query itself fails, the service loads every
// chunk and scores it with cosine similarity in memory. The fallback is
// O(N) in total chunk count and is the degraded-performance branch,
// acceptable while the corpus is small.
type SearchService struct {
	store    driven.GraphStore
	embedder driven.EmbeddingService
}

// NewSearchService creates a new search service. The embedder may be nil,
// in which case only SearchByVector and Related are usable.
func NewSearchService(store driven.GraphStore, embedder driven.EmbeddingService) *SearchService {
	return &SearchService{
		store:    store,
		embedder: embedder,
	}
}

// Search embeds the query text and returns the topK most similar chunks.
func (s *SearchService) Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}

	logger.Section("Similarity Search")
	logger.Debug("Query: %q", query)

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	return s.SearchByVector(ctx, vec, topK)
}

// SearchByVector answers a similarity query for a pre-computed embedding.
// An empty store yields an empty list, not an error.
func (s *SearchService) SearchByVector(ctx context.Context, query []float32, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	if s.store.HasVectorIndex() {
		results, err := s.store.VectorSearch(ctx, query, topK)
		if err == nil {
			logger.Debug("Vector index returned %d results", len(results))
			return results, nil
		}
		// Degraded capability, not a failure: fall through to brute force.
		logger.Warn("Vector index query failed, using fallback: %v", err)
	} else {
		logger.Debug("No vector index available, using manual similarity calculation")
	}

	return s.bruteForceSearch(ctx, query, topK)
}

// bruteForceSearch scores every chunk against the query in memory.
func (s *SearchService) bruteForceSearch(ctx context.Context, query []float32, topK int) ([]domain.SearchResult, error) {
	chunks, err := s.store.AllChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(chunks))
	for _, c := range chunks {
		results = append(results, domain.SearchResult{
			ChunkID:    c.ChunkID,
			Content:    c.Content,
			ChunkIndex: c.ChunkIndex,
			DocumentID: c.DocumentID,
			Filename:   c.Filename,
			Score:      domain.CosineSimilarity(query, c.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	logger.Debug("Fallback scoring ranked %d chunks", len(chunks))
	return results, nil
}

// Related returns distinct chunks within maxDepth relationship hops of the
// given chunk, nearest first, capped at the store's fixed result limit.
func (s *SearchService) Related(ctx context.Context, chunkID string, maxDepth int) ([]domain.RelatedChunk, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultRelatedDepth
	}
	return s.store.RelatedChunks(ctx, chunkID, maxDepth)
}
