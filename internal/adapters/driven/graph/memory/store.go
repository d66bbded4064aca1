// Package memory provides an in-memory GraphStore for tests and
// throwaway development runs. It has no native vector index, so every
// search against it exercises the brute-force fallback path.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ragweave/ragweave/internal/core/domain"
	"github.com/ragweave/ragweave/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.GraphStore = (*Store)(nil)

// relatedLimit caps RelatedChunks results regardless of graph density.
const relatedLimit = 10

// edgeKey identifies an edge by source, target and type, making
// CreateRelationship an idempotent upsert.
type edgeKey struct {
	source, target, relType string
}

// Store is an in-memory implementation of driven.GraphStore.
type Store struct {
	mu     sync.RWMutex
	dims   int
	docs   map[string]domain.Document
	chunks map[string]domain.Chunk
	edges  map[edgeKey]domain.Relationship
}

// NewStore creates an empty in-memory store. dims fixes the embedding
// dimensionality; zero accepts vectors of any length.
func NewStore(dims int) *Store {
	return &Store{
		dims:   dims,
		docs:   make(map[string]domain.Document),
		chunks: make(map[string]domain.Chunk),
		edges:  make(map[edgeKey]domain.Relationship),
	}
}

// SaveDocument creates or replaces a document node.
func (s *Store) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = *doc
	return nil
}

// SaveChunk creates or replaces a chunk node with its BELONGS_TO edge.
func (s *Store) SaveChunk(_ context.Context, chunk *domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveChunkLocked(chunk)
}

// SaveChunks stores a batch of chunks.
func (s *Store) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range chunks {
		if err := s.saveChunkLocked(&chunks[i]); err != nil {
			return fmt.Errorf("chunk %s: %w", chunks[i].ID, err)
		}
	}
	return nil
}

func (s *Store) saveChunkLocked(chunk *domain.Chunk) error {
	if s.dims > 0 && len(chunk.Embedding) > 0 && len(chunk.Embedding) != s.dims {
		return fmt.Errorf("%w: got %d, store expects %d",
			domain.ErrDimensionMismatch, len(chunk.Embedding), s.dims)
	}
	if _, ok := s.docs[chunk.DocumentID]; !ok {
		return fmt.Errorf("document %s: %w", chunk.DocumentID, domain.ErrNotFound)
	}
	s.chunks[chunk.ID] = *chunk
	return nil
}

// CreateRelationship upserts a typed edge between two existing chunks.
func (s *Store) CreateRelationship(_ context.Context, rel domain.Relationship) error {
	if !domain.ValidRelType(rel.Type) {
		return fmt.Errorf("%w: relationship type %q", domain.ErrInvalidInput, rel.Type)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chunks[rel.SourceID]; !ok {
		return fmt.Errorf("source chunk %s: %w", rel.SourceID, domain.ErrNotFound)
	}
	if _, ok := s.chunks[rel.TargetID]; !ok {
		return fmt.Errorf("target chunk %s: %w", rel.TargetID, domain.ErrNotFound)
	}

	s.edges[edgeKey{rel.SourceID, rel.TargetID, rel.Type}] = rel
	return nil
}

// VectorSearch always reports the index as unavailable; the search engine
// falls back to brute-force scoring over AllChunks.
func (s *Store) VectorSearch(_ context.Context, _ []float32, _ int) ([]domain.SearchResult, error) {
	return nil, domain.ErrVectorIndexUnavailable
}

// AllChunks loads every chunk with its owning document identity.
func (s *Store) AllChunks(_ context.Context) ([]domain.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ScoredChunk, 0, len(s.chunks))
	for _, c := range s.chunks {
		doc := s.docs[c.DocumentID]
		out = append(out, domain.ScoredChunk{
			ChunkID:    c.ID,
			Content:    c.Content,
			ChunkIndex: c.Index,
			DocumentID: c.DocumentID,
			Filename:   doc.Filename,
			Embedding:  c.Embedding,
		})
	}

	// Deterministic order for stable fallback ranking on score ties.
	sort.Slice(out, func(i, j int) bool { return out[i].ChunkID < out[j].ChunkID })
	return out, nil
}

// GetDocumentChunks returns a document's chunks ordered by sequence index.
func (s *Store) GetDocumentChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunks := make([]domain.Chunk, 0)
	for _, c := range s.chunks {
		if c.DocumentID == documentID {
			chunks = append(chunks, c)
		}
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })
	return chunks, nil
}

// ListDocuments returns all documents with chunk counts, newest first.
func (s *Store) ListDocuments(_ context.Context) ([]domain.DocumentStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int, len(s.docs))
	for _, c := range s.chunks {
		counts[c.DocumentID]++
	}

	stats := make([]domain.DocumentStats, 0, len(s.docs))
	for _, doc := range s.docs {
		stats = append(stats, domain.DocumentStats{
			Document:   doc,
			ChunkCount: counts[doc.ID],
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Document.UploadedAt.After(stats[j].Document.UploadedAt)
	})
	return stats, nil
}

// DeleteDocument removes a document, its chunks, and every edge touching
// those chunks.
func (s *Store) DeleteDocument(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, documentID)

	removed := make(map[string]bool)
	for id, c := range s.chunks {
		if c.DocumentID == documentID {
			removed[id] = true
			delete(s.chunks, id)
		}
	}
	for key := range s.edges {
		if removed[key.source] || removed[key.target] {
			delete(s.edges, key)
		}
	}
	return nil
}

// RelatedChunks walks relationship edges in both directions from the given
// chunk, returning distinct chunks ordered by ascending hop distance and
// capped at 10 results. The walk also passes through document nodes via
// the implicit chunk-document link, so chunks of the same document sit
// two hops apart just as they do in the graph backend.
func (s *Store) RelatedChunks(_ context.Context, chunkID string, maxDepth int) ([]domain.RelatedChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.chunks[chunkID]; !ok {
		return []domain.RelatedChunk{}, nil
	}

	neighbours := make(map[string][]string)
	for key := range s.edges {
		neighbours[key.source] = append(neighbours[key.source], key.target)
		neighbours[key.target] = append(neighbours[key.target], key.source)
	}
	for id, c := range s.chunks {
		neighbours[id] = append(neighbours[id], c.DocumentID)
		neighbours[c.DocumentID] = append(neighbours[c.DocumentID], id)
	}

	visited := map[string]bool{chunkID: true}
	frontier := []string{chunkID}
	var related []domain.RelatedChunk

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		var next []string
		// Deterministic expansion order within a level.
		sort.Strings(frontier)
		for _, id := range frontier {
			far := append([]string(nil), neighbours[id]...)
			sort.Strings(far)
			for _, n := range far {
				if visited[n] {
					continue
				}
				visited[n] = true
				next = append(next, n)

				// Document nodes are traversed but never emitted.
				c, ok := s.chunks[n]
				if !ok {
					continue
				}
				related = append(related, domain.RelatedChunk{
					ChunkID:    c.ID,
					Content:    c.Content,
					ChunkIndex: c.Index,
					Distance:   depth,
				})
				if len(related) == relatedLimit {
					return related, nil
				}
			}
		}
		frontier = next
	}

	return related, nil
}

// HasVectorIndex reports false: the memory store never has a native index.
func (s *Store) HasVectorIndex() bool {
	return false
}

// Close is a no-op.
func (s *Store) Close(_ context.Context) error {
	return nil
}
