package services

import (
	"context"

	"github.com/ragweave/ragweave/internal/core/domain"
	"github.com/ragweave/ragweave/internal/core/ports/driven"
	"github.com/ragweave/ragweave/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService surfaces read and delete operations over ingested
// documents. A thin layer over the graph store.
type DocumentService struct {
	store driven.GraphStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(store driven.GraphStore) *DocumentService {
	return &DocumentService{store: store}
}

// List returns all documents with chunk counts, newest first.
func (s *DocumentService) List(ctx context.Context) ([]domain.DocumentStats, error) {
	return s.store.ListDocuments(ctx)
}

// Chunks returns a document's chunks ordered by sequence index.
func (s *DocumentService) Chunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	return s.store.GetDocumentChunks(ctx, documentID)
}

// Delete removes a document, cascading to its chunks and their edges.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	return s.store.DeleteDocument(ctx, documentID)
}
