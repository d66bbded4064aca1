package mcp

import (
	"context"
	"time"

	"github.com/ragweave/ragweave/internal/core/domain"
)

// mockSearchService implements driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	related []domain.RelatedChunk
	err     error

	lastQuery string
	lastTopK  int
	lastDepth int
}

func (m *mockSearchService) Search(_ context.Context, query string, topK int) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastTopK = topK
	return m.results, m.err
}

func (m *mockSearchService) SearchByVector(_ context.Context, _ []float32, topK int) ([]domain.SearchResult, error) {
	m.lastTopK = topK
	return m.results, m.err
}

func (m *mockSearchService) Related(_ context.Context, _ string, maxDepth int) ([]domain.RelatedChunk, error) {
	m.lastDepth = maxDepth
	return m.related, m.err
}

// mockDocumentService implements driving.DocumentService.
type mockDocumentService struct {
	stats   []domain.DocumentStats
	chunks  []domain.Chunk
	err     error
	deleted []string
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.DocumentStats, error) {
	return m.stats, m.err
}

func (m *mockDocumentService) Chunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, documentID string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, documentID)
	return nil
}

// mockIngestionService implements driving.IngestionService.
type mockIngestionService struct {
	result *domain.IngestResult
	err    error
}

func (m *mockIngestionService) IngestDocument(_ context.Context, _, _ string) (*domain.IngestResult, error) {
	return m.result, m.err
}

func (m *mockIngestionService) IngestRepository(_ context.Context, _ string) (*domain.IngestResult, error) {
	return m.result, m.err
}

func testPorts() (*Ports, *mockSearchService, *mockDocumentService) {
	search := &mockSearchService{}
	docs := &mockDocumentService{}
	return &Ports{Search: search, Document: docs}, search, docs
}

func testStats() []domain.DocumentStats {
	return []domain.DocumentStats{
		{
			Document: domain.Document{
				ID:         "doc-1",
				Filename:   "notes.txt",
				FileSize:   128,
				UploadedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
				Status:     domain.StatusComplete,
			},
			ChunkCount: 3,
		},
	}
}
