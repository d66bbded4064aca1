package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragweave/ragweave/internal/core/domain"
)

func newTestServer(t *testing.T) (*Server, *mockSearchService, *mockDocumentService) {
	t.Helper()
	ports, search, docs := testPorts()
	srv, err := NewServer(ports)
	require.NoError(t, err)
	return srv, search, docs
}

func TestHandleSearch(t *testing.T) {
	srv, search, _ := newTestServer(t)
	search.results = []domain.SearchResult{
		{
			ChunkID:    "doc-1_chunk_0",
			Content:    "relevant text",
			ChunkIndex: 0,
			DocumentID: "doc-1",
			Filename:   "notes.txt",
			Score:      0.92,
		},
	}

	_, out, err := srv.handleSearch(context.Background(), nil, SearchInput{Query: "question", TopK: 3})
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "doc-1_chunk_0", out.Results[0].ChunkID)
	assert.Equal(t, "notes.txt", out.Results[0].Filename)
	assert.InDelta(t, 0.92, out.Results[0].Score, 1e-9)

	assert.Equal(t, "question", search.lastQuery)
	assert.Equal(t, 3, search.lastTopK)
}

func TestHandleSearch_PropagatesError(t *testing.T) {
	srv, search, _ := newTestServer(t)
	search.err = errors.New("embedding provider down")

	_, _, err := srv.handleSearch(context.Background(), nil, SearchInput{Query: "q"})
	assert.Error(t, err)
}

func TestHandleListDocuments(t *testing.T) {
	srv, _, docs := newTestServer(t)
	docs.stats = testStats()

	_, out, err := srv.handleListDocuments(context.Background(), nil, ListDocumentsInput{})
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "doc-1", out.Documents[0].ID)
	assert.Equal(t, 3, out.Documents[0].ChunkCount)
	assert.Equal(t, "2026-03-01T12:00:00Z", out.Documents[0].UploadedAt)
}

func TestHandleDocumentChunks(t *testing.T) {
	srv, _, docs := newTestServer(t)
	docs.chunks = []domain.Chunk{
		{ID: "doc-1_chunk_0", Content: "first", Index: 0, FilePath: "main.go", Language: "Go"},
		{ID: "doc-1_chunk_1", Content: "second", Index: 1, FilePath: "main.go", Language: "Go"},
	}

	_, out, err := srv.handleDocumentChunks(context.Background(), nil, DocumentChunksInput{DocumentID: "doc-1"})
	require.NoError(t, err)
	require.Equal(t, 2, out.Count)
	assert.Equal(t, "first", out.Chunks[0].Content)
	assert.Equal(t, "main.go", out.Chunks[1].FilePath)
}

func TestHandleRelatedChunks(t *testing.T) {
	srv, search, _ := newTestServer(t)
	search.related = []domain.RelatedChunk{
		{ChunkID: "doc-1_chunk_1", Content: "next", ChunkIndex: 1, Distance: 1},
	}

	_, out, err := srv.handleRelatedChunks(context.Background(), nil, RelatedChunksInput{
		ChunkID:  "doc-1_chunk_0",
		MaxDepth: 2,
	})
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, 1, out.Related[0].Distance)
	assert.Equal(t, 2, search.lastDepth)
}

func TestHandleDeleteDocument(t *testing.T) {
	srv, _, docs := newTestServer(t)

	_, out, err := srv.handleDeleteDocument(context.Background(), nil, DeleteDocumentInput{DocumentID: "doc-1"})
	require.NoError(t, err)
	assert.True(t, out.Deleted)
	assert.Equal(t, []string{"doc-1"}, docs.deleted)
}

func TestHandleDeleteDocument_PropagatesError(t *testing.T) {
	srv, _, docs := newTestServer(t)
	docs.err = domain.ErrNotFound

	_, _, err := srv.handleDeleteDocument(context.Background(), nil, DeleteDocumentInput{DocumentID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHandleIngestRepository(t *testing.T) {
	ports, _, _ := testPorts()
	ports.Ingestion = &mockIngestionService{
		result: &domain.IngestResult{
			ID:            "doc-9",
			RepoName:      "user/repo",
			FileCount:     4,
			ChunksCreated: 12,
		},
	}
	srv, err := NewServer(ports)
	require.NoError(t, err)

	_, out, err := srv.handleIngestRepository(context.Background(), nil, IngestRepositoryInput{
		URL: "https://github.com/user/repo.git",
	})
	require.NoError(t, err)
	assert.Equal(t, "doc-9", out.DocumentID)
	assert.Equal(t, "user/repo", out.RepoName)
	assert.Equal(t, 4, out.FileCount)
	assert.Equal(t, 12, out.ChunksCreated)
}
