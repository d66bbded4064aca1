package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragweave/ragweave/internal/core/domain"
)

func testDoc(id string) *domain.Document {
	return &domain.Document{
		ID:         id,
		Filename:   id + ".txt",
		UploadedAt: time.Now(),
		Status:     domain.StatusComplete,
	}
}

func testChunk(docID string, index int, embedding []float32) *domain.Chunk {
	return &domain.Chunk{
		ID:         domain.ChunkID(docID, index),
		DocumentID: docID,
		Content:    "chunk content",
		Index:      index,
		Embedding:  embedding,
	}
}

func seedDocument(t *testing.T, store *Store, docID string, chunkCount int) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDoc(docID)))
	for i := 0; i < chunkCount; i++ {
		require.NoError(t, store.SaveChunk(ctx, testChunk(docID, i, []float32{1, 0, 0})))
	}
	for i := 0; i < chunkCount-1; i++ {
		require.NoError(t, store.CreateRelationship(ctx, domain.Relationship{
			SourceID:   domain.ChunkID(docID, i),
			TargetID:   domain.ChunkID(docID, i+1),
			Type:       domain.RelNext,
			Properties: map[string]any{"sequence": i},
		}))
	}
}

func TestSaveChunk_RequiresDocument(t *testing.T) {
	store := NewStore(0)
	err := store.SaveChunk(context.Background(), testChunk("missing", 0, nil))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveChunk_RejectsDimensionMismatch(t *testing.T) {
	store := NewStore(3)
	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, testDoc("doc")))

	err := store.SaveChunk(ctx, testChunk("doc", 0, []float32{1, 2}))
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	// Matching dimensionality is accepted.
	assert.NoError(t, store.SaveChunk(ctx, testChunk("doc", 0, []float32{1, 2, 3})))
}

func TestSaveChunk_UpsertByID(t *testing.T) {
	store := NewStore(0)
	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, testDoc("doc")))

	chunk := testChunk("doc", 0, nil)
	require.NoError(t, store.SaveChunk(ctx, chunk))

	chunk.Content = "updated"
	require.NoError(t, store.SaveChunk(ctx, chunk))

	chunks, err := store.GetDocumentChunks(ctx, "doc")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "updated", chunks[0].Content)
}

func TestCreateRelationship_Idempotent(t *testing.T) {
	store := NewStore(0)
	ctx := context.Background()
	seedDocument(t, store, "doc", 2)

	rel := domain.Relationship{
		SourceID: domain.ChunkID("doc", 0),
		TargetID: domain.ChunkID("doc", 1),
		Type:     domain.RelNext,
	}
	require.NoError(t, store.CreateRelationship(ctx, rel))
	require.NoError(t, store.CreateRelationship(ctx, rel))

	related, err := store.RelatedChunks(ctx, domain.ChunkID("doc", 0), 1)
	require.NoError(t, err)
	assert.Len(t, related, 1)
}

func TestCreateRelationship_RejectsInvalidType(t *testing.T) {
	store := NewStore(0)
	seedDocument(t, store, "doc", 2)

	err := store.CreateRelationship(context.Background(), domain.Relationship{
		SourceID: domain.ChunkID("doc", 0),
		TargetID: domain.ChunkID("doc", 1),
		Type:     "not valid",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateRelationship_RequiresBothChunks(t *testing.T) {
	store := NewStore(0)
	seedDocument(t, store, "doc", 1)

	err := store.CreateRelationship(context.Background(), domain.Relationship{
		SourceID: domain.ChunkID("doc", 0),
		TargetID: "ghost",
		Type:     domain.RelNext,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVectorSearch_ReportsIndexUnavailable(t *testing.T) {
	store := NewStore(0)
	assert.False(t, store.HasVectorIndex())

	_, err := store.VectorSearch(context.Background(), []float32{1}, 5)
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
}

func TestGetDocumentChunks_OrderedByIndex(t *testing.T) {
	store := NewStore(0)
	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, testDoc("doc")))

	// Insert out of order.
	for _, i := range []int{3, 0, 2, 1} {
		require.NoError(t, store.SaveChunk(ctx, testChunk("doc", i, nil)))
	}

	chunks, err := store.GetDocumentChunks(ctx, "doc")
	require.NoError(t, err)
	require.Len(t, chunks, 4)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
	}
}

func TestGetDocumentChunks_UnknownDocumentIsEmpty(t *testing.T) {
	store := NewStore(0)
	chunks, err := store.GetDocumentChunks(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestListDocuments_NewestFirstWithCounts(t *testing.T) {
	store := NewStore(0)
	ctx := context.Background()

	older := testDoc("older")
	older.UploadedAt = time.Now().Add(-time.Hour)
	require.NoError(t, store.SaveDocument(ctx, older))
	require.NoError(t, store.SaveChunk(ctx, testChunk("older", 0, nil)))

	newer := testDoc("newer")
	require.NoError(t, store.SaveDocument(ctx, newer))
	require.NoError(t, store.SaveChunk(ctx, testChunk("newer", 0, nil)))
	require.NoError(t, store.SaveChunk(ctx, testChunk("newer", 1, nil)))

	stats, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "newer", stats[0].Document.ID)
	assert.Equal(t, 2, stats[0].ChunkCount)
	assert.Equal(t, "older", stats[1].Document.ID)
	assert.Equal(t, 1, stats[1].ChunkCount)
}

func TestDeleteDocument_CascadesToChunksAndEdges(t *testing.T) {
	store := NewStore(0)
	ctx := context.Background()
	seedDocument(t, store, "doc", 3)
	seedDocument(t, store, "other", 2)

	require.NoError(t, store.DeleteDocument(ctx, "doc"))

	chunks, err := store.GetDocumentChunks(ctx, "doc")
	require.NoError(t, err)
	assert.Empty(t, chunks)

	related, err := store.RelatedChunks(ctx, domain.ChunkID("doc", 0), 3)
	require.NoError(t, err)
	assert.Empty(t, related)

	// The other document is untouched.
	chunks, err = store.GetDocumentChunks(ctx, "other")
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
}

func TestRelatedChunks_OrderedByDistance(t *testing.T) {
	store := NewStore(0)
	ctx := context.Background()
	seedDocument(t, store, "doc", 4) // chain 0-1-2-3

	related, err := store.RelatedChunks(ctx, domain.ChunkID("doc", 1), 2)
	require.NoError(t, err)
	require.Len(t, related, 3)

	// Neighbours at hop 1 come before hop 2.
	assert.Equal(t, 1, related[0].Distance)
	assert.Equal(t, 1, related[1].Distance)
	assert.Equal(t, 2, related[2].Distance)
	assert.Equal(t, domain.ChunkID("doc", 3), related[2].ChunkID)
}

func TestRelatedChunks_RespectsMaxDepth(t *testing.T) {
	store := NewStore(0)
	ctx := context.Background()
	seedDocument(t, store, "doc", 5) // chain 0-1-2-3-4

	related, err := store.RelatedChunks(ctx, domain.ChunkID("doc", 0), 1)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, domain.ChunkID("doc", 1), related[0].ChunkID)
}

func TestRelatedChunks_SameDocumentChunksAtDistanceTwo(t *testing.T) {
	store := NewStore(0)
	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, testDoc("doc")))
	// No explicit edges: the only path between chunks runs through the
	// document node.
	for i := 0; i < 3; i++ {
		require.NoError(t, store.SaveChunk(ctx, testChunk("doc", i, nil)))
	}

	related, err := store.RelatedChunks(ctx, domain.ChunkID("doc", 0), 2)
	require.NoError(t, err)
	require.Len(t, related, 2)
	for _, r := range related {
		assert.Equal(t, 2, r.Distance)
	}

	// Depth 1 stops at the document hop.
	related, err = store.RelatedChunks(ctx, domain.ChunkID("doc", 0), 1)
	require.NoError(t, err)
	assert.Empty(t, related)
}

func TestRelatedChunks_CappedAtTen(t *testing.T) {
	store := NewStore(0)
	ctx := context.Background()
	seedDocument(t, store, "doc", 15)

	// Star topology: link chunk 0 to every other chunk.
	for i := 1; i < 15; i++ {
		require.NoError(t, store.CreateRelationship(ctx, domain.Relationship{
			SourceID: domain.ChunkID("doc", 0),
			TargetID: domain.ChunkID("doc", i),
			Type:     domain.RelNext,
		}))
	}

	related, err := store.RelatedChunks(ctx, domain.ChunkID("doc", 0), 1)
	require.NoError(t, err)
	assert.Len(t, related, 10)
}

func TestRelatedChunks_UnknownChunkIsEmpty(t *testing.T) {
	store := NewStore(0)
	related, err := store.RelatedChunks(context.Background(), "ghost", 2)
	require.NoError(t, err)
	assert.Empty(t, related)
}

func TestAllChunks_JoinsDocumentFilename(t *testing.T) {
	store := NewStore(0)
	ctx := context.Background()
	seedDocument(t, store, "doc", 2)

	all, err := store.AllChunks(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, c := range all {
		assert.Equal(t, "doc.txt", c.Filename)
		assert.Equal(t, "doc", c.DocumentID)
	}
}
