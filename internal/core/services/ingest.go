package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ragweave/ragweave/internal/chunker"
	"github.com/ragweave/ragweave/internal/core/domain"
	"github.com/ragweave/ragweave/internal/core/ports/driven"
	"github.com/ragweave/ragweave/internal/core/ports/driving"
	"github.com/ragweave/ragweave/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestionService = (*IngestService)(nil)

// IngestService orchestrates Chunker, EmbeddingService and GraphStore to
// build a consistent chunk graph from a source.
type IngestService struct {
	store     driven.GraphStore
	embedder  driven.EmbeddingService
	extractor driven.TextExtractor
	fetcher   driven.RepoFetcher
	splitter  *chunker.Chunker

	// maxFileSize caps individual repository files, in bytes.
	maxFileSize int64

	// now is swappable for tests.
	now func() time.Time
}

// Option configures an IngestService.
type Option func(*IngestService)

// WithMaxFileSize overrides the per-file size ceiling applied during
// repository ingestion. Non-positive values keep the default.
func WithMaxFileSize(n int64) Option {
	return func(s *IngestService) {
		if n > 0 {
			s.maxFileSize = n
		}
	}
}

// NewIngestService creates an ingestion service. The extractor is only
// needed for document ingestion and the fetcher only for repository
// ingestion; either may be nil when the corresponding operation is unused.
func NewIngestService(
	store driven.GraphStore,
	embedder driven.EmbeddingService,
	extractor driven.TextExtractor,
	fetcher driven.RepoFetcher,
	splitter *chunker.Chunker,
	opts ...Option,
) *IngestService {
	s := &IngestService{
		store:       store,
		embedder:    embedder,
		extractor:   extractor,
		fetcher:     fetcher,
		splitter:    splitter,
		maxFileSize: defaultMaxRepoFileSize,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestDocument processes a single file: extract text, chunk, embed all
// chunks in one batched call, and persist the document, chunks and NEXT
// edges. A fresh document identity is generated per call.
//
// Writes are not wrapped in one transaction; a failure partway leaves the
// document with Status pending, which readers must tolerate.
func (s *IngestService) IngestDocument(ctx context.Context, path, filename string) (*domain.IngestResult, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	documentID := uuid.New().String()
	uploadedAt := s.now()

	logger.Section("Document Ingestion")
	logger.Info("Extracting text from %s", filename)

	text, err := s.extractor.Extract(ctx, path, filename)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filename, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s contains no text", domain.ErrInvalidInput, filename)
	}

	texts := s.splitter.Split(text)
	logger.Info("Created %d chunks", len(texts))

	var size int64
	if info, statErr := os.Stat(path); statErr == nil {
		size = info.Size()
	} else {
		size = int64(len(text))
	}

	doc := &domain.Document{
		ID:         documentID,
		Filename:   filename,
		FileSize:   size,
		NumChunks:  len(texts),
		UploadedAt: uploadedAt,
		Status:     domain.StatusPending,
	}
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	logger.Info("Generating embeddings for %d chunks", len(texts))
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}

	chunks := make([]domain.Chunk, len(texts))
	for i, content := range texts {
		chunks[i] = domain.Chunk{
			ID:         domain.ChunkID(documentID, i),
			DocumentID: documentID,
			Content:    content,
			Index:      i,
			Embedding:  embeddings[i],
			Position:   i,
			Length:     len(content),
		}
	}
	if err := s.store.SaveChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("save chunks: %w", err)
	}

	// Sequential NEXT edges between every consecutive index pair.
	for i := 0; i < len(chunks)-1; i++ {
		rel := domain.Relationship{
			SourceID:   chunks[i].ID,
			TargetID:   chunks[i+1].ID,
			Type:       domain.RelNext,
			Properties: map[string]any{"sequence": i},
		}
		if err := s.store.CreateRelationship(ctx, rel); err != nil {
			return nil, fmt.Errorf("link chunks %d->%d: %w", i, i+1, err)
		}
	}

	doc.Status = domain.StatusComplete
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("finalise document: %w", err)
	}

	logger.Info("Successfully processed document %s", filename)

	return &domain.IngestResult{
		ID:            documentID,
		Filename:      filename,
		Size:          size,
		UploadedAt:    uploadedAt,
		ChunksCreated: len(chunks),
		Status:        "success",
	}, nil
}
