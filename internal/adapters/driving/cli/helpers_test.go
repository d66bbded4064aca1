package cli

import (
	"bytes"
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ragweave/ragweave/internal/core/domain"
)

// fakeSearchService implements driving.SearchService for command tests.
type fakeSearchService struct {
	results []domain.SearchResult
	related []domain.RelatedChunk
	err     error
}

func (f *fakeSearchService) Search(_ context.Context, _ string, _ int) ([]domain.SearchResult, error) {
	return f.results, f.err
}

func (f *fakeSearchService) SearchByVector(_ context.Context, _ []float32, _ int) ([]domain.SearchResult, error) {
	return f.results, f.err
}

func (f *fakeSearchService) Related(_ context.Context, _ string, _ int) ([]domain.RelatedChunk, error) {
	return f.related, f.err
}

// fakeDocumentService implements driving.DocumentService for command tests.
type fakeDocumentService struct {
	stats   []domain.DocumentStats
	chunks  []domain.Chunk
	deleted []string
	err     error
}

func (f *fakeDocumentService) List(_ context.Context) ([]domain.DocumentStats, error) {
	return f.stats, f.err
}

func (f *fakeDocumentService) Chunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return f.chunks, f.err
}

func (f *fakeDocumentService) Delete(_ context.Context, documentID string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, documentID)
	return nil
}

// fakeIngestionService implements driving.IngestionService for command tests.
type fakeIngestionService struct {
	result *domain.IngestResult
	err    error
}

func (f *fakeIngestionService) IngestDocument(_ context.Context, _, _ string) (*domain.IngestResult, error) {
	return f.result, f.err
}

func (f *fakeIngestionService) IngestRepository(_ context.Context, _ string) (*domain.IngestResult, error) {
	return f.result, f.err
}

// setupTestServices installs fakes into the package service variables and
// returns them with a cleanup that restores the uninitialised state.
func setupTestServices() (*fakeSearchService, *fakeDocumentService, *fakeIngestionService, func()) {
	search := &fakeSearchService{
		results: []domain.SearchResult{
			{
				ChunkID:    "doc-1_chunk_0",
				Content:    "matching content",
				ChunkIndex: 0,
				DocumentID: "doc-1",
				Filename:   "notes.txt",
				Score:      0.87,
			},
		},
		related: []domain.RelatedChunk{
			{ChunkID: "doc-1_chunk_1", Content: "neighbour", ChunkIndex: 1, Distance: 1},
		},
	}
	docs := &fakeDocumentService{
		stats: []domain.DocumentStats{
			{
				Document: domain.Document{
					ID:         "doc-1",
					Filename:   "notes.txt",
					UploadedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
					Status:     domain.StatusComplete,
				},
				ChunkCount: 2,
			},
		},
		chunks: []domain.Chunk{
			{ID: "doc-1_chunk_0", Content: "first chunk", Index: 0},
			{ID: "doc-1_chunk_1", Content: "second chunk", Index: 1},
		},
	}
	ingest := &fakeIngestionService{
		result: &domain.IngestResult{
			ID:            "doc-1",
			Filename:      "notes.txt",
			Size:          42,
			ChunksCreated: 2,
			Status:        "success",
			RepoName:      "user/repo",
			FileCount:     3,
		},
	}

	searchService = search
	documentService = docs
	ingestionService = ingest

	return search, docs, ingest, func() {
		searchService = nil
		documentService = nil
		ingestionService = nil
	}
}

// resetFlags restores any flags changed by a previous execution to their
// defaults so each test sees a fresh command, as in a new process.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and captures combined output.
func execute(args ...string) (string, error) {
	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
