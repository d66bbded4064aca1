package driving

import (
	"context"

	"github.com/ragweave/ragweave/internal/core/domain"
)

// IngestionService turns raw sources into a persisted chunk graph.
//
// Each call generates a fresh document identity; re-ingesting the same
// source produces a new, independent document rather than merging with a
// prior one. Both operations run to completion within the call — no
// background work survives the return.
type IngestionService interface {
	// IngestDocument extracts text from the file at path, chunks it,
	// embeds every chunk in one batched call, and persists the document,
	// its chunks and NEXT edges between consecutive chunks.
	IngestDocument(ctx context.Context, path, filename string) (*domain.IngestResult, error)

	// IngestRepository clones the repository at url into an ephemeral
	// workspace, chunks every eligible file, embeds all chunks in one
	// batched call, and persists chunks plus NEXT_IN_FILE edges between
	// consecutive chunks of the same file. The workspace is removed on
	// every exit path.
	IngestRepository(ctx context.Context, url string) (*domain.IngestResult, error)
}
