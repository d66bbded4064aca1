package domain

import (
	"fmt"
	"time"
)

// Document status values. A document is pending from the moment its node
// is first written until all chunks and edges have been stored, making
// partially ingested documents observable rather than silently wrong.
const (
	StatusPending  = "pending"
	StatusComplete = "complete"
)

// Document represents an ingested source: an uploaded file or a cloned
// repository. One Document node is created per ingestion call; re-ingesting
// the same source produces a new, independent Document.
type Document struct {
	// ID is the unique identifier, generated at ingestion.
	ID string

	// Filename is the display name. Repository documents use the
	// "GitHub: <repo>" convention.
	Filename string

	// FileSize is the total size in bytes of the ingested content.
	FileSize int64

	// NumChunks is the declared chunk count, finalised after chunking.
	NumChunks int

	// UploadedAt is when ingestion started.
	UploadedAt time.Time

	// Status is pending until every chunk and edge is persisted.
	Status string

	// Repository metadata. Empty for plain documents.
	RepoURL   string
	RepoName  string
	FileCount int
}

// Chunk is the atomic unit of embedding and retrieval: a bounded substring
// of an ingested source. Chunks are immutable once written and removed only
// by the owning document's cascade delete.
//
// Metadata is flattened to scalar fields; the graph backend forbids nested
// property values.
type Chunk struct {
	// ID is deterministic, derived from the document ID and Index.
	ID string

	// DocumentID is the owning document. Every chunk has exactly one
	// BELONGS_TO edge to it.
	DocumentID string

	// Content is the chunk text.
	Content string

	// Index is the zero-based sequence index within the document.
	Index int

	// Embedding is the vector representation. All embeddings in a store
	// share one dimensionality, fixed by the active embedding provider.
	Embedding []float32

	// Position and Length describe plain-text chunks.
	Position int
	Length   int

	// FilePath, Language and FileChunkIndex describe code chunks from
	// repository ingestion.
	FilePath       string
	Language       string
	FileChunkIndex int
}

// ChunkID derives the deterministic chunk identifier for a document and a
// zero-based sequence index.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, index)
}

// DocumentStats pairs a document with its live chunk count for listings.
// ChunkCount is counted from the graph and may lag NumChunks while an
// ingestion is still pending.
type DocumentStats struct {
	Document   Document
	ChunkCount int
}
