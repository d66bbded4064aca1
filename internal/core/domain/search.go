package domain

// SearchResult is a single similarity hit. Both the index-accelerated and
// the brute-force paths produce this shape, with Score on the cosine scale.
type SearchResult struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Content is the chunk text.
	Content string

	// ChunkIndex is the chunk's sequence index within its document.
	ChunkIndex int

	// DocumentID and Filename identify the owning document.
	DocumentID string
	Filename   string

	// Score is the cosine similarity in [-1, 1]; higher is more relevant.
	Score float64
}

// RelatedChunk is a chunk reachable from another chunk through
// relationship edges, with its traversal distance in hops.
type RelatedChunk struct {
	ChunkID    string
	Content    string
	ChunkIndex int
	Distance   int
}

// ScoredChunk is the raw material for brute-force similarity scoring:
// everything the fallback path needs to rank a chunk and shape a result.
type ScoredChunk struct {
	ChunkID    string
	Content    string
	ChunkIndex int
	DocumentID string
	Filename   string
	Embedding  []float32
}
