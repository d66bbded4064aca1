package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a file extension no extractor handles.
	// Rejected input; never retried.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoEligibleFiles indicates a repository contained no files passing
	// the extension allow-list, directory deny-list and size ceiling.
	ErrNoEligibleFiles = errors.New("no processable files found in repository")

	// ErrFetchFailed indicates a repository could not be materialised
	// (network, auth, or not-found problems).
	ErrFetchFailed = errors.New("repository fetch failed")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Ingestion and semantic search require it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the store has no native vector
	// index. Not a failure: the search engine falls back to brute-force
	// scoring when it sees this.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrDimensionMismatch indicates an embedding whose length differs from
	// the store's fixed dimensionality. Store-time contract violation.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
