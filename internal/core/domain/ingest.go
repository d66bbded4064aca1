package domain

import "time"

// IngestResult describes a completed ingestion.
type IngestResult struct {
	// ID is the new document's identifier.
	ID string

	// Filename is the document display name.
	Filename string

	// Size is the total ingested byte size.
	Size int64

	// UploadedAt is when ingestion started.
	UploadedAt time.Time

	// ChunksCreated is the number of chunks written.
	ChunksCreated int

	// Status is "success" on the happy path; failures return errors instead.
	Status string

	// Repository metadata, set only for repository ingestion.
	RepoURL   string
	RepoName  string
	FileCount int
}
