package mcp

import (
	"github.com/ragweave/ragweave/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search answers similarity and graph-traversal queries.
	Search driving.SearchService

	// Document manages ingested documents.
	Document driving.DocumentService

	// Ingestion is optional; when nil the ingestion tools are not
	// registered and the server is read-only.
	Ingestion driving.IngestionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	return nil
}
