// Package mcp provides an MCP (Model Context Protocol) server adapter
// for ragweave. It lets AI assistants query the chunk graph as tools.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingDocumentService is returned when the document service is not provided.
var ErrMissingDocumentService = errors.New("mcp: document service is required")
