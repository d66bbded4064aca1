package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchInput is the input schema for the search_documents tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the natural-language query to search for"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// SearchOutput is the output schema for the search_documents tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ChunkID    string  `json:"chunk_id"`
	Content    string  `json:"content"`
	ChunkIndex int     `json:"chunk_index"`
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Score      float64 `json:"score"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput represents an ingested document.
type DocumentOutput struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	FileSize   int64  `json:"file_size"`
	ChunkCount int    `json:"chunk_count"`
	UploadedAt string `json:"uploaded_at"`
	Status     string `json:"status"`
	RepoURL    string `json:"repo_url,omitempty"`
}

// DocumentChunksInput is the input schema for the get_document_chunks tool.
type DocumentChunksInput struct {
	DocumentID string `json:"document_id" jsonschema:"the id of the document whose chunks to fetch"`
}

// DocumentChunksOutput is the output schema for the get_document_chunks tool.
type DocumentChunksOutput struct {
	Chunks []ChunkOutput `json:"chunks"`
	Count  int           `json:"count"`
}

// ChunkOutput represents one chunk of a document.
type ChunkOutput struct {
	ChunkID    string `json:"chunk_id"`
	Content    string `json:"content"`
	ChunkIndex int    `json:"chunk_index"`
	FilePath   string `json:"file_path,omitempty"`
	Language   string `json:"language,omitempty"`
}

// RelatedChunksInput is the input schema for the get_related_chunks tool.
type RelatedChunksInput struct {
	ChunkID  string `json:"chunk_id" jsonschema:"the chunk to start the graph traversal from"`
	MaxDepth int    `json:"max_depth,omitempty" jsonschema:"maximum relationship hops to traverse (default 2)"`
}

// RelatedChunksOutput is the output schema for the get_related_chunks tool.
type RelatedChunksOutput struct {
	Related []RelatedChunkOutput `json:"related"`
	Count   int                  `json:"count"`
}

// RelatedChunkOutput represents a chunk reached by graph traversal.
type RelatedChunkOutput struct {
	ChunkID    string `json:"chunk_id"`
	Content    string `json:"content"`
	ChunkIndex int    `json:"chunk_index"`
	Distance   int    `json:"distance"`
}

// DeleteDocumentInput is the input schema for the delete_document tool.
type DeleteDocumentInput struct {
	DocumentID string `json:"document_id" jsonschema:"the id of the document to delete"`
}

// DeleteDocumentOutput is the output schema for the delete_document tool.
type DeleteDocumentOutput struct {
	DocumentID string `json:"document_id"`
	Deleted    bool   `json:"deleted"`
}

// IngestRepositoryInput is the input schema for the ingest_repository tool.
type IngestRepositoryInput struct {
	URL string `json:"url" jsonschema:"the clone URL of the repository to ingest"`
}

// IngestRepositoryOutput is the output schema for the ingest_repository tool.
type IngestRepositoryOutput struct {
	DocumentID    string `json:"document_id"`
	RepoName      string `json:"repo_name"`
	FileCount     int    `json:"file_count"`
	ChunksCreated int    `json:"chunks_created"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_documents",
		Description: "Search ingested documents by semantic similarity",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List all ingested documents with chunk counts",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document_chunks",
		Description: "Fetch all chunks of a document in order",
	}, s.handleDocumentChunks)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_related_chunks",
		Description: "Find chunks connected to a chunk in the graph",
	}, s.handleRelatedChunks)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_document",
		Description: "Delete a document and all its chunks",
	}, s.handleDeleteDocument)

	if s.ports.Ingestion != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest_repository",
			Description: "Clone a git repository and ingest its source files",
		}, s.handleIngestRepository)
	}
}

// handleSearch handles the search_documents tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	results, err := s.ports.Search.Search(ctx, input.Query, input.TopK)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			ChunkID:    results[i].ChunkID,
			Content:    results[i].Content,
			ChunkIndex: results[i].ChunkIndex,
			DocumentID: results[i].DocumentID,
			Filename:   results[i].Filename,
			Score:      results[i].Score,
		}
	}

	return nil, output, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	stats, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(stats)),
		Count:     len(stats),
	}
	for i := range stats {
		doc := stats[i].Document
		output.Documents[i] = DocumentOutput{
			ID:         doc.ID,
			Filename:   doc.Filename,
			FileSize:   doc.FileSize,
			ChunkCount: stats[i].ChunkCount,
			UploadedAt: doc.UploadedAt.Format(time.RFC3339),
			Status:     doc.Status,
			RepoURL:    doc.RepoURL,
		}
	}

	return nil, output, nil
}

// handleDocumentChunks handles the get_document_chunks tool invocation.
func (s *Server) handleDocumentChunks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentChunksInput,
) (*mcp.CallToolResult, DocumentChunksOutput, error) {
	chunks, err := s.ports.Document.Chunks(ctx, input.DocumentID)
	if err != nil {
		return nil, DocumentChunksOutput{}, err
	}

	output := DocumentChunksOutput{
		Chunks: make([]ChunkOutput, len(chunks)),
		Count:  len(chunks),
	}
	for i := range chunks {
		output.Chunks[i] = ChunkOutput{
			ChunkID:    chunks[i].ID,
			Content:    chunks[i].Content,
			ChunkIndex: chunks[i].Index,
			FilePath:   chunks[i].FilePath,
			Language:   chunks[i].Language,
		}
	}

	return nil, output, nil
}

// handleRelatedChunks handles the get_related_chunks tool invocation.
func (s *Server) handleRelatedChunks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RelatedChunksInput,
) (*mcp.CallToolResult, RelatedChunksOutput, error) {
	related, err := s.ports.Search.Related(ctx, input.ChunkID, input.MaxDepth)
	if err != nil {
		return nil, RelatedChunksOutput{}, err
	}

	output := RelatedChunksOutput{
		Related: make([]RelatedChunkOutput, len(related)),
		Count:   len(related),
	}
	for i := range related {
		output.Related[i] = RelatedChunkOutput{
			ChunkID:    related[i].ChunkID,
			Content:    related[i].Content,
			ChunkIndex: related[i].ChunkIndex,
			Distance:   related[i].Distance,
		}
	}

	return nil, output, nil
}

// handleDeleteDocument handles the delete_document tool invocation.
func (s *Server) handleDeleteDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteDocumentInput,
) (*mcp.CallToolResult, DeleteDocumentOutput, error) {
	if err := s.ports.Document.Delete(ctx, input.DocumentID); err != nil {
		return nil, DeleteDocumentOutput{}, err
	}
	return nil, DeleteDocumentOutput{DocumentID: input.DocumentID, Deleted: true}, nil
}

// handleIngestRepository handles the ingest_repository tool invocation.
func (s *Server) handleIngestRepository(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestRepositoryInput,
) (*mcp.CallToolResult, IngestRepositoryOutput, error) {
	result, err := s.ports.Ingestion.IngestRepository(ctx, input.URL)
	if err != nil {
		return nil, IngestRepositoryOutput{}, err
	}
	return nil, IngestRepositoryOutput{
		DocumentID:    result.ID,
		RepoName:      result.RepoName,
		FileCount:     result.FileCount,
		ChunksCreated: result.ChunksCreated,
	}, nil
}
