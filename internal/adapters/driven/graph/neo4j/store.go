// Package neo4j provides a GraphStore backed by a Neo4j property graph.
//
// Chunk embeddings live on Chunk nodes; when the server supports native
// vector indexes (Neo4j 5.11+) similarity queries run through
// db.index.vector.queryNodes, otherwise the search engine falls back to
// brute-force scoring over AllChunks.
package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/ragweave/ragweave/internal/core/domain"
	"github.com/ragweave/ragweave/internal/core/ports/driven"
	"github.com/ragweave/ragweave/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.GraphStore = (*Store)(nil)

// vectorIndexName is the native index probed at startup.
const vectorIndexName = "chunk_embedding_index"

// relatedLimit caps RelatedChunks results regardless of graph density.
const relatedLimit = 10

// Config holds connection settings for the Neo4j store.
type Config struct {
	// URI is the bolt endpoint (e.g. bolt://localhost:7687).
	URI string

	// Username and Password authenticate against the server.
	Username string
	Password string

	// Dimensions is the embedding vector size used for the vector index
	// and enforced on every chunk write.
	Dimensions int
}

// Store is a Neo4j-backed chunk graph store. Sessions are scoped per
// operation: acquire, run, release.
type Store struct {
	driver         neo4j.DriverWithContext
	dims           int
	hasVectorIndex bool
}

// NewStore connects to Neo4j, creates the id indexes, and probes for
// native vector index support. The probe result is cached as a capability
// flag for the lifetime of the store.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx) //nolint:errcheck
		return nil, fmt.Errorf("verifying connectivity: %w", err)
	}

	s := &Store{driver: driver, dims: cfg.Dimensions}
	s.createIndexes(ctx)
	return s, nil
}

// createIndexes sets up id lookups and probes the vector index capability.
// Index creation failures are degraded capability, not startup failures.
func (s *Store) createIndexes(ctx context.Context) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx) //nolint:errcheck

	idIndexes := []string{
		"CREATE INDEX document_id_index IF NOT EXISTS FOR (d:Document) ON (d.id)",
		"CREATE INDEX chunk_id_index IF NOT EXISTS FOR (c:Chunk) ON (c.id)",
	}
	for _, stmt := range idIndexes {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			logger.Warn("Error creating index: %v", err)
		}
	}

	_, err := session.Run(ctx, fmt.Sprintf(`
		CREATE VECTOR INDEX %s IF NOT EXISTS
		FOR (c:Chunk) ON (c.embedding)
		OPTIONS {indexConfig: {
			`+"`vector.dimensions`"+`: $dims,
			`+"`vector.similarity_function`"+`: 'cosine'
		}}`, vectorIndexName),
		map[string]any{"dims": s.dims})
	if err != nil {
		logger.Warn("Vector index not available (requires Neo4j 5.11+): %v", err)
		s.hasVectorIndex = false
		return
	}
	logger.Info("Vector index created successfully")
	s.hasVectorIndex = true
}

// HasVectorIndex reports the capability flag probed at startup.
func (s *Store) HasVectorIndex() bool {
	return s.hasVectorIndex
}

// Close releases the driver.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// SaveDocument creates or replaces a document node, keyed by id.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.Document) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx) //nolint:errcheck

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, `
			MERGE (d:Document {id: $id})
			SET d.filename = $filename,
			    d.uploaded_at = $uploaded_at,
			    d.file_size = $file_size,
			    d.num_chunks = $num_chunks,
			    d.status = $status,
			    d.repo_url = $repo_url,
			    d.repo_name = $repo_name,
			    d.file_count = $file_count`,
			map[string]any{
				"id":          doc.ID,
				"filename":    doc.Filename,
				"uploaded_at": doc.UploadedAt,
				"file_size":   doc.FileSize,
				"num_chunks":  doc.NumChunks,
				"status":      doc.Status,
				"repo_url":    doc.RepoURL,
				"repo_name":   doc.RepoName,
				"file_count":  doc.FileCount,
			})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// saveChunkTx upserts one chunk and its BELONGS_TO edge inside tx.
func (s *Store) saveChunkTx(ctx context.Context, tx neo4j.ManagedTransaction, chunk *domain.Chunk) error {
	if s.dims > 0 && len(chunk.Embedding) > 0 && len(chunk.Embedding) != s.dims {
		return fmt.Errorf("%w: got %d, store expects %d",
			domain.ErrDimensionMismatch, len(chunk.Embedding), s.dims)
	}

	// Metadata is flattened to scalar properties: Neo4j does not support
	// nested maps as property values.
	_, err := tx.Run(ctx, `
		MERGE (c:Chunk {id: $chunk_id})
		SET c.content = $content,
		    c.chunk_index = $chunk_index,
		    c.embedding = $embedding,
		    c.position = $position,
		    c.length = $length,
		    c.file_path = $file_path,
		    c.language = $language,
		    c.file_chunk_index = $file_chunk_index
		WITH c
		MATCH (d:Document {id: $document_id})
		MERGE (c)-[:BELONGS_TO]->(d)`,
		map[string]any{
			"chunk_id":         chunk.ID,
			"document_id":      chunk.DocumentID,
			"content":          chunk.Content,
			"chunk_index":      chunk.Index,
			"embedding":        toFloat64s(chunk.Embedding),
			"position":         chunk.Position,
			"length":           chunk.Length,
			"file_path":        chunk.FilePath,
			"language":         chunk.Language,
			"file_chunk_index": chunk.FileChunkIndex,
		})
	return err
}

// SaveChunk creates or replaces a chunk node with its BELONGS_TO edge.
func (s *Store) SaveChunk(ctx context.Context, chunk *domain.Chunk) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx) //nolint:errcheck

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, s.saveChunkTx(ctx, tx, chunk)
	})
	if err != nil {
		return fmt.Errorf("saving chunk: %w", err)
	}
	return nil
}

// SaveChunks stores a batch of chunks in one write transaction.
func (s *Store) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx) //nolint:errcheck

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for i := range chunks {
			if err := s.saveChunkTx(ctx, tx, &chunks[i]); err != nil {
				return nil, fmt.Errorf("chunk %s: %w", chunks[i].ID, err)
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("saving chunks: %w", err)
	}
	return nil
}

// CreateRelationship upserts a typed edge between two existing chunks.
// MERGE on source, target and type makes retries idempotent.
func (s *Store) CreateRelationship(ctx context.Context, rel domain.Relationship) error {
	// The type is interpolated into the query text (Cypher has no
	// parameterised relationship types), so it must be validated first.
	if !domain.ValidRelType(rel.Type) {
		return fmt.Errorf("%w: relationship type %q", domain.ErrInvalidInput, rel.Type)
	}

	props := rel.Properties
	if props == nil {
		props = map[string]any{}
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx) //nolint:errcheck

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, fmt.Sprintf(`
			MATCH (s:Chunk {id: $source_id})
			MATCH (t:Chunk {id: $target_id})
			MERGE (s)-[r:%s]->(t)
			SET r += $properties`, rel.Type),
			map[string]any{
				"source_id":  rel.SourceID,
				"target_id":  rel.TargetID,
				"properties": props,
			})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("creating relationship: %w", err)
	}
	return nil
}

// VectorSearch queries the native vector index for the topK nearest
// chunks. When the index is absent the caller gets
// domain.ErrVectorIndexUnavailable and falls back to brute force.
func (s *Store) VectorSearch(ctx context.Context, query []float32, topK int) ([]domain.SearchResult, error) {
	if !s.hasVectorIndex {
		return nil, domain.ErrVectorIndexUnavailable
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx) //nolint:errcheck

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			CALL db.index.vector.queryNodes($index_name, $top_k, $query_embedding)
			YIELD node, score
			MATCH (node)-[:BELONGS_TO]->(d:Document)
			RETURN node.id AS chunk_id,
			       node.content AS content,
			       node.chunk_index AS chunk_index,
			       d.filename AS filename,
			       d.id AS document_id,
			       score
			ORDER BY score DESC`,
			map[string]any{
				"index_name":      vectorIndexName,
				"top_k":           topK,
				"query_embedding": toFloat64s(query),
			})
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("vector index query: %w", err)
	}

	recs := records.([]*neo4j.Record)
	results := make([]domain.SearchResult, 0, len(recs))
	for _, rec := range recs {
		results = append(results, domain.SearchResult{
			ChunkID:    recordString(rec, "chunk_id"),
			Content:    recordString(rec, "content"),
			ChunkIndex: recordInt(rec, "chunk_index"),
			Filename:   recordString(rec, "filename"),
			DocumentID: recordString(rec, "document_id"),
			Score:      recordFloat(rec, "score"),
		})
	}
	return results, nil
}

// AllChunks loads every embedded chunk with its owning document identity
// for brute-force similarity scoring.
func (s *Store) AllChunks(ctx context.Context) ([]domain.ScoredChunk, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx) //nolint:errcheck

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (c:Chunk)-[:BELONGS_TO]->(d:Document)
			WHERE c.embedding IS NOT NULL
			RETURN c.id AS chunk_id,
			       c.content AS content,
			       c.chunk_index AS chunk_index,
			       c.embedding AS embedding,
			       d.filename AS filename,
			       d.id AS document_id`, nil)
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("loading chunks: %w", err)
	}

	recs := records.([]*neo4j.Record)
	chunks := make([]domain.ScoredChunk, 0, len(recs))
	for _, rec := range recs {
		chunks = append(chunks, domain.ScoredChunk{
			ChunkID:    recordString(rec, "chunk_id"),
			Content:    recordString(rec, "content"),
			ChunkIndex: recordInt(rec, "chunk_index"),
			Embedding:  recordVector(rec, "embedding"),
			Filename:   recordString(rec, "filename"),
			DocumentID: recordString(rec, "document_id"),
		})
	}
	return chunks, nil
}

// GetDocumentChunks returns all chunks of a document ordered by index.
func (s *Store) GetDocumentChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx) //nolint:errcheck

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (c:Chunk)-[:BELONGS_TO]->(d:Document {id: $document_id})
			RETURN c.id AS chunk_id,
			       c.content AS content,
			       c.chunk_index AS chunk_index,
			       c.position AS position,
			       c.length AS length,
			       c.file_path AS file_path,
			       c.language AS language,
			       c.file_chunk_index AS file_chunk_index
			ORDER BY c.chunk_index`,
			map[string]any{"document_id": documentID})
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}

	recs := records.([]*neo4j.Record)
	chunks := make([]domain.Chunk, 0, len(recs))
	for _, rec := range recs {
		chunks = append(chunks, domain.Chunk{
			ID:             recordString(rec, "chunk_id"),
			DocumentID:     documentID,
			Content:        recordString(rec, "content"),
			Index:          recordInt(rec, "chunk_index"),
			Position:       recordInt(rec, "position"),
			Length:         recordInt(rec, "length"),
			FilePath:       recordString(rec, "file_path"),
			Language:       recordString(rec, "language"),
			FileChunkIndex: recordInt(rec, "file_chunk_index"),
		})
	}
	return chunks, nil
}

// ListDocuments returns all documents with live chunk counts, newest first.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.DocumentStats, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx) //nolint:errcheck

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (d:Document)
			OPTIONAL MATCH (c:Chunk)-[:BELONGS_TO]->(d)
			RETURN d.id AS document_id,
			       d.filename AS filename,
			       d.uploaded_at AS uploaded_at,
			       d.file_size AS file_size,
			       d.num_chunks AS num_chunks,
			       d.status AS status,
			       d.repo_url AS repo_url,
			       d.repo_name AS repo_name,
			       d.file_count AS file_count,
			       count(c) AS chunk_count
			ORDER BY d.uploaded_at DESC`, nil)
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}

	recs := records.([]*neo4j.Record)
	stats := make([]domain.DocumentStats, 0, len(recs))
	for _, rec := range recs {
		stats = append(stats, domain.DocumentStats{
			Document: domain.Document{
				ID:         recordString(rec, "document_id"),
				Filename:   recordString(rec, "filename"),
				UploadedAt: recordTime(rec, "uploaded_at"),
				FileSize:   int64(recordInt(rec, "file_size")),
				NumChunks:  recordInt(rec, "num_chunks"),
				Status:     recordString(rec, "status"),
				RepoURL:    recordString(rec, "repo_url"),
				RepoName:   recordString(rec, "repo_name"),
				FileCount:  recordInt(rec, "file_count"),
			},
			ChunkCount: recordInt(rec, "chunk_count"),
		})
	}
	return stats, nil
}

// DeleteDocument removes a document and all its chunks. DETACH DELETE
// also removes every edge touching them.
func (s *Store) DeleteDocument(ctx context.Context, documentID string) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx) //nolint:errcheck

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, `
			MATCH (d:Document {id: $document_id})
			OPTIONAL MATCH (c:Chunk)-[:BELONGS_TO]->(d)
			DETACH DELETE c, d`,
			map[string]any{"document_id": documentID})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// RelatedChunks walks relationship edges up to maxDepth hops from the
// given chunk, returning distinct chunks nearest first, capped at 10.
func (s *Store) RelatedChunks(ctx context.Context, chunkID string, maxDepth int) ([]domain.RelatedChunk, error) {
	if maxDepth < 1 {
		maxDepth = 1
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx) //nolint:errcheck

	// The hop bound cannot be parameterised in a variable-length pattern;
	// maxDepth is an int, so interpolation is safe.
	query := fmt.Sprintf(`
		MATCH path = (start:Chunk {id: $chunk_id})-[*1..%d]-(related:Chunk)
		RETURN DISTINCT related.id AS chunk_id,
		       related.content AS content,
		       related.chunk_index AS chunk_index,
		       length(path) AS distance
		ORDER BY distance
		LIMIT %d`, maxDepth, relatedLimit)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, map[string]any{"chunk_id": chunkID})
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("querying related chunks: %w", err)
	}

	recs := records.([]*neo4j.Record)
	related := make([]domain.RelatedChunk, 0, len(recs))
	for _, rec := range recs {
		related = append(related, domain.RelatedChunk{
			ChunkID:    recordString(rec, "chunk_id"),
			Content:    recordString(rec, "content"),
			ChunkIndex: recordInt(rec, "chunk_index"),
			Distance:   recordInt(rec, "distance"),
		})
	}
	return related, nil
}

// toFloat64s converts an embedding for storage; the bolt protocol carries
// float lists as float64.
func toFloat64s(vec []float32) []float64 {
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = float64(v)
	}
	return out
}

// recordString extracts a string field, tolerating nulls.
func recordString(rec *neo4j.Record, key string) string {
	val, ok := rec.Get(key)
	if !ok || val == nil {
		return ""
	}
	s, _ := val.(string)
	return s
}

// recordInt extracts an integer field, tolerating nulls.
func recordInt(rec *neo4j.Record, key string) int {
	val, ok := rec.Get(key)
	if !ok || val == nil {
		return 0
	}
	switch v := val.(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// recordFloat extracts a float field, tolerating nulls.
func recordFloat(rec *neo4j.Record, key string) float64 {
	val, ok := rec.Get(key)
	if !ok || val == nil {
		return 0
	}
	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// recordTime extracts a temporal field, tolerating nulls.
func recordTime(rec *neo4j.Record, key string) time.Time {
	val, ok := rec.Get(key)
	if !ok || val == nil {
		return time.Time{}
	}
	if t, ok := val.(time.Time); ok {
		return t
	}
	return time.Time{}
}

// recordVector extracts an embedding list, tolerating nulls.
func recordVector(rec *neo4j.Record, key string) []float32 {
	val, ok := rec.Get(key)
	if !ok || val == nil {
		return nil
	}
	list, ok := val.([]any)
	if !ok {
		return nil
	}
	vec := make([]float32, 0, len(list))
	for _, item := range list {
		if f, ok := item.(float64); ok {
			vec = append(vec, float32(f))
		}
	}
	return vec
}
