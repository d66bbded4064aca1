// Package sqlite provides an embedded GraphStore backed by SQLite.
//
// Nodes live in the documents and chunks tables; typed edges in the edges
// table, keyed by (source, target, type) so writes are idempotent.
// SQLite has no native vector index, so HasVectorIndex is always false
// and every similarity query runs through the brute-force fallback.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ragweave/ragweave/internal/adapters/driven/graph/sqlite/migrations"
	"github.com/ragweave/ragweave/internal/core/domain"
	"github.com/ragweave/ragweave/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.GraphStore = (*Store)(nil)

// relatedLimit caps RelatedChunks results regardless of graph density.
const relatedLimit = 10

// Store is a SQLite-backed chunk graph store.
type Store struct {
	db   *sql.DB
	path string
	dims int
}

// NewStore opens (or creates) the database under dataDir and runs
// migrations. dims fixes the embedding dimensionality; zero accepts
// vectors of any length.
func NewStore(dataDir string, dims int) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ragweave", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "chunkgraph.db")

	// WAL mode for better concurrency between ingestion and queries.
	// Pragmas go in the DSN so every pooled connection gets them;
	// foreign keys drive the delete cascade from documents to edges.
	db, err := sql.Open("sqlite",
		dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath, dims: dims}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close(_ context.Context) error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// HasVectorIndex reports false: SQLite has no native vector index.
func (s *Store) HasVectorIndex() bool {
	return false
}

func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // skip files that don't match the pattern
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveDocument creates or replaces a document node.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.Document) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, filename, file_size, num_chunks, uploaded_at, status, repo_url, repo_name, file_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			file_size = excluded.file_size,
			num_chunks = excluded.num_chunks,
			uploaded_at = excluded.uploaded_at,
			status = excluded.status,
			repo_url = excluded.repo_url,
			repo_name = excluded.repo_name,
			file_count = excluded.file_count
	`, doc.ID, doc.Filename, doc.FileSize, doc.NumChunks, doc.UploadedAt,
		doc.Status, doc.RepoURL, doc.RepoName, doc.FileCount)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// SaveChunk creates or replaces a chunk node. The foreign key to its
// document is the relational rendering of the BELONGS_TO edge.
func (s *Store) SaveChunk(ctx context.Context, chunk *domain.Chunk) error {
	return s.SaveChunks(ctx, []domain.Chunk{*chunk})
}

// SaveChunks stores a batch of chunks in one transaction.
func (s *Store) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, content, chunk_index, embedding, position, length, file_path, language, file_chunk_index)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			content = excluded.content,
			chunk_index = excluded.chunk_index,
			embedding = excluded.embedding,
			position = excluded.position,
			length = excluded.length,
			file_path = excluded.file_path,
			language = excluded.language,
			file_chunk_index = excluded.file_chunk_index
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close() //nolint:errcheck

	for i := range chunks {
		chunk := &chunks[i]
		if s.dims > 0 && len(chunk.Embedding) > 0 && len(chunk.Embedding) != s.dims {
			return fmt.Errorf("chunk %s: %w: got %d, store expects %d",
				chunk.ID, domain.ErrDimensionMismatch, len(chunk.Embedding), s.dims)
		}

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID, chunk.Content,
			chunk.Index, float32SliceToBytes(chunk.Embedding), chunk.Position,
			chunk.Length, chunk.FilePath, chunk.Language, chunk.FileChunkIndex); err != nil {
			return fmt.Errorf("saving chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// CreateRelationship upserts a typed edge between two existing chunks.
func (s *Store) CreateRelationship(ctx context.Context, rel domain.Relationship) error {
	if !domain.ValidRelType(rel.Type) {
		return fmt.Errorf("%w: relationship type %q", domain.ErrInvalidInput, rel.Type)
	}

	props := rel.Properties
	if props == nil {
		props = map[string]any{}
	}
	propsJSON, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("marshalling properties: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO edges (source_id, target_id, rel_type, properties)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(source_id, target_id, rel_type) DO UPDATE SET
			properties = excluded.properties
	`, rel.SourceID, rel.TargetID, rel.Type, string(propsJSON))
	if err != nil {
		// Foreign key violations mean one of the endpoints is missing.
		if strings.Contains(err.Error(), "FOREIGN KEY") {
			return fmt.Errorf("chunk endpoint: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("creating relationship: %w", err)
	}
	return nil
}

// VectorSearch always reports the index as unavailable.
func (s *Store) VectorSearch(_ context.Context, _ []float32, _ int) ([]domain.SearchResult, error) {
	return nil, domain.ErrVectorIndexUnavailable
}

// AllChunks loads every embedded chunk with its owning document identity.
func (s *Store) AllChunks(ctx context.Context) ([]domain.ScoredChunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.content, c.chunk_index, c.embedding, c.document_id, d.filename
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE c.embedding IS NOT NULL
		ORDER BY c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var chunks []domain.ScoredChunk
	for rows.Next() {
		var c domain.ScoredChunk
		var blob []byte
		if err := rows.Scan(&c.ChunkID, &c.Content, &c.ChunkIndex, &blob, &c.DocumentID, &c.Filename); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		c.Embedding = bytesToFloat32Slice(blob)
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// GetDocumentChunks returns a document's chunks ordered by sequence index.
func (s *Store) GetDocumentChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, content, chunk_index, embedding, position, length, file_path, language, file_chunk_index
		FROM chunks WHERE document_id = ?
		ORDER BY chunk_index
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	chunks := make([]domain.Chunk, 0)
	for rows.Next() {
		var c domain.Chunk
		var blob []byte
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Content, &c.Index, &blob,
			&c.Position, &c.Length, &c.FilePath, &c.Language, &c.FileChunkIndex); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		c.Embedding = bytesToFloat32Slice(blob)
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// ListDocuments returns all documents with chunk counts, newest first.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.DocumentStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.filename, d.file_size, d.num_chunks, d.uploaded_at,
		       d.status, d.repo_url, d.repo_name, d.file_count,
		       COUNT(c.id) AS chunk_count
		FROM documents d
		LEFT JOIN chunks c ON c.document_id = d.id
		GROUP BY d.id
		ORDER BY d.uploaded_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	stats := make([]domain.DocumentStats, 0)
	for rows.Next() {
		var st domain.DocumentStats
		doc := &st.Document
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.FileSize, &doc.NumChunks,
			&doc.UploadedAt, &doc.Status, &doc.RepoURL, &doc.RepoName,
			&doc.FileCount, &st.ChunkCount); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return stats, nil
}

// DeleteDocument removes a document; chunks and edges cascade via
// foreign keys.
func (s *Store) DeleteDocument(ctx context.Context, documentID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", documentID); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// graphNode is a BFS frontier entry. The traversal passes through
// document nodes, but only chunk nodes are emitted as results.
type graphNode struct {
	id      string
	isChunk bool
}

// RelatedChunks runs a breadth-first traversal over the edges table in
// both directions plus the implicit chunk-document link, returning
// distinct chunks ordered by ascending hop distance and capped at 10
// results. Routing through the document node puts chunks of the same
// document two hops apart, matching the graph backend's traversal over
// BELONGS_TO.
func (s *Store) RelatedChunks(ctx context.Context, chunkID string, maxDepth int) ([]domain.RelatedChunk, error) {
	if maxDepth < 1 {
		maxDepth = 1
	}

	visited := map[string]bool{chunkID: true}
	frontier := []string{chunkID}
	related := make([]domain.RelatedChunk, 0)

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		next, err := s.neighbours(ctx, frontier, visited)
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, n := range next {
			frontier = append(frontier, n.id)
			if !n.isChunk {
				continue
			}
			c, err := s.chunkByID(ctx, n.id)
			if err != nil {
				return nil, err
			}
			related = append(related, domain.RelatedChunk{
				ChunkID:    c.ID,
				Content:    c.Content,
				ChunkIndex: c.Index,
				Distance:   depth,
			})
			if len(related) == relatedLimit {
				return related, nil
			}
		}
	}

	return related, nil
}

// neighbours returns unvisited nodes adjacent to any frontier node,
// marking them visited, in deterministic order. Adjacency covers edge
// rows in both directions and document membership in both directions.
func (s *Store) neighbours(ctx context.Context, frontier []string, visited map[string]bool) ([]graphNode, error) {
	placeholders := strings.Repeat("?,", len(frontier))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(frontier)*4)
	for i := 0; i < 4; i++ {
		for _, id := range frontier {
			args = append(args, id)
		}
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT target_id AS id, 1 AS is_chunk FROM edges WHERE source_id IN (%[1]s)
		UNION
		SELECT source_id, 1 FROM edges WHERE target_id IN (%[1]s)
		UNION
		SELECT document_id, 0 FROM chunks WHERE id IN (%[1]s)
		UNION
		SELECT id, 1 FROM chunks WHERE document_id IN (%[1]s)
		ORDER BY id
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("querying neighbours: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var next []graphNode
	for rows.Next() {
		var id string
		var isChunk int
		if err := rows.Scan(&id, &isChunk); err != nil {
			return nil, fmt.Errorf("scanning neighbour: %w", err)
		}
		if visited[id] {
			continue
		}
		visited[id] = true
		next = append(next, graphNode{id: id, isChunk: isChunk == 1})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating neighbours: %w", err)
	}
	return next, nil
}

// chunkByID loads the fields RelatedChunks needs.
func (s *Store) chunkByID(ctx context.Context, id string) (*domain.Chunk, error) {
	var c domain.Chunk
	row := s.db.QueryRowContext(ctx,
		"SELECT id, content, chunk_index FROM chunks WHERE id = ?", id)
	if err := row.Scan(&c.ID, &c.Content, &c.Index); err != nil {
		return nil, fmt.Errorf("loading chunk %s: %w", id, err)
	}
	return &c, nil
}

// float32SliceToBytes encodes an embedding as little-endian bytes for
// BLOB storage. Nil input stays nil so SQL NULL survives the round trip.
func float32SliceToBytes(floats []float32) []byte {
	if floats == nil {
		return nil
	}
	bytes := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(bytes[i*4:], math.Float32bits(f))
	}
	return bytes
}

// bytesToFloat32Slice decodes a BLOB embedding.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
