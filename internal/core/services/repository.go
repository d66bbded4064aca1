package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ragweave/ragweave/internal/core/domain"
	"github.com/ragweave/ragweave/internal/logger"
)

// defaultMaxRepoFileSize is the per-file ceiling for repository
// ingestion when no limit is configured. Larger files are almost always
// generated artifacts or data blobs.
const defaultMaxRepoFileSize = 1 << 20 // 1 MiB

// codeExtensions is the allow-list of file extensions processed during
// repository ingestion.
var codeExtensions = map[string]bool{
	".py": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".java": true, ".cpp": true, ".c": true, ".h": true, ".cs": true,
	".go": true, ".rs": true, ".rb": true, ".php": true, ".swift": true,
	".kt": true, ".scala": true, ".html": true, ".css": true, ".scss": true,
	".sass": true, ".vue": true, ".sql": true, ".sh": true, ".bash": true,
	".yaml": true, ".yml": true, ".json": true, ".xml": true, ".md": true,
	".txt": true, ".env": true, ".toml": true, ".ini": true, ".cfg": true,
	".conf": true, ".dockerfile": true, ".makefile": true, ".gradle": true,
}

// skipDirs is the deny-list of directory names skipped during traversal:
// build artifacts, dependency caches and version-control metadata.
var skipDirs = map[string]bool{
	".git": true, "node_modules": true, "__pycache__": true, ".venv": true,
	"venv": true, "env": true, "dist": true, "build": true, "target": true,
	".idea": true, ".vscode": true, "coverage": true, ".pytest_cache": true,
	".mypy_cache": true, "vendor": true, "packages": true,
}

// extLanguages maps file extensions to display language names used for
// chunk provenance headers.
var extLanguages = map[string]string{
	".py": "Python", ".js": "JavaScript", ".jsx": "React JSX",
	".ts": "TypeScript", ".tsx": "React TSX", ".java": "Java",
	".cpp": "C++", ".c": "C", ".h": "C/C++ Header", ".cs": "C#",
	".go": "Go", ".rs": "Rust", ".rb": "Ruby", ".php": "PHP",
	".swift": "Swift", ".kt": "Kotlin", ".scala": "Scala",
	".html": "HTML", ".css": "CSS", ".scss": "SCSS", ".vue": "Vue",
	".sql": "SQL", ".sh": "Shell", ".bash": "Bash", ".yaml": "YAML",
	".yml": "YAML", ".json": "JSON", ".xml": "XML", ".md": "Markdown",
}

// repoFile is one eligible file discovered in a cloned repository.
type repoFile struct {
	relPath  string
	language string
	content  string
	size     int64
}

// IngestRepository clones the repository at url into an ephemeral
// workspace, chunks every eligible file with a provenance header, embeds
// all chunks in a single batched call, and persists them with
// NEXT_IN_FILE edges between consecutive chunks of the same file.
//
// The clone directory is removed on every exit path.
func (s *IngestService) IngestRepository(ctx context.Context, url string) (*domain.IngestResult, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	documentID := uuid.New().String()
	uploadedAt := s.now()
	repoName := RepoName(url)

	logger.Section("Repository Ingestion")
	logger.Info("Processing repository %s from %s", repoName, url)

	dir, cleanup, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch repository: %w", err)
	}
	defer cleanup()

	files, totalSize, err := collectRepoFiles(dir, s.maxFileSize)
	if err != nil {
		return nil, fmt.Errorf("scan repository: %w", err)
	}
	if len(files) == 0 {
		return nil, domain.ErrNoEligibleFiles
	}
	logger.Info("Found %d code files to process", len(files))

	filename := "GitHub: " + repoName
	doc := &domain.Document{
		ID:         documentID,
		Filename:   filename,
		FileSize:   totalSize,
		UploadedAt: uploadedAt,
		Status:     domain.StatusPending,
		RepoURL:    url,
		RepoName:   repoName,
		FileCount:  len(files),
	}
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	// One ordered batch across all files: file order, then position within
	// the file. The global index drives chunk identity; the per-file index
	// is kept as provenance metadata.
	var chunks []domain.Chunk
	for _, f := range files {
		header := fmt.Sprintf("# File: %s\n# Language: %s\n# Lines: %d\n\n",
			f.relPath, f.language, lineCount(f.content))

		for fileIdx, content := range s.splitter.Split(header + f.content) {
			idx := len(chunks)
			chunks = append(chunks, domain.Chunk{
				ID:             domain.ChunkID(documentID, idx),
				DocumentID:     documentID,
				Content:        content,
				Index:          idx,
				Length:         len(content),
				FilePath:       f.relPath,
				Language:       f.language,
				FileChunkIndex: fileIdx,
			})
		}
	}
	logger.Info("Created %d chunks from %d files", len(chunks), len(files))

	doc.NumChunks = len(chunks)
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}

	logger.Info("Generating embeddings for %d chunks", len(chunks))
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	if err := s.store.SaveChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("save chunks: %w", err)
	}

	// NEXT_IN_FILE only between consecutive chunks of the same file;
	// chunks are never linked across file boundaries.
	for i := 0; i < len(chunks)-1; i++ {
		if chunks[i].FilePath != chunks[i+1].FilePath {
			continue
		}
		rel := domain.Relationship{
			SourceID:   chunks[i].ID,
			TargetID:   chunks[i+1].ID,
			Type:       domain.RelNextInFile,
			Properties: map[string]any{"file_path": chunks[i].FilePath},
		}
		if err := s.store.CreateRelationship(ctx, rel); err != nil {
			return nil, fmt.Errorf("link chunks %d->%d: %w", i, i+1, err)
		}
	}

	doc.Status = domain.StatusComplete
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("finalise document: %w", err)
	}

	logger.Info("Successfully processed repository %s", repoName)

	return &domain.IngestResult{
		ID:            documentID,
		Filename:      filename,
		Size:          totalSize,
		UploadedAt:    uploadedAt,
		ChunksCreated: len(chunks),
		Status:        "success",
		RepoURL:       url,
		RepoName:      repoName,
		FileCount:     len(files),
	}, nil
}

// collectRepoFiles walks root and returns every eligible file no larger
// than maxSize bytes in deterministic (lexical walk) order, plus their
// combined byte size. Unreadable and empty files are skipped with a
// warning.
func collectRepoFiles(root string, maxSize int64) ([]repoFile, int64, error) {
	var files []repoFile
	var totalSize int64

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !codeExtensions[ext] {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > maxSize {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Could not read %s: %v", path, err)
			return nil
		}
		content := string(data)
		if strings.TrimSpace(content) == "" {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		files = append(files, repoFile{
			relPath:  filepath.ToSlash(relPath),
			language: fileLanguage(ext),
			content:  content,
			size:     info.Size(),
		})
		totalSize += info.Size()
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return files, totalSize, nil
}

// lineCount counts lines the way editors do: a trailing newline ends the
// last line rather than starting an empty one.
func lineCount(content string) int {
	return strings.Count(strings.TrimSuffix(content, "\n"), "\n") + 1
}

// fileLanguage returns the display language for a file extension.
func fileLanguage(ext string) string {
	if lang, ok := extLanguages[ext]; ok {
		return lang
	}
	return "Text"
}

// RepoName extracts a repository name from its URL, handling trailing
// slashes, ".git" suffixes and ssh-style "host:user/repo" forms.
func RepoName(url string) string {
	url = strings.TrimRight(url, "/")
	url = strings.TrimSuffix(url, ".git")

	parts := strings.Split(strings.ReplaceAll(url, ":", "/"), "/")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return "unknown-repo"
	}
	return parts[len(parts)-1]
}
