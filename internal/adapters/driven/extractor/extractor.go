// Package extractor converts files on disk into plain text for the
// ingestion pipeline, dispatching on file extension.
package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ragweave/ragweave/internal/core/domain"
	"github.com/ragweave/ragweave/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// textExtensions lists extensions whose content is already plain text.
// Code files are deliberately included: the repository ingestion path
// feeds source files through the same extractor.
var textExtensions = map[string]bool{
	".txt":   true,
	".md":    true,
	".rst":   true,
	".csv":   true,
	".log":   true,
	".json":  true,
	".yaml":  true,
	".yml":   true,
	".toml":  true,
	".xml":   true,
	".html":  true,
	".css":   true,
	".go":    true,
	".py":    true,
	".js":    true,
	".ts":    true,
	".tsx":   true,
	".jsx":   true,
	".java":  true,
	".c":     true,
	".h":     true,
	".cpp":   true,
	".hpp":   true,
	".rs":    true,
	".rb":    true,
	".php":   true,
	".swift": true,
	".kt":    true,
	".scala": true,
	".sh":    true,
	".sql":   true,
}

// Extractor reads plain-text formats straight off disk.
type Extractor struct{}

// New creates a new text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Supported reports whether the extractor handles the given filename.
func (e *Extractor) Supported(filename string) bool {
	return textExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Extract reads the file at path and returns its text content. The
// filename, not the path, decides the format: uploads often live in
// temp files with meaningless names.
func (e *Extractor) Extract(ctx context.Context, path, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !textExtensions[ext] {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", filename, err)
	}
	return string(content), nil
}
