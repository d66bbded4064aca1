package driven

import "context"

// TextExtractor converts a raw file into plain text.
//
// Extensions no extractor handles are rejected with
// domain.ErrUnsupportedFormat; that is a caller error, never retried.
type TextExtractor interface {
	// Extract reads the file at path and returns its text content.
	// The filename carries the extension used for format dispatch.
	Extract(ctx context.Context, path, filename string) (string, error)
}
