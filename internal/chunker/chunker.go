// Package chunker provides a fixed-size text splitter with overlap.
package chunker

import (
	"fmt"

	"github.com/ragweave/ragweave/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Chunker splits text into fixed-size chunks with overlap. It is a
// stateless function of its inputs: the same text always yields the
// same chunks.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		c.chunkSize = size
	}
}

// WithOverlap sets the overlap between adjacent chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		c.overlap = overlap
	}
}

// New creates a chunker with the given options.
//
// A chunk size that is not positive, a negative overlap, or an overlap
// that is not strictly less than the chunk size is rejected: such
// parameters would make the cursor fail to advance.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", domain.ErrInvalidInput, c.chunkSize)
	}
	if c.overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d must be non-negative", domain.ErrInvalidInput, c.overlap)
	}
	if c.overlap >= c.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be less than chunk size %d", domain.ErrInvalidInput, c.overlap, c.chunkSize)
	}

	return c, nil
}

// ChunkSize returns the configured chunk size.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split cuts text into ordered chunks of at most chunkSize characters,
// each starting overlap characters before the previous chunk ended.
// The final chunk may be shorter. Empty text yields no chunks.
//
// Splitting is purely positional, with no awareness of sentence or
// paragraph boundaries. Positions are counted in runes so multi-byte
// text never splits mid-character.
func (c *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	textLen := len(runes)
	step := c.chunkSize - c.overlap

	chunks := make([]string, 0, textLen/step+1)

	for start := 0; start < textLen; start += step {
		end := start + c.chunkSize
		if end > textLen {
			end = textLen
		}

		chunks = append(chunks, string(runes[start:end]))

		// The text is fully covered; a further chunk would lie entirely
		// inside this one's overlap window.
		if end == textLen {
			break
		}
	}

	return chunks
}
