// Package chunker splits document text into fixed-size overlapping windows.
package chunker

import (
	"strings"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 100

// Ensure Chunker implements the interface.
var _ driven.Chunker = (*Chunker)(nil)

// Chunker cuts text into windows of chunkSize runes. Adjacent windows share
// exactly overlap runes, and the last window ends at the end of the text.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must stay below chunk size or the window never advances
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Size returns the chunk size in characters.
func (c *Chunker) Size() int { return c.chunkSize }

// Overlap returns the overlap in characters.
func (c *Chunker) Overlap() int { return c.overlap }

// Chunk splits text in reading order. IDs run 0..n-1 and Position is the
// rune offset of each window in text. Invalid UTF-8 bytes are dropped, so
// chunk text is always valid UTF-8. Empty text yields no chunks.
func (c *Chunker) Chunk(filename, text string) []domain.Chunk {
	text = strings.ToValidUTF8(text, "")
	if text == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)
	step := c.chunkSize - c.overlap

	chunks := make([]domain.Chunk, 0, total/step+1)
	for start := 0; ; start += step {
		end := min(start+c.chunkSize, total)

		chunks = append(chunks, domain.Chunk{
			ID:               len(chunks),
			DocumentFilename: filename,
			Text:             string(runes[start:end]),
			Position:         start,
		})

		if end == total {
			break
		}
	}

	return chunks
}

// Reassemble joins chunks produced with the given overlap back into the
// original text.
func Reassemble(chunks []domain.Chunk, overlap int) string {
	if len(chunks) == 0 {
		return ""
	}
	out := []rune(chunks[0].Text)
	for _, ch := range chunks[1:] {
		r := []rune(ch.Text)
		if overlap < len(r) {
			out = append(out, r[overlap:]...)
		}
	}
	return string(out)
}
