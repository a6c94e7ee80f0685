package driven

import "github.com/custodia-labs/studymate/internal/core/domain"

// Chunker splits document text into overlapping, bounded-size chunks.
type Chunker interface {
	// Chunk splits text in reading order. Chunk IDs start at 0.
	Chunk(filename, text string) []domain.Chunk

	// Size returns the chunk size in characters.
	Size() int

	// Overlap returns the overlap between adjacent chunks in characters.
	Overlap() int
}
