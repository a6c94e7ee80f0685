// Package postprocessors builds the text processors applied after extraction.
package postprocessors

import (
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/postprocessors/chunker"
)

// NewChunker creates the chunker described by settings. Zero values fall
// back to the chunker defaults.
func NewChunker(s domain.ChunkerSettings) driven.Chunker {
	var opts []chunker.Option
	if s.ChunkSize > 0 {
		opts = append(opts, chunker.WithChunkSize(s.ChunkSize))
	}
	if s.Overlap >= 0 {
		opts = append(opts, chunker.WithOverlap(s.Overlap))
	}
	return chunker.New(opts...)
}
