package driven

import (
	"context"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// ScoreFunc scores a chunk against a prepared query.
type ScoreFunc func(chunk domain.Chunk) float64

// Similarity is the capability shared by the dense and lexical strategies.
// One implementation is chosen at configuration time.
type Similarity interface {
	// Name identifies the strategy (e.g. "dense", "lexical").
	Name() string

	// Prepare computes the per-chunk representation at ingestion time,
	// filling Embedding or Terms in place. It must not partially fill on error.
	Prepare(ctx context.Context, chunks []domain.Chunk) error

	// Scorer prepares the query once and returns the scoring function.
	Scorer(ctx context.Context, query string) (ScoreFunc, error)
}

// Index holds the chunks of every loaded document.
// Add and Remove are atomic; Retrieve is read-only.
type Index interface {
	// Add makes all chunks of a document visible at once, replacing any
	// chunks previously held for the same filename.
	Add(ctx context.Context, filename string, chunks []domain.Chunk) error

	// Remove drops all chunks of a document. Unknown filenames are a no-op.
	Remove(ctx context.Context, filename string) error

	// Retrieve returns the top k chunks by descending score, ties broken by
	// ascending chunk ID then filename. An empty index yields an empty slice.
	Retrieve(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error)

	// Chunks returns the chunks of one document in order.
	Chunks(filename string) []domain.Chunk

	// All returns every chunk, grouped by document in insertion order.
	All() []domain.Chunk

	// Len returns the total number of chunks.
	Len() int
}
