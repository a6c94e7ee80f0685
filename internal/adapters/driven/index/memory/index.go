// Package memory provides the in-process chunk index.
//
// The index scores every chunk on each query. Corpora are a handful of
// course PDFs, so a linear scan is fast enough and keeps retrieval exact.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.Index = (*Index)(nil)

// Index holds chunks grouped by document filename.
type Index struct {
	mu         sync.RWMutex
	similarity driven.Similarity
	chunks     map[string][]domain.Chunk
	order      []string
}

// New creates an empty index that ranks with similarity.
func New(similarity driven.Similarity) *Index {
	return &Index{
		similarity: similarity,
		chunks:     make(map[string][]domain.Chunk),
	}
}

// Similarity returns the strategy the index ranks with.
func (x *Index) Similarity() driven.Similarity {
	return x.similarity
}

// Add makes the chunks of filename visible in one step, replacing any
// chunks already held for it.
func (x *Index) Add(_ context.Context, filename string, chunks []domain.Chunk) error {
	if filename == "" {
		return domain.NewValidationError("filename", "must not be empty")
	}
	for i := range chunks {
		if chunks[i].DocumentFilename != filename {
			return fmt.Errorf("chunk %d belongs to %q, not %q: %w",
				chunks[i].ID, chunks[i].DocumentFilename, filename, domain.ErrValidation)
		}
	}

	owned := slices.Clone(chunks)

	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.chunks[filename]; !ok {
		x.order = append(x.order, filename)
	}
	x.chunks[filename] = owned
	return nil
}

// Remove drops the chunks of filename. Unknown filenames are ignored.
func (x *Index) Remove(_ context.Context, filename string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.chunks[filename]; !ok {
		return nil
	}
	delete(x.chunks, filename)
	x.order = slices.DeleteFunc(x.order, func(name string) bool { return name == filename })
	return nil
}

// Retrieve scores every chunk against query and returns the best k.
func (x *Index) Retrieve(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error) {
	if k < 1 {
		return nil, domain.NewValidationError("k", "must be at least 1, got %d", k)
	}

	all := x.All()
	if len(all) == 0 {
		return []domain.ScoredChunk{}, nil
	}

	// Query preparation may call an embedding service; no lock is held.
	score, err := x.similarity.Scorer(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("prepare query: %w", err)
	}

	scored := make([]domain.ScoredChunk, len(all))
	for i, ch := range all {
		scored[i] = domain.ScoredChunk{Chunk: ch, Score: score(ch)}
	}
	slices.SortFunc(scored, func(a, b domain.ScoredChunk) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})

	if k < len(scored) {
		scored = scored[:k]
	}
	logger.Debug("index: %s retrieved %d of %d chunks", x.similarity.Name(), len(scored), len(all))
	return scored, nil
}

// Chunks returns a copy of the chunks of filename in order.
func (x *Index) Chunks(filename string) []domain.Chunk {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return slices.Clone(x.chunks[filename])
}

// All returns every chunk, documents in insertion order.
func (x *Index) All() []domain.Chunk {
	x.mu.RLock()
	defer x.mu.RUnlock()
	var total int
	for _, cs := range x.chunks {
		total += len(cs)
	}
	all := make([]domain.Chunk, 0, total)
	for _, name := range x.order {
		all = append(all, x.chunks[name]...)
	}
	return all
}

// Len returns the number of chunks held.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	var total int
	for _, cs := range x.chunks {
		total += len(cs)
	}
	return total
}
