package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

// Session is the shared state of a study session: the registry of loaded
// documents and the index holding their chunks. The two are only mutated
// together under the write lock so readers never see a document without
// its chunks or the reverse.
type Session struct {
	mu    sync.RWMutex
	store driven.DocumentStore
	index driven.Index
}

// NewSession creates a session over the given store and index.
func NewSession(store driven.DocumentStore, index driven.Index) *Session {
	return &Session{store: store, index: index}
}

// Index returns the chunk index.
func (s *Session) Index() driven.Index {
	return s.index
}

// DocumentCount returns the number of loaded documents.
func (s *Session) DocumentCount(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Count(ctx)
}

// retrieve runs a query against the index under the read lock.
// It returns the number of loaded documents alongside the results.
func (s *Session) retrieve(ctx context.Context, query string, k int) (int, []domain.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := s.store.Count(ctx)
	if count == 0 {
		return 0, nil, nil
	}
	results, err := s.index.Retrieve(ctx, query, k)
	return count, results, err
}

// snapshot returns every indexed chunk in document order under the read lock.
func (s *Session) snapshot(ctx context.Context) (int, []domain.Chunk) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Count(ctx), s.index.All()
}
