package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

type storedDocument struct {
	doc        domain.Document
	chunkCount int
}

// DocumentStore is the in-memory registry of session documents.
// Filenames are unique; listing follows insertion order.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]storedDocument
	order     []string
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]storedDocument),
	}
}

// Save registers a document under its filename.
func (s *DocumentStore) Save(_ context.Context, doc *domain.Document, chunkCount int) error {
	if doc == nil || doc.Filename == "" {
		return domain.NewValidationError("filename", "must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[doc.Filename]; ok {
		return &domain.DuplicateDocumentError{Filename: doc.Filename}
	}
	s.documents[doc.Filename] = storedDocument{doc: *doc, chunkCount: chunkCount}
	s.order = append(s.order, doc.Filename)
	return nil
}

// Get retrieves a document by filename.
func (s *DocumentStore) Get(_ context.Context, filename string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.documents[filename]
	if !ok {
		return nil, &domain.NotFoundError{Filename: filename}
	}
	doc := stored.doc
	return &doc, nil
}

// Exists reports whether filename is loaded.
func (s *DocumentStore) Exists(_ context.Context, filename string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.documents[filename]
	return ok
}

// List returns document summaries in insertion order.
func (s *DocumentStore) List(_ context.Context) ([]domain.DocumentSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.DocumentSummary, 0, len(s.order))
	for _, name := range s.order {
		stored := s.documents[name]
		result = append(result, domain.DocumentSummary{
			Filename:   stored.doc.Filename,
			ChunkCount: stored.chunkCount,
			Pages:      len(stored.doc.Pages),
			Source:     stored.doc.Source,
			CreatedAt:  stored.doc.CreatedAt,
		})
	}
	return result, nil
}

// Delete removes a document.
func (s *DocumentStore) Delete(_ context.Context, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[filename]; !ok {
		return &domain.NotFoundError{Filename: filename}
	}
	delete(s.documents, filename)
	for i, name := range s.order {
		if name == filename {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Count returns the number of loaded documents.
func (s *DocumentStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}

// Clear removes every document.
func (s *DocumentStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = make(map[string]storedDocument)
	s.order = nil
	return nil
}
