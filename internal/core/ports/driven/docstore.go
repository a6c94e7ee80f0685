package driven

import (
	"context"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// DocumentStore is the session registry of loaded documents, keyed by filename.
type DocumentStore interface {
	// Save registers a document. It fails with DuplicateDocumentError when
	// the filename is already present.
	Save(ctx context.Context, doc *domain.Document, chunkCount int) error

	// Get retrieves a document by filename. Fails with NotFoundError.
	Get(ctx context.Context, filename string) (*domain.Document, error)

	// Exists reports whether a filename is loaded.
	Exists(ctx context.Context, filename string) bool

	// List returns summaries in insertion order.
	List(ctx context.Context) ([]domain.DocumentSummary, error)

	// Delete removes a document. Fails with NotFoundError.
	Delete(ctx context.Context, filename string) error

	// Count returns the number of loaded documents.
	Count(ctx context.Context) int

	// Clear removes every document.
	Clear(ctx context.Context) error
}
