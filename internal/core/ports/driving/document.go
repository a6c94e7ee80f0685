package driving

import (
	"context"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// ProgressFunc receives incremental upload progress. It may be nil.
type ProgressFunc func(domain.UploadProgress)

// UploadRequest describes a PDF to load into the session.
type UploadRequest struct {
	Filename string
	Data     []byte
	// Source records the origin; defaults to "upload".
	Source string
}

// DocumentService manages the documents loaded in the session.
type DocumentService interface {
	// Upload extracts, chunks and indexes a PDF, then registers it.
	Upload(ctx context.Context, req UploadRequest, progress ProgressFunc) (*domain.DocumentSummary, error)

	// List returns the loaded documents in upload order.
	List(ctx context.Context) ([]domain.DocumentSummary, error)

	// Get returns a loaded document.
	Get(ctx context.Context, filename string) (*domain.Document, error)

	// Delete removes a document and its chunks. Unknown filenames fail with NotFoundError.
	Delete(ctx context.Context, filename string) error

	// Clear ends the session, dropping every document.
	Clear(ctx context.Context) error

	// Uploads returns the progress of uploads currently in flight.
	Uploads() []domain.UploadProgress
}
