package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Ensure ImportService implements the interface.
var _ driving.ImportService = (*ImportService)(nil)

// ImportService downloads remote PDFs and uploads them unchanged.
// Fetchers are tried in registration order; the first that supports a
// reference handles it.
type ImportService struct {
	documents driving.DocumentService
	fetchers  []driven.MaterialFetcher
}

// NewImportService creates a new import service.
func NewImportService(documents driving.DocumentService, fetchers ...driven.MaterialFetcher) *ImportService {
	return &ImportService{documents: documents, fetchers: fetchers}
}

// Import downloads a material by reference and uploads it.
func (s *ImportService) Import(
	ctx context.Context,
	ref string,
	progress driving.ProgressFunc,
) (*domain.DocumentSummary, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domain.NewValidationError("url", "must not be empty")
	}

	for _, f := range s.fetchers {
		if f == nil || !f.Supports(ref) {
			continue
		}
		logger.Debug("Fetching %s with %s fetcher", ref, f.Name())
		material, err := f.Fetch(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", ref, err)
		}
		return s.documents.Upload(ctx, driving.UploadRequest{
			Filename: material.Filename,
			Data:     material.Data,
			Source:   material.Source,
		}, progress)
	}
	return nil, domain.NewValidationError("url", "no importer handles %q", ref)
}
