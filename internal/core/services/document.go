package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService loads PDFs into the session.
type DocumentService struct {
	session    *Session
	extractor  driven.TextExtractor
	chunker    driven.Chunker
	similarity driven.Similarity
	policy     domain.DuplicatePolicy

	// Status tracking
	uploadsMu sync.RWMutex
	uploads   map[string]*domain.UploadProgress
}

// NewDocumentService creates a new document service.
// An invalid duplicate policy falls back to reject.
func NewDocumentService(
	session *Session,
	extractor driven.TextExtractor,
	chunker driven.Chunker,
	similarity driven.Similarity,
	policy domain.DuplicatePolicy,
) *DocumentService {
	if !policy.IsValid() {
		policy = domain.DuplicateReject
	}
	return &DocumentService{
		session:    session,
		extractor:  extractor,
		chunker:    chunker,
		similarity: similarity,
		policy:     policy,
		uploads:    make(map[string]*domain.UploadProgress),
	}
}

// Upload extracts, chunks and indexes a PDF, then registers it.
//
//nolint:gocyclo // Ingestion pipeline with necessary sequential steps
func (s *DocumentService) Upload(
	ctx context.Context,
	req driving.UploadRequest,
	progress driving.ProgressFunc,
) (*domain.DocumentSummary, error) {
	filename, err := validateUpload(req)
	if err != nil {
		return nil, err
	}

	logger.Section("Document Upload")
	logger.Debug("File: %s (%d bytes, source %q)", filename, len(req.Data), req.Source)

	// Fail fast before extraction; the authoritative check happens under the lock.
	if s.policy == domain.DuplicateReject && s.exists(ctx, filename) {
		return nil, &domain.DuplicateDocumentError{Filename: filename}
	}
	if !s.beginUpload(filename) {
		return nil, &domain.DuplicateDocumentError{Filename: filename}
	}
	defer s.endUpload(filename)

	report := func(stage domain.UploadStage, current, total int, err error) {
		p := domain.UploadProgress{Filename: filename, Stage: stage, Current: current, Total: total, Err: err}
		s.setProgress(p)
		if progress != nil {
			progress(p)
		}
	}
	fail := func(err error) (*domain.DocumentSummary, error) {
		report(domain.UploadStageFailed, 0, 0, err)
		logger.Debug("Upload of %s failed: %v", filename, err)
		return nil, err
	}

	// 1. Extract text
	report(domain.UploadStageExtracting, 0, 0, nil)
	pages, err := s.extractor.Extract(ctx, req.Data)
	if err != nil {
		var extractErr *domain.ExtractionError
		if errors.As(err, &extractErr) && extractErr.Filename == "" {
			extractErr.Filename = filename
		}
		return fail(err)
	}
	report(domain.UploadStageExtracting, len(pages), len(pages), nil)
	logger.Debug("Extracted %d page(s)", len(pages))

	doc := domain.NewDocument(filename, pages, req.Source)

	// 2. Chunk
	report(domain.UploadStageChunking, 0, 0, nil)
	chunks := s.chunker.Chunk(filename, doc.RawText)
	if len(chunks) == 0 {
		return fail(&domain.ExtractionError{Filename: filename, Reason: "no text to index"})
	}
	report(domain.UploadStageChunking, len(chunks), len(chunks), nil)
	logger.Debug("Created %d chunk(s) (size %d, overlap %d)", len(chunks), s.chunker.Size(), s.chunker.Overlap())

	// 3. Prepare chunk representations (embeddings or term maps)
	report(domain.UploadStageIndexing, 0, len(chunks), nil)
	if err := s.similarity.Prepare(ctx, chunks); err != nil {
		return fail(fmt.Errorf("prepare chunks with %s similarity: %w", s.similarity.Name(), err))
	}
	report(domain.UploadStageIndexing, len(chunks), len(chunks), nil)

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	// 4. Commit to store and index together
	report(domain.UploadStageStoring, 0, 1, nil)
	if err := s.commit(ctx, doc, chunks); err != nil {
		return fail(err)
	}

	summary := &domain.DocumentSummary{
		Filename:   doc.Filename,
		ChunkCount: len(chunks),
		Pages:      len(doc.Pages),
		Source:     doc.Source,
		CreatedAt:  doc.CreatedAt,
	}
	report(domain.UploadStageDone, 1, 1, nil)
	logger.Info("Loaded %s: %d page(s), %d chunk(s)", filename, summary.Pages, summary.ChunkCount)

	return summary, nil
}

// commit registers the document and its chunks under one write lock.
// With the replace policy the previous version is swapped out; any failure
// restores the previous state.
func (s *DocumentService) commit(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	s.session.mu.Lock()
	defer s.session.mu.Unlock()

	store, index := s.session.store, s.session.index

	var (
		previous       *domain.Document
		previousChunks []domain.Chunk
	)
	if store.Exists(ctx, doc.Filename) {
		if s.policy == domain.DuplicateReject {
			return &domain.DuplicateDocumentError{Filename: doc.Filename}
		}
		old, err := store.Get(ctx, doc.Filename)
		if err != nil {
			return fmt.Errorf("load previous version: %w", err)
		}
		previous = old
		previousChunks = index.Chunks(doc.Filename)
		if err := store.Delete(ctx, doc.Filename); err != nil {
			return fmt.Errorf("remove previous version: %w", err)
		}
		logger.Debug("Replacing previously loaded %s", doc.Filename)
	}

	// Add replaces any chunks held for the filename atomically.
	if err := index.Add(ctx, doc.Filename, chunks); err != nil {
		s.restore(ctx, previous, previousChunks)
		return fmt.Errorf("index chunks: %w", err)
	}
	if err := store.Save(ctx, doc, len(chunks)); err != nil {
		_ = index.Remove(ctx, doc.Filename)
		s.restore(ctx, previous, previousChunks)
		return fmt.Errorf("store document: %w", err)
	}
	return nil
}

// restore puts back a replaced document. Must be called with the write lock held.
func (s *DocumentService) restore(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) {
	if doc == nil {
		return
	}
	if err := s.session.index.Add(ctx, doc.Filename, chunks); err != nil {
		logger.Warn("Failed to restore chunks of %s: %v", doc.Filename, err)
		return
	}
	if err := s.session.store.Save(ctx, doc, len(chunks)); err != nil {
		logger.Warn("Failed to restore %s: %v", doc.Filename, err)
	}
}

// List returns the loaded documents in upload order.
func (s *DocumentService) List(ctx context.Context) ([]domain.DocumentSummary, error) {
	s.session.mu.RLock()
	defer s.session.mu.RUnlock()
	return s.session.store.List(ctx)
}

// Get returns a loaded document.
func (s *DocumentService) Get(ctx context.Context, filename string) (*domain.Document, error) {
	s.session.mu.RLock()
	defer s.session.mu.RUnlock()
	return s.session.store.Get(ctx, filename)
}

// Delete removes a document and its chunks.
func (s *DocumentService) Delete(ctx context.Context, filename string) error {
	s.session.mu.Lock()
	defer s.session.mu.Unlock()

	if err := s.session.store.Delete(ctx, filename); err != nil {
		return err
	}
	if err := s.session.index.Remove(ctx, filename); err != nil {
		return fmt.Errorf("remove chunks: %w", err)
	}
	logger.Debug("Deleted %s", filename)
	return nil
}

// Clear drops every document and chunk.
func (s *DocumentService) Clear(ctx context.Context) error {
	s.session.mu.Lock()
	defer s.session.mu.Unlock()

	summaries, err := s.session.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	for _, sum := range summaries {
		if err := s.session.index.Remove(ctx, sum.Filename); err != nil {
			return fmt.Errorf("remove chunks of %s: %w", sum.Filename, err)
		}
	}
	if err := s.session.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear documents: %w", err)
	}
	logger.Debug("Cleared %d document(s)", len(summaries))
	return nil
}

// Uploads returns the progress of uploads currently in flight, by filename.
func (s *DocumentService) Uploads() []domain.UploadProgress {
	s.uploadsMu.RLock()
	defer s.uploadsMu.RUnlock()

	out := make([]domain.UploadProgress, 0, len(s.uploads))
	for _, p := range s.uploads {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out
}

func (s *DocumentService) exists(ctx context.Context, filename string) bool {
	s.session.mu.RLock()
	defer s.session.mu.RUnlock()
	return s.session.store.Exists(ctx, filename)
}

// beginUpload marks a filename as in flight. It returns false when an upload
// of the same filename is already running.
func (s *DocumentService) beginUpload(filename string) bool {
	s.uploadsMu.Lock()
	defer s.uploadsMu.Unlock()
	if _, running := s.uploads[filename]; running {
		return false
	}
	s.uploads[filename] = &domain.UploadProgress{Filename: filename, Stage: domain.UploadStageExtracting}
	return true
}

func (s *DocumentService) endUpload(filename string) {
	s.uploadsMu.Lock()
	defer s.uploadsMu.Unlock()
	delete(s.uploads, filename)
}

func (s *DocumentService) setProgress(p domain.UploadProgress) {
	s.uploadsMu.Lock()
	defer s.uploadsMu.Unlock()
	if _, running := s.uploads[p.Filename]; running {
		s.uploads[p.Filename] = &p
	}
}

// validateUpload checks the request and returns the filename used as the key.
func validateUpload(req driving.UploadRequest) (string, error) {
	filename := strings.TrimSpace(path.Base(strings.ReplaceAll(strings.TrimSpace(req.Filename), `\`, "/")))
	if filename == "" || filename == "." || filename == "/" {
		return "", domain.NewValidationError("filename", "must not be empty")
	}
	if !strings.EqualFold(path.Ext(filename), ".pdf") {
		return "", domain.NewValidationError("filename", "%q is not a PDF file", filename)
	}
	if len(req.Data) == 0 {
		return "", domain.NewValidationError("data", "file %q is empty", filename)
	}
	return filename, nil
}
