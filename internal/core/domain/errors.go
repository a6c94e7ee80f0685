package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateDocument indicates a document with the same filename is loaded.
	ErrDuplicateDocument = errors.New("duplicate document")

	// ErrValidation indicates malformed or invalid caller input.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidInput is kept as an alias for adapters that report bad input.
	ErrInvalidInput = ErrValidation

	// ErrExtraction indicates a PDF could not be read or has no text layer.
	ErrExtraction = errors.New("text extraction failed")

	// ErrInsufficientContent indicates an operation needs loaded documents.
	ErrInsufficientContent = errors.New("insufficient content")

	// ErrGeneration indicates the text generation service failed after retries.
	ErrGeneration = errors.New("generation failed")

	// ErrMalformedOutput indicates generated text did not match the expected structure.
	ErrMalformedOutput = errors.New("malformed model output")

	// ErrPartialQuiz indicates fewer well-formed questions than requested.
	ErrPartialQuiz = errors.New("partial quiz")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Dense retrieval is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrAuthRequired indicates a material source needs a login first.
	ErrAuthRequired = errors.New("authentication required")

	// ErrHistoryDisabled indicates history storage is turned off.
	ErrHistoryDisabled = errors.New("history is disabled")

	// ErrUnsupportedType indicates an unsupported file or material type.
	ErrUnsupportedType = errors.New("unsupported type")
)

// ValidationError reports bad caller input on a named field.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ExtractionError reports an unreadable or text-less PDF.
type ExtractionError struct {
	Filename string
	Reason   string
	Err      error
}

func (e *ExtractionError) Error() string {
	msg := ErrExtraction.Error()
	if e.Filename != "" {
		msg += " for " + e.Filename
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *ExtractionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExtraction}
	}
	return []error{ErrExtraction, e.Err}
}

// DuplicateDocumentError reports an upload whose filename is already loaded.
type DuplicateDocumentError struct {
	Filename string
}

func (e *DuplicateDocumentError) Error() string {
	return fmt.Sprintf("%s: %q is already loaded", ErrDuplicateDocument, e.Filename)
}

func (e *DuplicateDocumentError) Unwrap() error { return ErrDuplicateDocument }

// NotFoundError reports an unknown document filename.
type NotFoundError struct {
	Filename string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("document %q %s", e.Filename, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientContentError reports an operation that needs loaded documents.
type InsufficientContentError struct {
	Operation string
}

func (e *InsufficientContentError) Error() string {
	return fmt.Sprintf("%s: %s requires at least one loaded document", ErrInsufficientContent, e.Operation)
}

func (e *InsufficientContentError) Unwrap() error { return ErrInsufficientContent }

// GenerationError reports a text generation failure after all retries.
type GenerationError struct {
	Attempts int
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s after %d attempt(s): %v", ErrGeneration, e.Attempts, e.Err)
}

// Unwrap exposes both the sentinel and the last cause.
func (e *GenerationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrGeneration}
	}
	return []error{ErrGeneration, e.Err}
}

// PartialQuizWarning is a non-fatal outcome: fewer valid questions were
// produced than requested. The quiz is still returned alongside it.
type PartialQuizWarning struct {
	Requested int
	Produced  int
	Reasons   []string
}

func (w *PartialQuizWarning) Error() string {
	msg := fmt.Sprintf("%s: produced %d of %d requested questions", ErrPartialQuiz, w.Produced, w.Requested)
	if len(w.Reasons) > 0 {
		msg += " (" + strings.Join(w.Reasons, "; ") + ")"
	}
	return msg
}

func (w *PartialQuizWarning) Unwrap() error { return ErrPartialQuiz }

// MalformedQuizError reports a completion that does not hold exactly one
// JSON array of questions.
type MalformedQuizError struct {
	Reason string
}

func (e *MalformedQuizError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformedOutput, e.Reason)
}

func (e *MalformedQuizError) Unwrap() error { return ErrMalformedOutput }
