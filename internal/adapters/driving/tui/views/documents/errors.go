package documents

import "errors"

var (
	// ErrNoDocumentService is returned when the document service is not configured.
	ErrNoDocumentService = errors.New("document service not available")

	// ErrNoImportService is returned when import is requested without an import service.
	ErrNoImportService = errors.New("import not configured")
)
