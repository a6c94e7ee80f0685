package driven

import "context"

// TextExtractor turns a PDF byte stream into plain text, page by page.
type TextExtractor interface {
	// Extract returns the text of each page in order. It fails with an
	// ExtractionError when the bytes are not a PDF or no page has text.
	Extract(ctx context.Context, data []byte) ([]string, error)
}
