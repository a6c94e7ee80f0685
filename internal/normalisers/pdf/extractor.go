// Package pdf extracts per-page plain text from PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// pageSource is the subset of a parsed PDF the extractor needs.
type pageSource interface {
	NumPage() int
	PageText(i int) (text string, ok bool, err error)
}

// openFunc parses PDF bytes into a page source.
type openFunc func(data []byte) (pageSource, error)

// Extractor reads text layers with github.com/ledongthuc/pdf.
// Scanned PDFs without a text layer are rejected.
type Extractor struct {
	open openFunc
}

// New creates a PDF text extractor.
func New() *Extractor {
	return &Extractor{open: openReader}
}

// Extract returns the text of every page in order. Pages without text are
// kept as empty strings so page numbers stay aligned.
func (e *Extractor) Extract(ctx context.Context, data []byte) (pages []string, err error) {
	if len(data) == 0 {
		return nil, &domain.ExtractionError{Reason: "empty file"}
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data[:min(len(data), 1024)], "\x00\t\r\n "), []byte("%PDF-")) {
		return nil, &domain.ExtractionError{Reason: "not a PDF (missing %PDF header)"}
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = &domain.ExtractionError{Reason: "malformed PDF", Err: fmt.Errorf("%v", r)}
		}
	}()

	src, err := e.open(data)
	if err != nil {
		return nil, &domain.ExtractionError{Reason: "not a valid PDF", Err: err}
	}

	total := src.NumPage()
	if total == 0 {
		return nil, &domain.ExtractionError{Reason: "document has no pages"}
	}

	pages = make([]string, 0, total)
	withText := 0
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, ok, perr := src.PageText(i)
		if perr != nil {
			logger.Debug("pdf: page %d unreadable: %v", i, perr)
			text = ""
		}
		if !ok {
			text = ""
		}
		text = normaliseText(text)
		if strings.TrimSpace(text) != "" {
			withText++
		}
		pages = append(pages, text)
	}

	logger.Debug("pdf: %d of %d pages have text", withText, total)
	if withText == 0 {
		return nil, &domain.ExtractionError{Reason: fmt.Sprintf("no extractable text in %d page(s), the PDF may be scanned", total)}
	}
	return pages, nil
}

// normaliseText trims trailing spaces per line and drops NUL bytes and
// invalid UTF-8, so page text round-trips through rune-based chunking.
func normaliseText(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.ReplaceAll(s, "\x00", "")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// readerSource adapts *pdf.Reader to pageSource.
type readerSource struct {
	r *pdf.Reader
}

func openReader(data []byte) (pageSource, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &readerSource{r: r}, nil
}

func (s *readerSource) NumPage() int {
	return s.r.NumPage()
}

func (s *readerSource) PageText(i int) (string, bool, error) {
	p := s.r.Page(i)
	if p.V.IsNull() {
		return "", false, nil
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", true, err
	}
	return text, true, nil
}
