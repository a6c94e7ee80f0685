// Package web downloads PDFs from plain HTTPS links.
package web

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.MaterialFetcher = (*Fetcher)(nil)

const (
	// DefaultTimeout bounds a whole download.
	DefaultTimeout = 60 * time.Second
	// MaxDownloadBytes bounds a single material download.
	MaxDownloadBytes = 100 << 20
	defaultFilename  = "download.pdf"
)

var pdfMagic = []byte("%PDF-")

// Fetcher downloads any https URL whose body is a PDF. It is the fallback
// after the Drive and GitHub fetchers.
type Fetcher struct {
	client    *http.Client
	allowHTTP bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithInsecureHTTP accepts http:// links as well.
func WithInsecureHTTP() Option {
	return func(f *Fetcher) { f.allowHTTP = true }
}

// NewFetcher creates a web fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{client: &http.Client{Timeout: DefaultTimeout}}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name identifies the fetcher.
func (f *Fetcher) Name() string { return "web" }

// Supports reports whether ref is an absolute https URL.
func (f *Fetcher) Supports(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "https" || (f.allowHTTP && u.Scheme == "http")
}

// Fetch downloads ref and checks the body starts with the PDF signature.
func (f *Fetcher) Fetch(ctx context.Context, ref string) (*domain.FetchedMaterial, error) {
	if !f.Supports(ref) {
		return nil, domain.NewValidationError("url", "only https links can be imported")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, ref)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, domain.ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("download: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, fmt.Errorf("%w: %s is not a PDF (%s)", domain.ErrUnsupportedType, ref, resp.Header.Get("Content-Type"))
	}

	name := filename(resp)
	logger.Debug("Downloaded %s (%d bytes) as %s", ref, len(data), name)
	return &domain.FetchedMaterial{Filename: name, Data: data, Source: domain.SourceWeb}, nil
}

// filename prefers Content-Disposition, then the last path segment of the
// final URL after redirects.
func filename(resp *http.Response) string {
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		if name := path.Base(params["filename"]); name != "." && name != "/" && name != "" {
			return ensurePDF(name)
		}
	}
	if resp.Request != nil && resp.Request.URL != nil {
		if name := path.Base(resp.Request.URL.Path); name != "." && name != "/" {
			return ensurePDF(name)
		}
	}
	return defaultFilename
}

func ensurePDF(name string) string {
	if strings.EqualFold(path.Ext(name), ".pdf") {
		return name
	}
	return name + ".pdf"
}
