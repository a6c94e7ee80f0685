// Package drive downloads PDFs shared through Google Drive.
package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/studymate/internal/connectors/google"
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.MaterialFetcher = (*Fetcher)(nil)

const (
	mimePDF        = "application/pdf"
	mimeGoogleDoc  = "application/vnd.google-apps.document"
	mimeGoogleApps = "application/vnd.google-apps."

	maxFilenameRunes = 100
	// maxDownloadBytes bounds a single material download.
	maxDownloadBytes = 100 << 20
)

var fileIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`/open\?id=([a-zA-Z0-9_-]+)`),
}

// Fetcher resolves Drive links to file IDs and downloads them as PDF.
type Fetcher struct {
	svc     *drive.Service
	limiter *google.RateLimiter
}

// NewFetcher creates a fetcher over an authenticated Drive service.
func NewFetcher(svc *drive.Service) *Fetcher {
	return &Fetcher{svc: svc, limiter: google.NewRateLimiter(google.ServiceDrive)}
}

// Name identifies the fetcher.
func (f *Fetcher) Name() string { return "drive" }

// Supports reports whether ref is a Drive or Docs link with a file ID.
func (f *Fetcher) Supports(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "drive.google.com", "docs.google.com":
		return ExtractFileID(ref) != ""
	}
	return false
}

// Fetch downloads the file. Google Docs are exported to PDF; other Google
// Apps types and non-PDF files are rejected with ErrUnsupportedType.
func (f *Fetcher) Fetch(ctx context.Context, ref string) (*domain.FetchedMaterial, error) {
	id := ExtractFileID(ref)
	if id == "" {
		return nil, domain.NewValidationError("url", "no Drive file ID in %q", ref)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	meta, err := f.svc.Files.Get(id).Fields("mimeType,name").SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get file metadata: %w", google.WrapError(err))
	}
	logger.Debug("Drive file %s is %q (%s)", id, meta.Name, meta.MimeType)

	var resp *http.Response
	switch {
	case meta.MimeType == mimeGoogleDoc:
		err = f.limiter.Wait(ctx)
		if err == nil {
			resp, err = f.svc.Files.Export(id, mimePDF).Context(ctx).Download()
		}
	case strings.HasPrefix(meta.MimeType, mimeGoogleApps):
		return nil, fmt.Errorf("%w: cannot export %s as PDF", domain.ErrUnsupportedType, meta.MimeType)
	case meta.MimeType != mimePDF:
		return nil, fmt.Errorf("%w: %s is not a PDF", domain.ErrUnsupportedType, meta.MimeType)
	default:
		err = f.limiter.Wait(ctx)
		if err == nil {
			resp, err = f.svc.Files.Get(id).SupportsAllDrives(true).Context(ctx).Download()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("download file: %w", google.WrapError(err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return &domain.FetchedMaterial{
		Filename: SanitizeFilename(meta.Name),
		Data:     data,
		Source:   domain.SourceClassroom,
	}, nil
}

// ExtractFileID returns the Drive file ID in a share link, or "" if none.
func ExtractFileID(link string) string {
	for _, p := range fileIDPatterns {
		if m := p.FindStringSubmatch(link); m != nil {
			return m[1]
		}
	}
	return ""
}

// SanitizeFilename keeps letters, digits, spaces, '-' and '_' from name
// (without its extension), truncates to 100 characters and appends ".pdf".
func SanitizeFilename(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))

	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}

	safe := strings.TrimSpace(b.String())
	if r := []rune(safe); len(r) > maxFilenameRunes {
		safe = string(r[:maxFilenameRunes])
	}
	if safe == "" {
		safe = "material"
	}
	return safe + ".pdf"
}
