package github

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.MaterialFetcher = (*Fetcher)(nil)

// maxDownloadBytes bounds a single material download.
const maxDownloadBytes = 100 << 20

// FileRef locates a file in a repository.
type FileRef struct {
	Owner string
	Repo  string
	Ref   string
	Path  string
}

// Fetcher downloads PDFs linked from github.com or raw.githubusercontent.com.
type Fetcher struct {
	client *Client
}

// NewFetcher creates a fetcher using client.
func NewFetcher(client *Client) *Fetcher {
	return &Fetcher{client: client}
}

// Name identifies the fetcher.
func (f *Fetcher) Name() string { return "github" }

// Supports reports whether ref is a GitHub file link.
func (f *Fetcher) Supports(ref string) bool {
	_, err := ParseFileURL(ref)
	return err == nil
}

// Fetch downloads the linked PDF.
func (f *Fetcher) Fetch(ctx context.Context, ref string) (*domain.FetchedMaterial, error) {
	file, err := ParseFileURL(ref)
	if err != nil {
		return nil, domain.NewValidationError("url", "%v", err)
	}
	if !strings.EqualFold(path.Ext(file.Path), ".pdf") {
		return nil, fmt.Errorf("%w: %s is not a PDF", domain.ErrUnsupportedType, path.Base(file.Path))
	}

	logger.Debug("Downloading %s from %s/%s@%s", file.Path, file.Owner, file.Repo, file.Ref)
	rc, err := f.client.DownloadContents(ctx, file.Owner, file.Repo, file.Path, file.Ref)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read contents: %w", err)
	}

	return &domain.FetchedMaterial{
		Filename: path.Base(file.Path),
		Data:     data,
		Source:   domain.SourceGitHub,
	}, nil
}

// ParseFileURL splits a blob or raw GitHub URL into its parts.
func ParseFileURL(ref string) (FileRef, error) {
	u, err := url.Parse(ref)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return FileRef{}, fmt.Errorf("%w: %q", ErrInvalidURL, ref)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	switch u.Hostname() {
	case "github.com", "www.github.com":
		// owner/repo/blob/ref/path...
		if len(parts) < 5 || (parts[2] != "blob" && parts[2] != "raw") {
			return FileRef{}, fmt.Errorf("%w: %q", ErrInvalidURL, ref)
		}
		return newFileRef(parts[0], parts[1], parts[3], parts[4:])
	case "raw.githubusercontent.com":
		// owner/repo/ref/path...
		if len(parts) < 4 {
			return FileRef{}, fmt.Errorf("%w: %q", ErrInvalidURL, ref)
		}
		return newFileRef(parts[0], parts[1], parts[2], parts[3:])
	}
	return FileRef{}, fmt.Errorf("%w: %q", ErrInvalidURL, ref)
}

func newFileRef(owner, repo, ref string, pathParts []string) (FileRef, error) {
	for _, p := range append([]string{owner, repo, ref}, pathParts...) {
		if p == "" {
			return FileRef{}, ErrInvalidURL
		}
	}
	return FileRef{Owner: owner, Repo: repo, Ref: ref, Path: strings.Join(pathParts, "/")}, nil
}
