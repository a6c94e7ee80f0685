package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// mockFetcher serves a fixed material for references with its prefix.
type mockFetcher struct {
	name    string
	prefix  string
	content string
	err     error
	fetched []string
}

func (m *mockFetcher) Name() string { return m.name }

func (m *mockFetcher) Supports(ref string) bool { return strings.HasPrefix(ref, m.prefix) }

func (m *mockFetcher) Fetch(_ context.Context, ref string) (*domain.FetchedMaterial, error) {
	m.fetched = append(m.fetched, ref)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.FetchedMaterial{
		Filename: m.name + ".pdf",
		Data:     []byte(m.content),
		Source:   m.name,
	}, nil
}

func TestImportService_Import(t *testing.T) {
	f := newFixture(t, domain.DuplicateReject)
	drive := &mockFetcher{name: "drive", prefix: "https://drive.google.com/", content: biologyText}
	web := &mockFetcher{name: "web", prefix: "https://", content: historyText}
	service := NewImportService(f.documents, drive, web)

	summary, err := service.Import(context.Background(), "  https://drive.google.com/file/d/abc/view ", nil)

	require.NoError(t, err)
	assert.Equal(t, "drive.pdf", summary.Filename)
	assert.Equal(t, "drive", summary.Source)
	assert.Equal(t, []string{"https://drive.google.com/file/d/abc/view"}, drive.fetched)
	assert.Empty(t, web.fetched)

	docs, err := f.documents.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestImportService_Import_FallsThroughToLaterFetcher(t *testing.T) {
	f := newFixture(t, domain.DuplicateReject)
	drive := &mockFetcher{name: "drive", prefix: "https://drive.google.com/"}
	web := &mockFetcher{name: "web", prefix: "https://", content: historyText}
	service := NewImportService(f.documents, drive, nil, web)

	summary, err := service.Import(context.Background(), "https://example.com/notes.pdf", nil)

	require.NoError(t, err)
	assert.Equal(t, "web.pdf", summary.Filename)
}

func TestImportService_Import_Errors(t *testing.T) {
	f := newFixture(t, domain.DuplicateReject)
	failing := &mockFetcher{name: "web", prefix: "https://", err: errors.New("404 not found")}
	service := NewImportService(f.documents, failing)

	_, err := service.Import(context.Background(), "", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = service.Import(context.Background(), "ftp://example.com/a.pdf", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = service.Import(context.Background(), "https://example.com/a.pdf", nil)
	assert.ErrorContains(t, err, "404 not found")
}
