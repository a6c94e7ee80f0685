package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

func TestUploadCmd_RequiresFile(t *testing.T) {
	_, err := runCommand(t, "upload")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestUploadCmd_ReportsSummaries(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "upload", writePDF(t, "notes.pdf"))

	require.NoError(t, err)
	require.Len(t, ts.document.uploads, 1)
	assert.Equal(t, []byte("%PDF-1.4 test"), ts.document.uploads[0].Data)
	assert.Contains(t, out, "Loaded notes.pdf: 2 page(s), 3 chunk(s)")
}

func TestUploadCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "upload", "--json", writePDF(t, "notes.pdf"))

	require.NoError(t, err)
	assert.Contains(t, out, `"filename": "notes.pdf"`)
	assert.Contains(t, out, `"chunk_count": 3`)
}

func TestUploadCmd_Duplicate(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.document.err = &domain.DuplicateDocumentError{Filename: "notes.pdf"}

	_, err := runCommand(t, "upload", writePDF(t, "notes.pdf"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateDocument)
	assert.Contains(t, err.Error(), "upload failed")
}

func TestDocumentsCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range documentsCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"list", "delete"}, names)
}

func TestDocumentsListCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "documents", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents loaded")
}

func TestDocumentsListCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.document.docs = []domain.DocumentSummary{{Filename: "a.pdf", Pages: 1, ChunkCount: 1, Source: domain.SourceUpload}}

	out, err := runCommand(t, "documents", "list", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"filename": "a.pdf"`)
}

func TestDocumentsDeleteCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.document.docs = []domain.DocumentSummary{{Filename: "a.pdf"}}

	out, err := runCommand(t, "documents", "delete", "a.pdf")

	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf"}, ts.document.deleted)
	assert.Contains(t, out, "Removed a.pdf")
}

func TestDocumentsDeleteCmd_NotFound(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := runCommand(t, "documents", "delete", "missing.pdf")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestImportCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "import", "https://example.com/lecture.pdf")

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/lecture.pdf", ts.importer.ref)
	assert.Contains(t, out, "Imported lecture.pdf from web: 4 page(s), 9 chunk(s)")
}

func TestImportCmd_NoService(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	importService = nil

	_, err := runCommand(t, "import", "https://example.com/a.pdf")

	assert.EqualError(t, err, "import service not configured")
}
