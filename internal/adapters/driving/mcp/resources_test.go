package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestExtractFilename(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"plain", "studymate://documents/biology.pdf", "biology.pdf"},
		{"escaped space", "studymate://documents/cell%20biology.pdf", "cell biology.pdf"},
		{"listing uri", "studymate://documents", ""},
		{"other scheme", "file://documents/biology.pdf", ""},
		{"bad escape", "studymate://documents/%zz", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractFilename(tt.uri))
		})
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists documents as json", func(t *testing.T) {
		ports := newTestPorts()
		ports.Document = &mockDocumentService{summaries: []domain.DocumentSummary{
			{Filename: "biology.pdf", Pages: 4, ChunkCount: 7, Source: domain.SourceUpload},
		}}
		server := newTestServer(t, ports)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("studymate://documents"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"filename": "biology.pdf"`)
		assert.Contains(t, result.Contents[0].Text, `"chunk_count": 7`)
	})

	t.Run("empty session", func(t *testing.T) {
		server := newTestServer(t, newTestPorts())

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("studymate://documents"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("list failure", func(t *testing.T) {
		ports := newTestPorts()
		ports.Document = &mockDocumentService{err: errors.New("store closed")}
		server := newTestServer(t, ports)

		_, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("studymate://documents"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing documents")
	})
}

func TestServer_handleDocumentTextResource(t *testing.T) {
	ctx := context.Background()
	ports := newTestPorts()
	ports.Document = &mockDocumentService{
		document: domain.NewDocument("biology.pdf", []string{"Cells divide.", "Leaves are green."}, domain.SourceUpload),
	}
	server := newTestServer(t, ports)

	t.Run("returns page text", func(t *testing.T) {
		result, err := server.handleDocumentTextResource(ctx, makeReadResourceRequest("studymate://documents/biology.pdf"))

		require.NoError(t, err)
		text := result.Contents[0].Text
		assert.Contains(t, text, "--- Page 1 ---\nCells divide.")
		assert.Contains(t, text, "--- Page 2 ---\nLeaves are green.")
	})

	t.Run("unknown document", func(t *testing.T) {
		_, err := server.handleDocumentTextResource(ctx, makeReadResourceRequest("studymate://documents/other.pdf"))
		assert.Error(t, err)
	})

	t.Run("malformed uri", func(t *testing.T) {
		_, err := server.handleDocumentTextResource(ctx, makeReadResourceRequest("studymate://other"))
		assert.Error(t, err)
	})
}
