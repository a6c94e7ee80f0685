package domain

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument("bio.pdf", []string{"page one", "page two"}, "")

	assert.Equal(t, "bio.pdf", doc.Filename)
	assert.Equal(t, "page one\npage two", doc.RawText)
	assert.Equal(t, SourceUpload, doc.Source)
	assert.False(t, doc.CreatedAt.IsZero())
}

func TestScoredChunk_Less(t *testing.T) {
	chunks := []ScoredChunk{
		{Chunk: Chunk{ID: 2, DocumentFilename: "a.pdf"}, Score: 0.5},
		{Chunk: Chunk{ID: 1, DocumentFilename: "b.pdf"}, Score: 0.5},
		{Chunk: Chunk{ID: 1, DocumentFilename: "a.pdf"}, Score: 0.5},
		{Chunk: Chunk{ID: 9, DocumentFilename: "z.pdf"}, Score: 0.9},
	}

	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Less(chunks[j]) })

	assert.Equal(t, 9, chunks[0].Chunk.ID)
	assert.Equal(t, "a.pdf", chunks[1].Chunk.DocumentFilename)
	assert.Equal(t, 1, chunks[1].Chunk.ID)
	assert.Equal(t, "b.pdf", chunks[2].Chunk.DocumentFilename)
	assert.Equal(t, 2, chunks[3].Chunk.ID)
}
