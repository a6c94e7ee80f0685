package domain

import (
	"strings"
	"time"
)

// Document sources recorded on upload.
const (
	SourceUpload    = "upload"
	SourceClassroom = "Google Classroom"
	SourceGitHub    = "github"
	SourceWeb       = "web"
	SourceWatch     = "watch"
)

// Document is a loaded PDF held for the lifetime of a session.
// It is never persisted across restarts.
type Document struct {
	// Filename is the unique key of the document within a session.
	Filename string

	// RawText is the full extracted text, pages joined by newlines.
	RawText string

	// Pages holds the extracted text of each page in order.
	Pages []string

	// Source records where the document came from (upload, classroom, ...).
	Source string

	// CreatedAt is when the document was loaded.
	CreatedAt time.Time
}

// NewDocument builds a document from extracted pages.
func NewDocument(filename string, pages []string, source string) *Document {
	if source == "" {
		source = SourceUpload
	}
	return &Document{
		Filename:  filename,
		RawText:   strings.Join(pages, "\n"),
		Pages:     pages,
		Source:    source,
		CreatedAt: time.Now(),
	}
}

// DocumentSummary is the listing view of a loaded document.
type DocumentSummary struct {
	Filename   string    `json:"filename"`
	ChunkCount int       `json:"chunk_count"`
	Pages      int       `json:"pages"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"created_at"`
}

// Chunk is a bounded slice of a document's text used as the unit of retrieval.
// Chunks are immutable once indexed.
type Chunk struct {
	// ID is unique within the owning document and stable for its lifetime.
	ID int

	// DocumentFilename refers back to the owning Document.
	DocumentFilename string

	// Text is the chunk content.
	Text string

	// Position is the character offset of the chunk start in the document.
	Position int

	// Embedding is populated in dense retrieval mode.
	Embedding []float32

	// Terms is the term-frequency map populated in lexical retrieval mode.
	Terms map[string]int
}

// ScoredChunk pairs a chunk with its similarity to a query.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// Less reports whether a ranks before b: higher score first, then lower
// chunk ID, then filename.
func (a ScoredChunk) Less(b ScoredChunk) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Chunk.ID != b.Chunk.ID {
		return a.Chunk.ID < b.Chunk.ID
	}
	return a.Chunk.DocumentFilename < b.Chunk.DocumentFilename
}

// UploadStage identifies a step of document ingestion.
type UploadStage string

// Upload stages in pipeline order.
const (
	UploadStageExtracting UploadStage = "extracting"
	UploadStageChunking   UploadStage = "chunking"
	UploadStageIndexing   UploadStage = "indexing"
	UploadStageStoring    UploadStage = "storing"
	UploadStageDone       UploadStage = "done"
	UploadStageFailed     UploadStage = "failed"
)

// UploadProgress reports incremental progress of an upload.
type UploadProgress struct {
	Filename string
	Stage    UploadStage
	// Current and Total count units of the current stage (pages, chunks).
	Current int
	Total   int
	Err     error
}
