package mcp

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("reads local path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "biology.pdf")
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0600))

		docs := &mockDocumentService{}
		ports := newTestPorts()
		ports.Document = docs
		server := newTestServer(t, ports)

		_, out, err := server.handleUpload(ctx, nil, UploadInput{Path: path})

		require.NoError(t, err)
		assert.Equal(t, "biology.pdf", out.Filename)
		require.Len(t, docs.uploaded, 1)
		assert.Equal(t, []byte("%PDF-1.4"), docs.uploaded[0].Data)
		assert.Equal(t, domain.SourceUpload, docs.uploaded[0].Source)
	})

	t.Run("decodes base64 data", func(t *testing.T) {
		docs := &mockDocumentService{}
		ports := newTestPorts()
		ports.Document = docs
		server := newTestServer(t, ports)

		input := UploadInput{Filename: "notes.pdf", DataBase64: base64.StdEncoding.EncodeToString([]byte("%PDF-1.7"))}
		_, out, err := server.handleUpload(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "notes.pdf", out.Filename)
		assert.Equal(t, 3, out.ChunkCount)
		assert.Equal(t, []byte("%PDF-1.7"), docs.uploaded[0].Data)
	})

	t.Run("invalid base64", func(t *testing.T) {
		server := newTestServer(t, newTestPorts())

		_, _, err := server.handleUpload(ctx, nil, UploadInput{Filename: "x.pdf", DataBase64: "%%%"})

		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("nothing to upload", func(t *testing.T) {
		server := newTestServer(t, newTestPorts())

		_, _, err := server.handleUpload(ctx, nil, UploadInput{})

		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("missing file", func(t *testing.T) {
		server := newTestServer(t, newTestPorts())

		_, _, err := server.handleUpload(ctx, nil, UploadInput{Path: filepath.Join(t.TempDir(), "nope.pdf")})

		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestServer_handleListAndDelete(t *testing.T) {
	ctx := context.Background()
	docs := &mockDocumentService{
		summaries: []domain.DocumentSummary{
			{Filename: "a.pdf", Pages: 3, ChunkCount: 5, Source: domain.SourceUpload},
			{Filename: "b.pdf", Pages: 1, ChunkCount: 1, Source: domain.SourceGitHub},
		},
	}
	ports := newTestPorts()
	ports.Document = docs
	server := newTestServer(t, ports)

	_, list, err := server.handleListDocuments(ctx, nil, NoInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, "b.pdf", list.Documents[1].Filename)
	assert.Equal(t, domain.SourceGitHub, list.Documents[1].Source)

	_, deleted, err := server.handleDeleteDocument(ctx, nil, FilenameInput{Filename: "a.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", deleted.Deleted)
	assert.Equal(t, []string{"a.pdf"}, docs.deleted)
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer and sources", func(t *testing.T) {
		ports := newTestPorts()
		ports.Ask = &mockAskService{answer: &domain.Answer{Text: "Chlorophyll.", Sources: []string{"biology.pdf"}}}
		server := newTestServer(t, ports)

		_, out, err := server.handleAsk(ctx, nil, AskInput{Question: "What absorbs light?"})

		require.NoError(t, err)
		assert.Equal(t, "Chlorophyll.", out.Answer)
		assert.Equal(t, []string{"biology.pdf"}, out.Sources)
	})

	t.Run("nil sources become empty", func(t *testing.T) {
		ports := newTestPorts()
		ports.Ask = &mockAskService{answer: &domain.Answer{Text: domain.NoDocumentsAnswer, NoDocuments: true}}
		server := newTestServer(t, ports)

		_, out, err := server.handleAsk(ctx, nil, AskInput{Question: "Anything?"})

		require.NoError(t, err)
		assert.NotNil(t, out.Sources)
		assert.Empty(t, out.Sources)
	})

	t.Run("propagates errors", func(t *testing.T) {
		ports := newTestPorts()
		ports.Ask = &mockAskService{err: domain.ErrGeneration}
		server := newTestServer(t, ports)

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "Q?"})

		assert.ErrorIs(t, err, domain.ErrGeneration)
	})
}

func TestServer_GenerateThenScore(t *testing.T) {
	ctx := context.Background()
	quizzes := &mockQuizService{quiz: testQuiz()}
	ports := newTestPorts()
	ports.Quiz = quizzes
	server := newTestServer(t, ports)

	_, quiz, err := server.handleGenerateQuiz(ctx, nil, QuizInput{Difficulty: "HARD", Language: "fr"})
	require.NoError(t, err)

	assert.Equal(t, 5, quizzes.lastReq.Count)
	assert.Equal(t, domain.DifficultyHard, quizzes.lastReq.Difficulty)
	assert.Equal(t, "fr", quizzes.lastReq.Language)
	assert.Equal(t, "quiz-1", quiz.QuizID)
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, 1, quiz.Questions[0].Number)
	assert.Empty(t, quiz.Warning)

	_, score, err := server.handleScoreQuiz(ctx, nil, ScoreInput{QuizID: quiz.QuizID, Answers: []string{"a", "A"}})
	require.NoError(t, err)
	assert.Equal(t, 1, score.Score)
	assert.Equal(t, 2, score.Total)
	assert.Equal(t, 50.0, score.Percentage)
	assert.Equal(t, []string{"A", "B"}, score.Correct)
}

func TestServer_handleGenerateQuiz_Partial(t *testing.T) {
	quiz := testQuiz()
	quiz.Requested = 3
	quiz.Warning = &domain.PartialQuizWarning{Requested: 3, Produced: 2}
	ports := newTestPorts()
	ports.Quiz = &mockQuizService{quiz: quiz, err: quiz.Warning}
	server := newTestServer(t, ports)

	_, out, err := server.handleGenerateQuiz(context.Background(), nil, QuizInput{Count: 3})

	require.NoError(t, err)
	assert.Len(t, out.Questions, 2)
	assert.Contains(t, out.Warning, "produced 2 of 3")
}

func TestServer_handleGenerateQuiz_Error(t *testing.T) {
	ports := newTestPorts()
	ports.Quiz = &mockQuizService{err: &domain.InsufficientContentError{Operation: "quiz generation"}}
	server := newTestServer(t, ports)

	_, _, err := server.handleGenerateQuiz(context.Background(), nil, QuizInput{})

	assert.ErrorIs(t, err, domain.ErrInsufficientContent)
}

func TestServer_handleScoreQuiz_UnknownQuiz(t *testing.T) {
	server := newTestServer(t, newTestPorts())

	_, _, err := server.handleScoreQuiz(context.Background(), nil, ScoreInput{QuizID: "missing"})

	assert.ErrorIs(t, err, ErrUnknownQuiz)
}

func TestServer_handleListLanguages(t *testing.T) {
	server := newTestServer(t, newTestPorts())

	_, out, err := server.handleListLanguages(context.Background(), nil, NoInput{})

	require.NoError(t, err)
	assert.Len(t, out.Languages, 15)
	assert.Equal(t, "English", out.Languages[0].Name)
}

func TestServer_handleImport(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		server := newTestServer(t, newTestPorts())

		_, _, err := server.handleImport(ctx, nil, ImportInput{URL: "https://example.com/a.pdf"})

		assert.ErrorIs(t, err, ErrImportUnavailable)
	})

	t.Run("imports url", func(t *testing.T) {
		importer := &mockImportService{}
		ports := newTestPorts()
		ports.Import = importer
		server := newTestServer(t, ports)

		_, out, err := server.handleImport(ctx, nil, ImportInput{URL: "https://example.com/notes.pdf"})

		require.NoError(t, err)
		assert.Equal(t, "notes.pdf", out.Filename)
		assert.Equal(t, []string{"https://example.com/notes.pdf"}, importer.refs)
	})

	t.Run("import failure", func(t *testing.T) {
		ports := newTestPorts()
		ports.Import = &mockImportService{err: errors.New("boom")}
		server := newTestServer(t, ports)

		_, _, err := server.handleImport(ctx, nil, ImportInput{URL: "https://example.com/notes.pdf"})

		assert.EqualError(t, err, "boom")
	})
}
