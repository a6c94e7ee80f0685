package mcp

import (
	"context"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	summaries []domain.DocumentSummary
	document  *domain.Document
	uploaded  []driving.UploadRequest
	deleted   []string
	err       error
}

func (m *mockDocumentService) Upload(_ context.Context, req driving.UploadRequest, _ driving.ProgressFunc) (*domain.DocumentSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.uploaded = append(m.uploaded, req)
	return &domain.DocumentSummary{Filename: req.Filename, Pages: 2, ChunkCount: 3, Source: req.Source}, nil
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.DocumentSummary, error) {
	return m.summaries, m.err
}

func (m *mockDocumentService) Get(_ context.Context, filename string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.document == nil || m.document.Filename != filename {
		return nil, &domain.NotFoundError{Filename: filename}
	}
	return m.document, nil
}

func (m *mockDocumentService) Delete(_ context.Context, filename string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, filename)
	return nil
}

func (m *mockDocumentService) Clear(_ context.Context) error {
	return m.err
}

func (m *mockDocumentService) Uploads() []domain.UploadProgress {
	return nil
}

// mockAskService is a mock implementation of driving.AskService.
type mockAskService struct {
	answer *domain.Answer
	err    error
}

func (m *mockAskService) Ask(_ context.Context, _, _ string) (*domain.Answer, error) {
	return m.answer, m.err
}

// mockQuizService is a mock implementation of driving.QuizService.
type mockQuizService struct {
	quiz    *domain.Quiz
	err     error
	lastReq driving.QuizRequest
}

func (m *mockQuizService) Generate(_ context.Context, req driving.QuizRequest) (*domain.Quiz, error) {
	m.lastReq = req
	return m.quiz, m.err
}

func (m *mockQuizService) Score(_ context.Context, quiz *domain.Quiz, answers map[int]string) (*domain.QuizResult, error) {
	result := domain.ScoreQuiz(quiz, answers)
	return &result, nil
}

// mockImportService is a mock implementation of driving.ImportService.
type mockImportService struct {
	refs []string
	err  error
}

func (m *mockImportService) Import(_ context.Context, ref string, _ driving.ProgressFunc) (*domain.DocumentSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.refs = append(m.refs, ref)
	return &domain.DocumentSummary{Filename: "notes.pdf", Pages: 1, ChunkCount: 1, Source: domain.SourceWeb}, nil
}

func newTestPorts() *Ports {
	return &Ports{
		Document: &mockDocumentService{},
		Ask:      &mockAskService{},
		Quiz:     &mockQuizService{},
	}
}

func testQuiz() *domain.Quiz {
	return &domain.Quiz{
		ID:         "quiz-1",
		Difficulty: domain.DifficultyMedium,
		Language:   "English",
		Requested:  2,
		Questions: []domain.QuizQuestion{
			{Question: "What absorbs light?", Options: map[string]string{"A": "Chlorophyll", "B": "Water"}, Correct: "A"},
			{Question: "What is released?", Options: map[string]string{"A": "Nitrogen", "B": "Oxygen"}, Correct: "B"},
		},
	}
}
