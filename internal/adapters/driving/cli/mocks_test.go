package cli

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

// mockDocumentService records uploads and serves a fixed document list.
type mockDocumentService struct {
	docs    []domain.DocumentSummary
	uploads []driving.UploadRequest
	deleted []string
	err     error
}

func (m *mockDocumentService) Upload(
	_ context.Context, req driving.UploadRequest, _ driving.ProgressFunc,
) (*domain.DocumentSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.uploads = append(m.uploads, req)
	summary := domain.DocumentSummary{Filename: req.Filename, Pages: 2, ChunkCount: 3, Source: req.Source}
	m.docs = append(m.docs, summary)
	return &summary, nil
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.DocumentSummary, error) {
	return m.docs, m.err
}

func (m *mockDocumentService) Get(_ context.Context, filename string) (*domain.Document, error) {
	for _, d := range m.docs {
		if d.Filename == filename {
			return &domain.Document{Filename: filename, Source: d.Source}, nil
		}
	}
	return nil, &domain.NotFoundError{Filename: filename}
}

func (m *mockDocumentService) Delete(_ context.Context, filename string) error {
	for i, d := range m.docs {
		if d.Filename == filename {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			m.deleted = append(m.deleted, filename)
			return nil
		}
	}
	return &domain.NotFoundError{Filename: filename}
}

func (m *mockDocumentService) Clear(_ context.Context) error {
	m.docs = nil
	return nil
}

func (m *mockDocumentService) Uploads() []domain.UploadProgress {
	return nil
}

// mockAskService answers every question with a canned answer.
type mockAskService struct {
	question string
	language string
	answer   *domain.Answer
	err      error
}

func (m *mockAskService) Ask(_ context.Context, question, language string) (*domain.Answer, error) {
	m.question = question
	m.language = language
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

// mockQuizService returns a fixed quiz and grades by exact label match.
type mockQuizService struct {
	request driving.QuizRequest
	quiz    *domain.Quiz
	err     error
	answers map[int]string
}

func (m *mockQuizService) Generate(_ context.Context, req driving.QuizRequest) (*domain.Quiz, error) {
	m.request = req
	return m.quiz, m.err
}

func (m *mockQuizService) Score(_ context.Context, quiz *domain.Quiz, answers map[int]string) (*domain.QuizResult, error) {
	m.answers = answers
	result := domain.ScoreQuiz(quiz, answers)
	result.ID = "result-1"
	return &result, nil
}

// mockHistoryService serves stored results.
type mockHistoryService struct {
	results []domain.QuizResult
	export  *domain.QuizExport
	err     error
}

func (m *mockHistoryService) ExportChat(_ context.Context, msgs []domain.ChatMessage) (*domain.ChatExport, error) {
	return &domain.ChatExport{ID: "chat-1", Type: domain.ExportTypeChat, Messages: msgs, TotalMessages: len(msgs)}, nil
}

func (m *mockHistoryService) ExportQuiz(quiz *domain.Quiz, result *domain.QuizResult) *domain.QuizExport {
	return &domain.QuizExport{
		Type:    domain.ExportTypeQuiz,
		Quiz:    quiz.Questions,
		Answers: result.Answers,
		Score:   result.Score,
		Total:   result.Total,
	}
}

func (m *mockHistoryService) Results(_ context.Context, limit int) ([]domain.QuizResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.results) {
		return m.results[:limit], nil
	}
	return m.results, nil
}

func (m *mockHistoryService) LoadQuizExport(_ context.Context, _ string) (*domain.QuizExport, error) {
	return m.export, m.err
}

// mockClassroomService serves a single course.
type mockClassroomService struct {
	courses  []domain.Course
	items    []domain.CourseItem
	postedTo string
	err      error
}

func (m *mockClassroomService) Courses(_ context.Context) ([]domain.Course, error) {
	return m.courses, m.err
}

func (m *mockClassroomService) CourseWork(_ context.Context, _ string) ([]domain.CourseItem, error) {
	return m.items, m.err
}

func (m *mockClassroomService) Materials(_ context.Context, _ string) ([]domain.CourseItem, error) {
	return m.items, m.err
}

func (m *mockClassroomService) Announcements(_ context.Context, _ string) ([]domain.CourseItem, error) {
	return m.items, m.err
}

func (m *mockClassroomService) PostQuiz(_ context.Context, courseID string, _ *domain.Quiz) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.postedTo = courseID
	return "https://classroom.google.com/c/" + courseID, nil
}

// mockImportService records the last reference imported.
type mockImportService struct {
	ref string
	err error
}

func (m *mockImportService) Import(_ context.Context, ref string, _ driving.ProgressFunc) (*domain.DocumentSummary, error) {
	m.ref = ref
	if m.err != nil {
		return nil, m.err
	}
	return &domain.DocumentSummary{Filename: "lecture.pdf", Source: domain.SourceWeb, Pages: 4, ChunkCount: 9}, nil
}

// mockSettingsService keeps settings in memory.
type mockSettingsService struct {
	settings    domain.AppSettings
	sets        map[string]string
	validateErr error
	llm         domain.AIProvider
	embedding   domain.AIProvider
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.sets == nil {
		m.sets = make(map[string]string)
	}
	m.sets[key] = value
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.embedding = provider
	m.settings.Embedding = domain.EmbeddingSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.llm = provider
	m.settings.LLM = domain.LLMSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) Validate() error                { return m.validateErr }
func (m *mockSettingsService) ValidateEmbeddingConfig() error { return nil }
func (m *mockSettingsService) ValidateLLMConfig() error       { return nil }

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// mockWatcher blocks until cancelled.
type mockWatcher struct {
	mu     sync.Mutex
	dir    string
	active bool
}

func (m *mockWatcher) Run(ctx context.Context, dir string) error {
	m.mu.Lock()
	m.dir = dir
	m.active = true
	m.mu.Unlock()

	<-ctx.Done()
	return ctx.Err()
}

func (m *mockWatcher) running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

func (m *mockWatcher) watched() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dir
}

func testQuiz() *domain.Quiz {
	return &domain.Quiz{
		ID:         "quiz-1",
		Difficulty: domain.DifficultyMedium,
		Language:   "English",
		Requested:  2,
		CreatedAt:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Questions: []domain.QuizQuestion{
			{
				Question: "What organelle produces ATP?",
				Options:  map[string]string{"A": "Nucleus", "B": "Mitochondrion", "C": "Ribosome"},
				Correct:  "B",
			},
			{
				Question: "What pigment absorbs light?",
				Options:  map[string]string{"A": "Chlorophyll", "B": "Keratin"},
				Correct:  "A",
			},
		},
	}
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	document  *mockDocumentService
	ask       *mockAskService
	quiz      *mockQuizService
	history   *mockHistoryService
	classroom *mockClassroomService
	importer  *mockImportService
	settings  *mockSettingsService
	watcher   *mockWatcher
}

// setupTestServices installs fresh mocks and returns them with a cleanup
// function restoring the previous services.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		document: &mockDocumentService{},
		ask: &mockAskService{answer: &domain.Answer{
			Text:    "Mitochondria produce ATP.",
			Sources: []string{"biology.pdf"},
		}},
		quiz:      &mockQuizService{quiz: testQuiz()},
		history:   &mockHistoryService{},
		classroom: &mockClassroomService{},
		importer:  &mockImportService{},
		settings:  &mockSettingsService{settings: domain.DefaultAppSettings()},
		watcher:   &mockWatcher{},
	}

	prev := &Services{
		Document:  documentService,
		Ask:       askService,
		Quiz:      quizService,
		Classroom: classroomService,
		Import:    importService,
		History:   historyService,
		Settings:  settingsService,
		Auth:      classroomAuth,
		Watcher:   folderWatcher,
		Warnings:  startupWarnings,
	}

	SetServices(&Services{
		Document:  ts.document,
		Ask:       ts.ask,
		Quiz:      ts.quiz,
		Classroom: ts.classroom,
		Import:    ts.importer,
		History:   ts.history,
		Settings:  ts.settings,
		Watcher:   ts.watcher,
	})

	return ts, func() { SetServices(prev) }
}
