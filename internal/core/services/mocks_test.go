package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	memindex "github.com/custodia-labs/studymate/internal/adapters/driven/index/memory"
	"github.com/custodia-labs/studymate/internal/adapters/driven/similarity/lexical"
	"github.com/custodia-labs/studymate/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
	"github.com/custodia-labs/studymate/internal/postprocessors/chunker"
)

// mockExtractor returns the uploaded bytes as the text of a single page,
// or the configured pages.
type mockExtractor struct {
	pages []string
	err   error
}

func (m *mockExtractor) Extract(_ context.Context, data []byte) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.pages != nil {
		return m.pages, nil
	}
	return []string{string(data)}, nil
}

// blockingExtractor holds extraction until released.
type blockingExtractor struct {
	started chan struct{}
	release chan struct{}
}

func (m *blockingExtractor) Extract(ctx context.Context, data []byte) ([]string, error) {
	close(m.started)
	select {
	case <-m.release:
		return []string{string(data)}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// failingSimilarity wraps lexical similarity and fails Prepare.
type failingSimilarity struct {
	*lexical.Similarity
}

func (f failingSimilarity) Prepare(_ context.Context, _ []domain.Chunk) error {
	return errors.New("embedding backend down")
}

// mockLLM replays scripted responses. With fn set, fn decides every reply.
type mockLLM struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	fn        func(prompt string) (string, error)
	prompts   []string
	opts      []driven.GenerateOptions
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := len(m.prompts)
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)

	if m.fn != nil {
		return m.fn(prompt)
	}
	if idx < len(m.errs) && m.errs[idx] != nil {
		return "", m.errs[idx]
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	return m.responses[idx], nil
}

func (m *mockLLM) ModelName() string            { return "mock" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *mockLLM) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// mockPromptStore serves short templates with the same fields as the defaults.
type mockPromptStore struct{}

var testPrompts = map[string]string{
	driven.PromptAnswer:            "CONTEXT:\n{{.Context}}\nQUESTION: {{.Question}}\n{{.LanguageDirective}}",
	driven.PromptQuiz:              "QUIZ {{.Count}} {{.Difficulty}}: {{.DifficultyInstruction}}\n{{.Context}}\n{{.LanguageDirective}}",
	driven.PromptQuizRepair:        "REPAIR {{.Reason}}{{range .Avoid}} | {{.}}{{end}}",
	driven.PromptLanguageDirective: "IMPORTANT: Respond in {{.Language}} language.",
}

func (mockPromptStore) Load(name string) (string, error) {
	if p, ok := testPrompts[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("unknown prompt %q", name)
}

func (mockPromptStore) Reload() {}

// mockHistoryStore records saved results and chats in memory.
type mockHistoryStore struct {
	mu      sync.Mutex
	results []domain.QuizResult
	quizzes map[string]*domain.Quiz
	chats   []*domain.ChatExport
	err     error
}

func newMockHistoryStore() *mockHistoryStore {
	return &mockHistoryStore{quizzes: make(map[string]*domain.Quiz)}
}

func (m *mockHistoryStore) SaveQuizResult(_ context.Context, quiz *domain.Quiz, result *domain.QuizResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.results = append(m.results, *result)
	m.quizzes[result.ID] = quiz
	return nil
}

func (m *mockHistoryStore) ListQuizResults(_ context.Context, limit int) ([]domain.QuizResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.QuizResult, 0, len(m.results))
	for i := len(m.results) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.results[i])
	}
	return out, nil
}

func (m *mockHistoryStore) GetQuizExport(_ context.Context, resultID string) (*domain.QuizExport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.results {
		if r.ID == resultID {
			quiz := m.quizzes[r.ID]
			return &domain.QuizExport{
				Type:    domain.ExportTypeQuiz,
				Quiz:    quiz.Questions,
				Answers: r.Answers,
				Score:   r.Score,
				Total:   r.Total,
			}, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockHistoryStore) SaveChat(_ context.Context, export *domain.ChatExport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.chats = append(m.chats, export)
	return nil
}

func (m *mockHistoryStore) Close() error { return nil }

// mockAIConfigValidator returns fixed errors.
type mockAIConfigValidator struct {
	embeddingErr error
	llmErr       error
}

func (m *mockAIConfigValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error {
	return m.embeddingErr
}

func (m *mockAIConfigValidator) ValidateLLM(_ *domain.LLMSettings) error {
	return m.llmErr
}

// testSettings returns defaults with fast retries.
func testSettings() domain.AppSettings {
	s := domain.DefaultAppSettings()
	s.Responder.Backoff = time.Millisecond
	s.Responder.Timeout = time.Second
	return s
}

// fixture wires a session over the in-memory store and index with lexical similarity.
type fixture struct {
	session   *Session
	documents *DocumentService
	extractor *mockExtractor
}

func newFixture(t *testing.T, policy domain.DuplicatePolicy) *fixture {
	t.Helper()
	sim := lexical.New()
	session := NewSession(memory.NewDocumentStore(), memindex.New(sim))
	extractor := &mockExtractor{}
	documents := NewDocumentService(
		session,
		extractor,
		chunker.New(chunker.WithChunkSize(200), chunker.WithOverlap(20)),
		sim,
		policy,
	)
	return &fixture{session: session, documents: documents, extractor: extractor}
}

func (f *fixture) upload(t *testing.T, filename, text string) *domain.DocumentSummary {
	t.Helper()
	summary, err := f.documents.Upload(context.Background(), driving.UploadRequest{
		Filename: filename,
		Data:     []byte(text),
	}, nil)
	require.NoError(t, err)
	return summary
}
