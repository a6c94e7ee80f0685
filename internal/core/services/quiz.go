package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Ensure QuizGenerator implements the interface.
var _ driving.QuizService = (*QuizGenerator)(nil)

const (
	quizMaxTokens   = 2048
	quizTemperature = 0.7
)

// QuizGenerator builds multiple-choice quizzes from a sample of the loaded documents.
type QuizGenerator struct {
	session         *Session
	llm             driven.LLMService
	prompts         driven.PromptStore
	history         driven.HistoryStore
	cfg             domain.QuizSettings
	defaultLanguage string
	retry           retryPolicy
}

// NewQuizGenerator creates a quiz generator. Scored attempts are recorded
// in history; a nil store disables recording.
func NewQuizGenerator(
	session *Session,
	llm driven.LLMService,
	prompts driven.PromptStore,
	history driven.HistoryStore,
	settings domain.AppSettings,
) *QuizGenerator {
	cfg := settings.Quiz
	defaults := domain.DefaultAppSettings().Quiz
	if cfg.MaxQuestions < 1 {
		cfg.MaxQuestions = defaults.MaxQuestions
	}
	if cfg.MaxOptions < 2 {
		cfg.MaxOptions = defaults.MaxOptions
	}
	if cfg.ContextBudget < 1 {
		cfg.ContextBudget = defaults.ContextBudget
	}
	if cfg.SampleChunks < 1 {
		cfg.SampleChunks = defaults.SampleChunks
	}
	if cfg.RepairAttempts < 0 {
		cfg.RepairAttempts = 0
	}
	return &QuizGenerator{
		session:         session,
		llm:             llm,
		prompts:         prompts,
		history:         history,
		cfg:             cfg,
		defaultLanguage: settings.DefaultLanguage,
		retry:           retryPolicyFrom(settings.Responder),
	}
}

// quizPromptData holds the fields shared by the quiz and repair templates.
type quizPromptData struct {
	Count                 int
	Difficulty            domain.Difficulty
	DifficultyInstruction string
	Context               string
	LanguageDirective     string
	Reason                string
	Avoid                 []string
}

// Generate produces a quiz. A quiz with fewer questions than requested is
// returned together with a *domain.PartialQuizWarning.
//
//nolint:gocyclo // Generation, parsing and repair are one sequential flow
func (g *QuizGenerator) Generate(ctx context.Context, req driving.QuizRequest) (*domain.Quiz, error) {
	if req.Difficulty == "" {
		req.Difficulty = domain.DifficultyMedium
	}
	if req.Count < 1 || req.Count > g.cfg.MaxQuestions {
		return nil, domain.NewValidationError("count", "must be between 1 and %d, got %d", g.cfg.MaxQuestions, req.Count)
	}
	if !req.Difficulty.IsValid() {
		return nil, domain.NewValidationError("difficulty", "unknown difficulty %q", req.Difficulty)
	}
	lang, err := resolveLanguage(req.Language, g.defaultLanguage)
	if err != nil {
		return nil, err
	}

	logger.Section("Quiz Generation")
	logger.Debug("Count: %d, difficulty: %s, language: %s", req.Count, req.Difficulty, lang.Name)

	// 1. Sample context across all documents
	docCount, all := g.session.snapshot(ctx)
	if docCount == 0 || len(all) == 0 {
		return nil, &domain.InsufficientContentError{Operation: "quiz generation"}
	}
	sample := sampleChunks(all, g.cfg.SampleChunks)
	data := quizPromptData{
		Count:                 req.Count,
		Difficulty:            req.Difficulty,
		DifficultyInstruction: req.Difficulty.Instruction(),
		Context:               joinChunks(sample, g.cfg.ContextBudget),
	}
	logger.Debug("Sampled %d of %d chunk(s), %d chars of context", len(sample), len(all), len([]rune(data.Context)))

	data.LanguageDirective, err = languageDirective(g.prompts, lang)
	if err != nil {
		return nil, err
	}
	prompt, err := renderPrompt(g.prompts, driven.PromptQuiz, data)
	if err != nil {
		return nil, err
	}

	// 2. Generate and parse; unparseable completions are retried
	records, err := generate(ctx, g.llm, g.retry, prompt, driven.GenerateOptions{
		MaxTokens:   quizMaxTokens,
		Temperature: quizTemperature,
	}, func(text string) ([]QuizRecord, error) {
		return ParseQuiz(text, g.cfg.MaxOptions)
	})
	if err != nil {
		return nil, err
	}

	questions, problems := collectQuestions(records)
	if len(questions) > req.Count {
		questions = questions[:req.Count]
		problems = nil
	}
	logger.Debug("Parsed %d record(s): %d valid, %d malformed", len(records), len(questions), len(problems))

	// 3. Repair malformed or missing questions one at a time
	var reasons []string
	parsed := len(questions)
	for slot := parsed; slot < req.Count; slot++ {
		reason := "question missing from completion"
		if i := slot - parsed; i < len(problems) {
			reason = problems[i]
		}
		q, err := g.repair(ctx, data, reason, questions)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			reasons = append(reasons, reason)
			continue
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		return nil, &domain.GenerationError{
			Attempts: g.retry.attempts,
			Err:      &domain.MalformedQuizError{Reason: "no well-formed questions: " + strings.Join(reasons, "; ")},
		}
	}

	quiz := &domain.Quiz{
		ID:         uuid.NewString(),
		Questions:  questions,
		Requested:  req.Count,
		Difficulty: req.Difficulty,
		Language:   lang.Name,
		CreatedAt:  time.Now(),
	}
	if len(questions) < req.Count {
		quiz.Warning = &domain.PartialQuizWarning{
			Requested: req.Count,
			Produced:  len(questions),
			Reasons:   reasons,
		}
		logger.Warn("Quiz has %d of %d requested questions", len(questions), req.Count)
		return quiz, quiz.Warning
	}
	return quiz, nil
}

// repair regenerates a single question, trying up to RepairAttempts times.
// Each attempt is one generation call.
func (g *QuizGenerator) repair(
	ctx context.Context,
	base quizPromptData,
	reason string,
	existing []domain.QuizQuestion,
) (domain.QuizQuestion, error) {
	if g.cfg.RepairAttempts == 0 {
		return domain.QuizQuestion{}, errors.New("repair disabled")
	}

	single := g.retry
	single.attempts = 1

	var lastErr error
	for attempt := 1; attempt <= g.cfg.RepairAttempts; attempt++ {
		data := base
		data.Reason = reason
		data.Avoid = questionTexts(existing)

		prompt, err := renderPrompt(g.prompts, driven.PromptQuizRepair, data)
		if err != nil {
			return domain.QuizQuestion{}, err
		}
		q, err := generate(ctx, g.llm, single, prompt, driven.GenerateOptions{
			MaxTokens:   quizMaxTokens / 4,
			Temperature: quizTemperature,
		}, func(text string) (domain.QuizQuestion, error) {
			q, err := ParseQuestion(text, g.cfg.MaxOptions)
			if err != nil {
				return q, err
			}
			if isDuplicate(q, existing) {
				return q, &domain.MalformedQuizError{Reason: "duplicate question"}
			}
			return q, nil
		})
		if err == nil {
			logger.Debug("Repaired question after %d attempt(s)", attempt)
			return q, nil
		}
		if ctx.Err() != nil {
			return domain.QuizQuestion{}, ctx.Err()
		}
		lastErr = err
		var malformed *domain.MalformedQuizError
		if errors.As(err, &malformed) {
			reason = malformed.Reason
		}
	}
	return domain.QuizQuestion{}, fmt.Errorf("repair failed: %w", lastErr)
}

// Score grades answers keyed by question index and records the result when
// history is enabled.
func (g *QuizGenerator) Score(ctx context.Context, quiz *domain.Quiz, answers map[int]string) (*domain.QuizResult, error) {
	if quiz == nil || len(quiz.Questions) == 0 {
		return nil, domain.NewValidationError("quiz", "has no questions")
	}
	for i := range answers {
		if i < 0 || i >= len(quiz.Questions) {
			return nil, domain.NewValidationError("answers", "question %d does not exist", i+1)
		}
	}

	result := domain.ScoreQuiz(quiz, answers)
	result.ID = uuid.NewString()

	if g.history != nil {
		if err := g.history.SaveQuizResult(ctx, quiz, &result); err != nil {
			logger.Warn("Failed to record quiz result: %v", err)
		}
	}
	return &result, nil
}

// collectQuestions splits records into valid questions and the reasons of
// rejected ones, in completion order. Repeated questions are rejected.
func collectQuestions(records []QuizRecord) ([]domain.QuizQuestion, []string) {
	var (
		questions []domain.QuizQuestion
		problems  []string
	)
	for _, r := range records {
		switch {
		case !r.Valid():
			problems = append(problems, fmt.Sprintf("question %d: %s", r.Index+1, r.Reason))
		case isDuplicate(r.Question, questions):
			problems = append(problems, fmt.Sprintf("question %d: duplicate question", r.Index+1))
		default:
			questions = append(questions, r.Question)
		}
	}
	return questions, problems
}

func isDuplicate(q domain.QuizQuestion, existing []domain.QuizQuestion) bool {
	for _, e := range existing {
		if strings.EqualFold(e.Question, q.Question) {
			return true
		}
	}
	return false
}

func questionTexts(questions []domain.QuizQuestion) []string {
	texts := make([]string, len(questions))
	for i, q := range questions {
		texts[i] = q.Question
	}
	return texts
}

// sampleChunks picks m chunks spread evenly over all, at indices
// round(i*(n-1)/(m-1)), so every region of the corpus contributes.
func sampleChunks(all []domain.Chunk, m int) []domain.Chunk {
	n := len(all)
	if m >= n {
		return all
	}
	if m <= 1 {
		return all[:1]
	}
	sample := make([]domain.Chunk, m)
	for i := 0; i < m; i++ {
		idx := int(math.Round(float64(i) * float64(n-1) / float64(m-1)))
		sample[i] = all[idx]
	}
	return sample
}

// joinChunks concatenates chunk texts and truncates the result to budget characters.
func joinChunks(chunks []domain.Chunk, budget int) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return truncateRunes(strings.Join(texts, contextSeparator), budget)
}
