package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Ensure Responder implements the interface.
var _ driving.AskService = (*Responder)(nil)

const contextSeparator = "\n\n"

// answerMaxTokens bounds the length of generated answers.
const answerMaxTokens = 1024

// Responder answers questions from the chunks most similar to them.
type Responder struct {
	session         *Session
	llm             driven.LLMService
	prompts         driven.PromptStore
	topK            int
	contextBudget   int
	defaultLanguage string
	retry           retryPolicy
}

// NewResponder creates a responder. A nil LLM service makes Ask fail with
// ErrLLMUnavailable once documents are loaded.
func NewResponder(
	session *Session,
	llm driven.LLMService,
	prompts driven.PromptStore,
	settings domain.AppSettings,
) *Responder {
	topK := settings.Retrieval.TopK
	if topK < 1 {
		topK = domain.DefaultAppSettings().Retrieval.TopK
	}
	budget := settings.Responder.ContextBudget
	if budget < 1 {
		budget = domain.DefaultAppSettings().Responder.ContextBudget
	}
	return &Responder{
		session:         session,
		llm:             llm,
		prompts:         prompts,
		topK:            topK,
		contextBudget:   budget,
		defaultLanguage: settings.DefaultLanguage,
		retry:           retryPolicyFrom(settings.Responder),
	}
}

// Ask answers a question in the given language.
func (r *Responder) Ask(ctx context.Context, question, language string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.NewValidationError("question", "must not be empty")
	}
	lang, err := resolveLanguage(language, r.defaultLanguage)
	if err != nil {
		return nil, err
	}

	logger.Section("Ask")
	logger.Debug("Question: %q (language %s, top_k %d)", question, lang.Name, r.topK)

	// 1. Retrieve
	count, retrieved, err := r.session.retrieve(ctx, question, r.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve chunks: %w", err)
	}
	if count == 0 {
		logger.Debug("No documents loaded")
		return &domain.Answer{Text: domain.NoDocumentsAnswer, Sources: []string{}, NoDocuments: true}, nil
	}
	for i, sc := range retrieved {
		logger.Debug("  %d. %s#%d score=%.4f", i+1, sc.Chunk.DocumentFilename, sc.Chunk.ID, sc.Score)
	}

	// 2. Assemble context within budget
	contextText, used := assembleContext(retrieved, r.contextBudget)
	logger.Debug("Context: %d chunk(s), %d chars", len(used), utf8.RuneCountInString(contextText))

	// 3. Build prompt
	directive, err := languageDirective(r.prompts, lang)
	if err != nil {
		return nil, err
	}
	prompt, err := renderPrompt(r.prompts, driven.PromptAnswer, struct {
		Context           string
		Question          string
		LanguageDirective string
	}{contextText, question, directive})
	if err != nil {
		return nil, err
	}

	// 4. Generate
	text, err := generate(ctx, r.llm, r.retry, prompt, driven.GenerateOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: 0.3,
	}, acceptText)
	if err != nil {
		return nil, err
	}

	return &domain.Answer{
		Text:    text,
		Sources: distinctSources(used),
		Chunks:  used,
	}, nil
}

// assembleContext joins chunks in score order until the budget is reached.
// Lower-scored chunks are dropped first. A single chunk larger than the
// whole budget is truncated to fit.
func assembleContext(chunks []domain.ScoredChunk, budget int) (string, []domain.ScoredChunk) {
	var (
		sb     strings.Builder
		used   []domain.ScoredChunk
		length int
	)
	sepLen := utf8.RuneCountInString(contextSeparator)

	for _, sc := range chunks {
		n := utf8.RuneCountInString(sc.Chunk.Text)
		if len(used) == 0 {
			if n > budget {
				sb.WriteString(truncateRunes(sc.Chunk.Text, budget))
				used = append(used, sc)
				break
			}
			sb.WriteString(sc.Chunk.Text)
			length = n
			used = append(used, sc)
			continue
		}
		if length+sepLen+n > budget {
			break
		}
		sb.WriteString(contextSeparator)
		sb.WriteString(sc.Chunk.Text)
		length += sepLen + n
		used = append(used, sc)
	}
	return sb.String(), used
}

// distinctSources returns the filenames of chunks in first-use order.
func distinctSources(chunks []domain.ScoredChunk) []string {
	seen := make(map[string]bool, len(chunks))
	sources := make([]string, 0, len(chunks))
	for _, sc := range chunks {
		name := sc.Chunk.DocumentFilename
		if !seen[name] {
			seen[name] = true
			sources = append(sources, name)
		}
	}
	return sources
}
