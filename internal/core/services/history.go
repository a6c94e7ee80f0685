package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService exports conversations and quiz results.
// With a nil store exports still work but nothing is recorded.
type HistoryService struct {
	store driven.HistoryStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(store driven.HistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// ExportChat builds the export form of a conversation and records it.
func (s *HistoryService) ExportChat(ctx context.Context, messages []domain.ChatMessage) (*domain.ChatExport, error) {
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	export := &domain.ChatExport{
		ID:            uuid.NewString(),
		Type:          domain.ExportTypeChat,
		Messages:      messages,
		TotalMessages: len(messages),
		ExportedAt:    time.Now(),
	}
	if s.store != nil {
		if err := s.store.SaveChat(ctx, export); err != nil {
			return nil, fmt.Errorf("save chat: %w", err)
		}
	}
	return export, nil
}

// ExportQuiz builds the export form of a scored quiz.
func (s *HistoryService) ExportQuiz(quiz *domain.Quiz, result *domain.QuizResult) *domain.QuizExport {
	return &domain.QuizExport{
		Type:       domain.ExportTypeQuiz,
		Quiz:       quiz.Questions,
		Answers:    result.Answers,
		Score:      result.Score,
		Total:      result.Total,
		Percentage: result.Percentage,
		Difficulty: quiz.Difficulty,
		Language:   quiz.Language,
		ExportedAt: time.Now(),
	}
}

// Results lists stored quiz results, most recent first.
func (s *HistoryService) Results(ctx context.Context, limit int) ([]domain.QuizResult, error) {
	if s.store == nil {
		return nil, domain.ErrHistoryDisabled
	}
	if limit < 1 {
		limit = 20
	}
	return s.store.ListQuizResults(ctx, limit)
}

// LoadQuizExport loads a stored result in export form.
func (s *HistoryService) LoadQuizExport(ctx context.Context, resultID string) (*domain.QuizExport, error) {
	if s.store == nil {
		return nil, domain.ErrHistoryDisabled
	}
	return s.store.GetQuizExport(ctx, resultID)
}
