package driving

import (
	"context"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// HistoryService exports conversations and quiz results.
type HistoryService interface {
	// ExportChat builds the export form of a conversation and stores it
	// when history is enabled.
	ExportChat(ctx context.Context, messages []domain.ChatMessage) (*domain.ChatExport, error)

	// ExportQuiz builds the export form of a scored quiz.
	ExportQuiz(quiz *domain.Quiz, result *domain.QuizResult) *domain.QuizExport

	// Results lists stored quiz results, most recent first.
	Results(ctx context.Context, limit int) ([]domain.QuizResult, error)

	// LoadQuizExport loads a stored result in export form.
	LoadQuizExport(ctx context.Context, resultID string) (*domain.QuizExport, error)
}
