package driven

import (
	"context"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// HistoryStore persists scored quiz attempts and exported chat transcripts.
// Documents themselves are never persisted.
type HistoryStore interface {
	// SaveQuizResult stores a scored attempt together with its questions.
	SaveQuizResult(ctx context.Context, quiz *domain.Quiz, result *domain.QuizResult) error

	// ListQuizResults returns the most recent results first.
	ListQuizResults(ctx context.Context, limit int) ([]domain.QuizResult, error)

	// GetQuizExport loads a stored result in export form.
	GetQuizExport(ctx context.Context, resultID string) (*domain.QuizExport, error)

	// SaveChat stores an exported transcript.
	SaveChat(ctx context.Context, export *domain.ChatExport) error

	// Close releases resources.
	Close() error
}
