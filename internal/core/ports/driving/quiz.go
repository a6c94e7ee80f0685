package driving

import (
	"context"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// QuizRequest describes a quiz to generate.
type QuizRequest struct {
	Count      int
	Difficulty domain.Difficulty
	Language   string
}

// QuizService generates and scores multiple-choice quizzes.
type QuizService interface {
	// Generate produces a quiz. When fewer valid questions than requested
	// could be produced, the quiz is returned together with a
	// *domain.PartialQuizWarning error.
	Generate(ctx context.Context, req QuizRequest) (*domain.Quiz, error)

	// Score grades answers keyed by question index.
	Score(ctx context.Context, quiz *domain.Quiz, answers map[int]string) (*domain.QuizResult, error)
}
