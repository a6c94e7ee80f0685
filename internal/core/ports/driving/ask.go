package driving

import (
	"context"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// AskService answers questions grounded in the loaded documents.
type AskService interface {
	// Ask answers a question in the given language. With no documents
	// loaded it returns a fixed answer with empty sources and no error.
	Ask(ctx context.Context, question, language string) (*domain.Answer, error)
}
