package driven

import "context"

// LLMService completes a prompt. Answers and quizzes both go through
// Generate; retries and timeouts are the caller's concern.
type LLMService interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	ModelName() string

	// Ping makes the cheapest request the provider allows.
	Ping(ctx context.Context) error
	Close() error
}

// GenerateOptions tunes one Generate call. Zero values leave the
// provider's defaults in place.
type GenerateOptions struct {
	MaxTokens   int
	Temperature float64

	// System is sent as the provider's system instruction.
	System string
}
