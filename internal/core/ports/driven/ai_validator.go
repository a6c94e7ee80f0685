package driven

import "github.com/custodia-labs/studymate/internal/core/domain"

// AIConfigValidator checks AI provider settings against the live service.
type AIConfigValidator interface {
	// ValidateEmbedding creates an embedding service and pings it.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM creates an LLM service and pings it.
	ValidateLLM(config *domain.LLMSettings) error
}
