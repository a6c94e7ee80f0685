package driven

import "context"

// EmbeddingService turns text into vectors for dense retrieval. Lexical
// retrieval never needs one.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per text, in the order given.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the length of every returned vector.
	Dimensions() int
	ModelName() string

	// Ping makes the cheapest request the provider allows.
	Ping(ctx context.Context) error
	Close() error
}
