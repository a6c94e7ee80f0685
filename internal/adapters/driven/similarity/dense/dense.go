// Package dense scores chunks by cosine similarity of embeddings.
package dense

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Name is the strategy name.
const Name = "dense"

// Query embedding cache defaults.
const (
	DefaultCacheTTL     = 30 * time.Minute
	DefaultCacheCleanup = 10 * time.Minute
	DefaultBatchSize    = 64
)

// Ensure Similarity implements the interface.
var _ driven.Similarity = (*Similarity)(nil)

// Similarity embeds chunks at ingestion and compares them to the embedded
// query. Query vectors are cached since the same question is often re-asked.
type Similarity struct {
	embedder  driven.EmbeddingService
	queries   *cache.Cache
	batchSize int
}

// Option configures the dense strategy.
type Option func(*Similarity)

// WithCacheTTL sets how long query embeddings are kept. Non-positive
// values keep the default.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Similarity) {
		if ttl > 0 {
			s.queries = cache.New(ttl, DefaultCacheCleanup)
		}
	}
}

// WithBatchSize sets how many chunk texts go into one embedding request.
func WithBatchSize(n int) Option {
	return func(s *Similarity) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// New creates a dense strategy backed by embedder.
func New(embedder driven.EmbeddingService, opts ...Option) (*Similarity, error) {
	if embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	s := &Similarity{
		embedder:  embedder,
		queries:   cache.New(DefaultCacheTTL, DefaultCacheCleanup),
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name returns the strategy name.
func (s *Similarity) Name() string { return Name }

// Prepare embeds every chunk. Embeddings are assigned only after all
// batches succeed.
func (s *Similarity) Prepare(ctx context.Context, chunks []domain.Chunk) error {
	vectors := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += s.batchSize {
		end := min(start+s.batchSize, len(chunks))
		texts := make([]string, 0, end-start)
		for _, ch := range chunks[start:end] {
			texts = append(texts, ch.Text)
		}

		batch, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed chunks %d-%d: %w", start, end-1, err)
		}
		if len(batch) != len(texts) {
			return fmt.Errorf("embed chunks %d-%d: got %d vectors for %d texts", start, end-1, len(batch), len(texts))
		}
		vectors = append(vectors, batch...)
		logger.Debug("dense: embedded chunks %d-%d of %d", start, end-1, len(chunks))
	}

	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}
	return nil
}

// Scorer embeds the query (or reuses a cached vector) and returns cosine
// similarity against chunk embeddings. Chunks without an embedding score 0.
func (s *Similarity) Scorer(ctx context.Context, query string) (driven.ScoreFunc, error) {
	q, err := s.queryVector(ctx, query)
	if err != nil {
		return nil, err
	}
	return func(ch domain.Chunk) float64 {
		return Cosine(q, ch.Embedding)
	}, nil
}

func (s *Similarity) queryVector(ctx context.Context, query string) ([]float32, error) {
	key := s.embedder.ModelName() + "\x00" + query
	if v, ok := s.queries.Get(key); ok {
		return v.([]float32), nil
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	s.queries.Set(key, vec, cache.DefaultExpiration)
	return vec, nil
}

// Cosine returns the cosine similarity of a and b, or 0 when the lengths
// differ or either vector is zero.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
