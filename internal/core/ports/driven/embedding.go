package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Transient failures (network faults, rate limits, 5xx responses) are
// returned wrapped in domain.ErrTransient; the caller decides whether to
// retry. The service itself never retries.
type EmbeddingService interface {
	// Embed generates a vector embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one provider
	// call. The result has the same length and order as the input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName returns the name of the embedding model being used.
	ModelName() string
}
