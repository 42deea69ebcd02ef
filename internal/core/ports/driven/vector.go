package driven

import (
	"context"

	"github.com/arcanum-labs/bookrag/internal/core/domain"
)

// VectorStore persists embeddings in per-document namespaces and answers
// nearest-neighbour queries. Upsert is idempotent by record ID: writing the
// same ID twice overwrites rather than duplicates, which is what makes
// at-least-once batch delivery safe.
//
// Transient failures are wrapped in domain.ErrTransient, as for
// EmbeddingService.
type VectorStore interface {
	// Upsert inserts or overwrites records under the namespace.
	Upsert(ctx context.Context, namespace string, records []domain.VectorRecord) error

	// Query returns the topK nearest matches to the vector within the
	// namespace, ordered by descending similarity. A namespace with no
	// vectors yields an empty slice, not an error.
	Query(ctx context.Context, namespace string, vector []float32, topK int) ([]domain.Match, error)
}
