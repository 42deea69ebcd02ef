package services

import (
	"context"
	"fmt"

	"github.com/arcanum-labs/bookrag/internal/core/domain"
	"github.com/arcanum-labs/bookrag/internal/core/ports/driven"
	"github.com/arcanum-labs/bookrag/internal/core/ports/driving"
	"github.com/arcanum-labs/bookrag/internal/logger"
)

// Ensure RetrieveService implements the interface.
var _ driving.Retriever = (*RetrieveService)(nil)

// DefaultTopK is the number of passages returned when the caller does not
// ask for a specific count.
const DefaultTopK = 5

// RetrieveService answers similarity queries against a document namespace.
type RetrieveService struct {
	embedder driven.EmbeddingService
	vectors  driven.VectorStore
}

// NewRetrieveService creates a retrieve service.
func NewRetrieveService(embedder driven.EmbeddingService, vectors driven.VectorStore) *RetrieveService {
	return &RetrieveService{embedder: embedder, vectors: vectors}
}

// Retrieve embeds the query with the same model used at upload time and
// returns the topK nearest passages. An empty or never-uploaded namespace
// yields an empty result.
func (s *RetrieveService) Retrieve(ctx context.Context, query, title string, topK int) ([]domain.Match, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	namespace := domain.Namespace(title)

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := s.vectors.Query(ctx, namespace, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", namespace, err)
	}

	logger.Debug("Query against %s returned %d matches", namespace, len(matches))
	return matches, nil
}
