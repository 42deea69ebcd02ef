// Package services implements the core pipeline operations behind the
// driving ports: chunking, upload, retrieval and answer synthesis.
package services

import (
	"context"
	"fmt"
	"os"

	"github.com/arcanum-labs/bookrag/internal/core/domain"
	"github.com/arcanum-labs/bookrag/internal/core/ports/driven"
	"github.com/arcanum-labs/bookrag/internal/core/ports/driving"
	"github.com/arcanum-labs/bookrag/internal/logger"
	"github.com/arcanum-labs/bookrag/internal/segmenter"
)

// Ensure ChunkService implements the interface.
var _ driving.Chunker = (*ChunkService)(nil)

// ChunkService segments a text file into passages and persists the set.
type ChunkService struct {
	segmenter *segmenter.Segmenter
	counter   driven.TokenCounter
	passages  driven.PassageStore
}

// NewChunkService creates a chunk service with the given token counter and
// budget.
func NewChunkService(counter driven.TokenCounter, maxTokens int, passages driven.PassageStore) (*ChunkService, error) {
	seg, err := segmenter.New(counter, maxTokens)
	if err != nil {
		return nil, err
	}
	return &ChunkService{
		segmenter: seg,
		counter:   counter,
		passages:  passages,
	}, nil
}

// ChunkFile reads the text file at path, segments it and saves the result
// under the namespace derived from title.
func (s *ChunkService) ChunkFile(ctx context.Context, path, title string) (*domain.PassageSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source file: %w", err)
	}

	passages := s.segmenter.Segment(string(raw), title)
	if len(passages) == 0 {
		return nil, fmt.Errorf("segmenting %q: %w", title, domain.ErrNoPassages)
	}

	set := domain.PassageSet{
		DocumentID: title,
		Namespace:  domain.Namespace(title),
		MaxTokens:  s.segmenter.MaxTokens(),
		Tokenizer:  s.counter.Name(),
		Passages:   passages,
	}

	if err := s.passages.SavePassages(ctx, set); err != nil {
		return nil, fmt.Errorf("save passages: %w", err)
	}

	logger.Info("Segmented %q into %d passages (namespace %s)", title, len(passages), set.Namespace)
	return &set, nil
}
