package services

import (
	"context"
	"fmt"

	"github.com/arcanum-labs/bookrag/internal/core/domain"
	"github.com/arcanum-labs/bookrag/internal/core/ports/driven"
	"github.com/arcanum-labs/bookrag/internal/core/ports/driving"
	"github.com/arcanum-labs/bookrag/internal/logger"
	"github.com/arcanum-labs/bookrag/internal/retry"
	"github.com/arcanum-labs/bookrag/internal/segmenter"
)

// Ensure UploadService implements the interface.
var _ driving.Uploader = (*UploadService)(nil)

// DefaultBatchSize is the number of passages embedded and upserted per
// provider round trip.
const DefaultBatchSize = 100

// BatchProgress reports one confirmed batch to the caller. Batches and
// totals are counted in passages, not requests.
type BatchProgress struct {
	Namespace string
	Uploaded  int // passages confirmed so far, including earlier runs
	Total     int // passages in the stored set
}

// UploadService embeds stored passages and upserts them into the vector
// store, resuming from the progress ledger.
//
// Delivery is at-least-once: the ledger is advanced only after a batch is
// durably upserted, so a crash between upsert and ledger write re-sends
// that batch on the next run. Record IDs are deterministic, so the re-send
// overwrites rather than duplicates.
type UploadService struct {
	passages  driven.PassageStore
	progress  driven.ProgressStore
	embedder  driven.EmbeddingService
	vectors   driven.VectorStore
	batchSize int
	policy    retry.Policy

	// OnBatch, when set, is called after each confirmed batch.
	OnBatch func(BatchProgress)
}

// NewUploadService creates an upload service. A batchSize of zero or less
// falls back to DefaultBatchSize; a zero policy falls back to retry.Default.
func NewUploadService(
	passages driven.PassageStore,
	progress driven.ProgressStore,
	embedder driven.EmbeddingService,
	vectors driven.VectorStore,
	batchSize int,
	policy retry.Policy,
) *UploadService {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if policy.MaxAttempts == 0 {
		policy = retry.Default
	}
	return &UploadService{
		passages:  passages,
		progress:  progress,
		embedder:  embedder,
		vectors:   vectors,
		batchSize: batchSize,
		policy:    policy,
	}
}

// Upload processes all not-yet-uploaded passages of the stored set for
// title and returns how many passages this run uploaded.
func (s *UploadService) Upload(ctx context.Context, title string) (int, error) {
	namespace := domain.Namespace(title)

	set, err := s.passages.LoadPassages(ctx, namespace)
	if err != nil {
		return 0, fmt.Errorf("load passages: %w", err)
	}
	if len(set.Passages) == 0 {
		return 0, fmt.Errorf("namespace %q: %w", namespace, domain.ErrNoPassages)
	}

	ledger, err := s.progress.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load progress: %w", err)
	}
	uploaded := ledger[namespace]
	total := len(set.Passages)

	if uploaded >= total {
		logger.Info("Namespace %s already fully uploaded (%d passages)", namespace, total)
		return 0, nil
	}
	if uploaded > 0 {
		logger.Info("Resuming %s at passage %d of %d", namespace, uploaded, total)
	}

	sent := 0
	for i, batch := range segmenter.Batch(set.Passages[uploaded:], s.batchSize) {
		if err := s.uploadBatch(ctx, namespace, batch); err != nil {
			return sent, fmt.Errorf("batch %d (passages %d-%d): %w",
				i, batch[0].SequenceIndex, batch[len(batch)-1].SequenceIndex, err)
		}

		uploaded += len(batch)
		sent += len(batch)
		if err := s.progress.Save(ctx, namespace, uploaded); err != nil {
			return sent, fmt.Errorf("save progress: %w", err)
		}

		logger.Debug("Uploaded batch of %d to %s (%d/%d)", len(batch), namespace, uploaded, total)
		if s.OnBatch != nil {
			s.OnBatch(BatchProgress{Namespace: namespace, Uploaded: uploaded, Total: total})
		}
	}

	return sent, nil
}

// uploadBatch embeds one batch and upserts it, retrying each external call
// under the configured policy.
func (s *UploadService) uploadBatch(ctx context.Context, namespace string, batch []domain.Passage) error {
	texts := make([]string, len(batch))
	for i, p := range batch {
		texts[i] = p.Content
	}

	vectors, err := retry.DoValue(ctx, s.policy, func(ctx context.Context) ([][]float32, error) {
		return s.embedder.EmbedBatch(ctx, texts)
	})
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("embedding count mismatch: got %d for %d passages", len(vectors), len(batch))
	}

	records := make([]domain.VectorRecord, len(batch))
	for i, p := range batch {
		records[i] = domain.VectorRecord{
			ID:     domain.RecordID(namespace, p.SequenceIndex),
			Values: vectors[i],
			Metadata: domain.VectorMetadata{
				DocumentID:    p.DocumentID,
				SequenceIndex: p.SequenceIndex,
				Content:       p.Content,
			},
		}
	}

	if err := retry.Do(ctx, s.policy, func(ctx context.Context) error {
		return s.vectors.Upsert(ctx, namespace, records)
	}); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}
