package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanum-labs/bookrag/internal/adapters/driven/storage/memory"
	"github.com/arcanum-labs/bookrag/internal/core/domain"
	"github.com/arcanum-labs/bookrag/internal/retry"
)

// mockEmbedder returns one-element vectors derived from text length and
// records every text it was asked to embed.
type mockEmbedder struct {
	mu       sync.Mutex
	embedded []string
	failures int // fail this many calls before succeeding
	err      error
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		if m.err != nil {
			return nil, m.err
		}
		return nil, fmt.Errorf("%w: connection reset", domain.ErrTransient)
	}
	vecs := make([][]float32, len(texts))
	for i, t := range texts {
		m.embedded = append(m.embedded, t)
		vecs[i] = []float32{float32(len(t))}
	}
	return vecs, nil
}

func (m *mockEmbedder) ModelName() string { return "mock-embedding" }

// mockVectorStore keeps records per namespace keyed by ID and can fail a
// set number of upserts.
type mockVectorStore struct {
	mu       sync.Mutex
	records  map[string]map[string]domain.VectorRecord
	upserts  [][]domain.VectorRecord
	failures int
}

func newMockVectorStore() *mockVectorStore {
	return &mockVectorStore{records: make(map[string]map[string]domain.VectorRecord)}
}

func (m *mockVectorStore) Upsert(_ context.Context, namespace string, records []domain.VectorRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return fmt.Errorf("%w: upstream unavailable", domain.ErrTransient)
	}
	ns, ok := m.records[namespace]
	if !ok {
		ns = make(map[string]domain.VectorRecord)
		m.records[namespace] = ns
	}
	for _, r := range records {
		ns[r.ID] = r
	}
	m.upserts = append(m.upserts, records)
	return nil
}

func (m *mockVectorStore) Query(_ context.Context, namespace string, _ []float32, topK int) ([]domain.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matches []domain.Match
	for _, r := range m.records[namespace] {
		matches = append(matches, domain.Match{
			DocumentID:    r.Metadata.DocumentID,
			SequenceIndex: r.Metadata.SequenceIndex,
			Content:       r.Metadata.Content,
			Score:         0.9,
		})
		if len(matches) == topK {
			break
		}
	}
	return matches, nil
}

// fastPolicy keeps retry backoff out of test runtime.
var fastPolicy = retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}

func storedSet(title string, n int) domain.PassageSet {
	set := domain.PassageSet{
		DocumentID: title,
		Namespace:  domain.Namespace(title),
		MaxTokens:  400,
		Tokenizer:  "mock",
	}
	for i := 0; i < n; i++ {
		set.Passages = append(set.Passages, domain.Passage{
			Content:       fmt.Sprintf("passage %d", i),
			DocumentID:    title,
			SequenceIndex: i,
		})
	}
	return set
}

func TestUploadFromScratch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	embedder := &mockEmbedder{}
	vectors := newMockVectorStore()

	require.NoError(t, store.SavePassages(ctx, storedSet("My Book", 250)))

	svc := NewUploadService(store, store, embedder, vectors, 100, fastPolicy)
	sent, err := svc.Upload(ctx, "My Book")
	require.NoError(t, err)
	assert.Equal(t, 250, sent)

	// 100 + 100 + 50
	require.Len(t, vectors.upserts, 3)
	assert.Len(t, vectors.upserts[0], 100)
	assert.Len(t, vectors.upserts[2], 50)

	progress, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 250, progress["my-book"])
}

func TestUploadResumesFromLedger(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	embedder := &mockEmbedder{}
	vectors := newMockVectorStore()

	require.NoError(t, store.SavePassages(ctx, storedSet("My Book", 10)))
	require.NoError(t, store.Save(ctx, "my-book", 7))

	svc := NewUploadService(store, store, embedder, vectors, 100, fastPolicy)
	sent, err := svc.Upload(ctx, "My Book")
	require.NoError(t, err)
	assert.Equal(t, 3, sent)

	// Only passages 7..9 were embedded, none re-sent.
	assert.Equal(t, []string{"passage 7", "passage 8", "passage 9"}, embedder.embedded)
}

func TestUploadFinalPartialBatch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	embedder := &mockEmbedder{}
	vectors := newMockVectorStore()

	require.NoError(t, store.SavePassages(ctx, storedSet("X", 150)))
	require.NoError(t, store.Save(ctx, "x", 100))

	svc := NewUploadService(store, store, embedder, vectors, 100, fastPolicy)
	sent, err := svc.Upload(ctx, "X")
	require.NoError(t, err)
	assert.Equal(t, 50, sent)

	require.Len(t, vectors.upserts, 1)
	batch := vectors.upserts[0]
	require.Len(t, batch, 50)
	assert.Equal(t, "x-chunk-100", batch[0].ID)
	assert.Equal(t, "x-chunk-149", batch[49].ID)

	progress, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 150, progress["x"])
}

func TestUploadAlreadyComplete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	embedder := &mockEmbedder{}
	vectors := newMockVectorStore()

	require.NoError(t, store.SavePassages(ctx, storedSet("Done", 5)))
	require.NoError(t, store.Save(ctx, "done", 5))

	svc := NewUploadService(store, store, embedder, vectors, 2, fastPolicy)
	sent, err := svc.Upload(ctx, "Done")
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, embedder.embedded)
}

func TestUploadAdvancesLedgerPerBatch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	embedder := &mockEmbedder{}
	vectors := newMockVectorStore()

	require.NoError(t, store.SavePassages(ctx, storedSet("Steps", 7)))

	var seen []int
	svc := NewUploadService(store, store, embedder, vectors, 3, fastPolicy)
	svc.OnBatch = func(p BatchProgress) { seen = append(seen, p.Uploaded) }

	_, err := svc.Upload(ctx, "Steps")
	require.NoError(t, err)

	// Ledger advances by actual batch length, including the short tail.
	assert.Equal(t, []int{3, 6, 7}, seen)
}

func TestUploadFailureLeavesLedgerAtLastConfirmedBatch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	// Enough failures to exhaust the retry budget on the second batch.
	embedder := &mockEmbedder{}
	vectors := newMockVectorStore()

	require.NoError(t, store.SavePassages(ctx, storedSet("Crash", 6)))

	svc := NewUploadService(store, store, embedder, vectors, 3, fastPolicy)

	// First batch succeeds, second batch's upserts all fail.
	vectorsFailAfterFirst := func() {
		vectors.mu.Lock()
		vectors.failures = fastPolicy.MaxAttempts
		vectors.mu.Unlock()
	}
	svc.OnBatch = func(BatchProgress) { vectorsFailAfterFirst() }

	sent, err := svc.Upload(ctx, "Crash")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.Contains(t, err.Error(), "batch 1")
	assert.Equal(t, 3, sent)

	progress, lerr := store.Load(ctx)
	require.NoError(t, lerr)
	assert.Equal(t, 3, progress["crash"])

	// A second run re-sends the failed batch under the same IDs.
	vectors.mu.Lock()
	vectors.failures = 0
	vectors.mu.Unlock()
	svc.OnBatch = nil

	sent, err = svc.Upload(ctx, "Crash")
	require.NoError(t, err)
	assert.Equal(t, 3, sent)
	assert.Len(t, vectors.records["crash"], 6)
}

func TestUploadRetriesTransientEmbedErrors(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	embedder := &mockEmbedder{failures: 2}
	vectors := newMockVectorStore()

	require.NoError(t, store.SavePassages(ctx, storedSet("Flaky", 4)))

	svc := NewUploadService(store, store, embedder, vectors, 100, fastPolicy)
	sent, err := svc.Upload(ctx, "Flaky")
	require.NoError(t, err)
	assert.Equal(t, 4, sent)
}

func TestUploadReupsertOverwritesById(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	embedder := &mockEmbedder{}
	vectors := newMockVectorStore()

	require.NoError(t, store.SavePassages(ctx, storedSet("Twice", 3)))

	svc := NewUploadService(store, store, embedder, vectors, 100, fastPolicy)
	_, err := svc.Upload(ctx, "Twice")
	require.NoError(t, err)

	// Reset the ledger to force a full re-send.
	require.NoError(t, store.Save(ctx, "twice", 0))
	_, err = svc.Upload(ctx, "Twice")
	require.NoError(t, err)

	assert.Len(t, vectors.records["twice"], 3)
}

func TestUploadUnknownNamespace(t *testing.T) {
	store := memory.NewStore()
	svc := NewUploadService(store, store, &mockEmbedder{}, newMockVectorStore(), 100, fastPolicy)

	_, err := svc.Upload(context.Background(), "Never Chunked")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
