// Package pinecone provides a VectorStore adapter for a Pinecone index,
// using its REST data-plane API.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/arcanum-labs/bookrag/internal/adapters/driven/ratelimit"
	"github.com/arcanum-labs/bookrag/internal/core/domain"
	"github.com/arcanum-labs/bookrag/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// DefaultTimeout bounds each data-plane request.
const DefaultTimeout = 60 * time.Second

// Config holds configuration for the Pinecone store.
type Config struct {
	// APIKey is the Pinecone API key (required).
	APIKey string

	// Host is the index host URL, e.g.
	// https://myindex-abc123.svc.us-east-1-aws.pinecone.io (required).
	Host string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// RateLimit paces requests; zero values use conservative defaults.
	RateLimit ratelimit.Config
}

// Store is a REST client for one Pinecone index.
type Store struct {
	client  *http.Client
	host    string
	apiKey  string
	limiter *ratelimit.Limiter
}

// upsertRequest is the /vectors/upsert request format.
type upsertRequest struct {
	Vectors   []domain.VectorRecord `json:"vectors"`
	Namespace string                `json:"namespace"`
}

// queryRequest is the /query request format.
type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	Namespace       string    `json:"namespace"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

// queryResponse is the /query response format.
type queryResponse struct {
	Matches []struct {
		ID       string                `json:"id"`
		Score    float64               `json:"score"`
		Metadata domain.VectorMetadata `json:"metadata"`
	} `json:"matches"`
}

// New creates a Pinecone store for the configured index host.
func New(cfg Config) (*Store, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: Pinecone API key is required", domain.ErrMissingCredentials)
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: Pinecone index host is required", domain.ErrMissingCredentials)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Store{
		client:  &http.Client{Timeout: cfg.Timeout},
		host:    strings.TrimSuffix(cfg.Host, "/"),
		apiKey:  cfg.APIKey,
		limiter: ratelimit.New(cfg.RateLimit),
	}, nil
}

// Upsert inserts or overwrites records under the namespace. Pinecone
// upserts are idempotent by vector ID.
func (s *Store) Upsert(ctx context.Context, namespace string, records []domain.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}
	body := upsertRequest{Vectors: records, Namespace: namespace}
	return s.post(ctx, "/vectors/upsert", body, nil)
}

// Query returns the topK nearest matches within the namespace, ordered by
// descending score as returned by Pinecone. An empty namespace yields an
// empty slice.
func (s *Store) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]domain.Match, error) {
	body := queryRequest{
		Vector:          vector,
		TopK:            topK,
		Namespace:       namespace,
		IncludeMetadata: true,
	}
	var resp queryResponse
	if err := s.post(ctx, "/query", body, &resp); err != nil {
		return nil, err
	}

	matches := make([]domain.Match, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		matches = append(matches, domain.Match{
			DocumentID:    m.Metadata.DocumentID,
			SequenceIndex: m.Metadata.SequenceIndex,
			Content:       m.Metadata.Content,
			Score:         m.Score,
		})
	}
	return matches, nil
}

func (s *Store) post(ctx context.Context, path string, body, out any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.host+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: pinecone %s: %v", domain.ErrTransient, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read pinecone response: %v", domain.ErrTransient, err)
	}

	if resp.StatusCode != http.StatusOK {
		return s.statusError(resp, path, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode pinecone response: %w", err)
		}
	}
	return nil
}

// statusError classifies a non-200 response. Rate limits and server errors
// are transient; anything else is permanent.
func (s *Store) statusError(resp *http.Response, path string, body []byte) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		s.limiter.RecordRateLimitError(retryAfter)
		return fmt.Errorf("%w: pinecone rate limited (status %d)", domain.ErrTransient, resp.StatusCode)
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: pinecone server error (status %d)", domain.ErrTransient, resp.StatusCode)
	}
	return fmt.Errorf("pinecone %s failed (status %d): %s", path, resp.StatusCode, string(body))
}
