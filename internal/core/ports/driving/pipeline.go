// Package driving provides interfaces for entry-point adapters
// (primary/inbound ports) such as the CLI and the interactive TUI.
package driving

import (
	"context"

	"github.com/arcanum-labs/bookrag/internal/core/domain"
)

// Chunker turns a raw text file into a persisted passage set.
type Chunker interface {
	// ChunkFile reads the text file at path, segments it under the
	// configured token budget and saves the resulting passage set.
	ChunkFile(ctx context.Context, path, title string) (*domain.PassageSet, error)
}

// Uploader embeds and persists the passages of a namespace, resuming from
// the progress ledger.
type Uploader interface {
	// Upload processes all not-yet-uploaded passages of the stored set for
	// title. Returns the number of passages uploaded by this run.
	Upload(ctx context.Context, title string) (int, error)
}

// Retriever answers similarity queries against a document's namespace.
type Retriever interface {
	// Retrieve embeds the query and returns the topK nearest passages.
	Retrieve(ctx context.Context, query, title string, topK int) ([]domain.Match, error)
}

// Answerer synthesises an answer from retrieved context.
type Answerer interface {
	// Answer retrieves context for the question and asks the chat model.
	// The matches used as context are returned alongside the answer.
	Answer(ctx context.Context, question, title string) (string, []domain.Match, error)
}
