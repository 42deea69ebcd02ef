package driven

import (
	"context"

	"github.com/arcanum-labs/bookrag/internal/core/domain"
)

// PassageStore persists segmented passages between the chunk and upload
// steps. Sets are keyed by namespace; saving a namespace replaces its
// previous set wholesale.
type PassageStore interface {
	// SavePassages stores or replaces the passage set for its namespace.
	SavePassages(ctx context.Context, set domain.PassageSet) error

	// LoadPassages retrieves the passage set for a namespace.
	// Returns domain.ErrNotFound if the namespace has never been saved.
	LoadPassages(ctx context.Context, namespace string) (*domain.PassageSet, error)
}

// ProgressStore is the durable upload ledger: for each namespace, the number
// of leading passages (by sequence index) already embedded and persisted.
// It is the single source of truth for resumption. Counts never decrease.
//
// A Save must be atomic enough that a crash mid-write cannot corrupt
// previously committed state. Concurrent writers to the same namespace are
// not supported; preventing them is the operator's responsibility.
type ProgressStore interface {
	// Load returns the complete namespace -> uploadedCount mapping.
	// Absent persisted state yields an empty map, not an error.
	Load(ctx context.Context) (map[string]int, error)

	// Save durably records uploadedCount for the namespace, persisting the
	// complete updated mapping so a later Load in a new process observes it.
	Save(ctx context.Context, namespace string, uploadedCount int) error
}
