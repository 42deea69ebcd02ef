// Package memory provides in-memory passage and progress storage,
// primarily for tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/arcanum-labs/bookrag/internal/core/domain"
	"github.com/arcanum-labs/bookrag/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.PassageStore  = (*Store)(nil)
	_ driven.ProgressStore = (*Store)(nil)
)

// Store keeps passage sets and upload progress in process memory.
type Store struct {
	mu       sync.RWMutex
	sets     map[string]domain.PassageSet
	progress map[string]int
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		sets:     make(map[string]domain.PassageSet),
		progress: make(map[string]int),
	}
}

// SavePassages stores or replaces the passage set for its namespace.
func (s *Store) SavePassages(_ context.Context, set domain.PassageSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := set
	cp.Passages = make([]domain.Passage, len(set.Passages))
	copy(cp.Passages, set.Passages)
	s.sets[set.Namespace] = cp
	return nil
}

// LoadPassages retrieves the passage set for a namespace.
func (s *Store) LoadPassages(_ context.Context, namespace string) (*domain.PassageSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sets[namespace]
	if !ok {
		return nil, fmt.Errorf("passages for namespace %q: %w", namespace, domain.ErrNotFound)
	}

	cp := set
	cp.Passages = make([]domain.Passage, len(set.Passages))
	copy(cp.Passages, set.Passages)
	return &cp, nil
}

// Load returns a copy of the namespace -> uploadedCount mapping.
func (s *Store) Load(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	progress := make(map[string]int, len(s.progress))
	for k, v := range s.progress {
		progress[k] = v
	}
	return progress, nil
}

// Save records uploadedCount for the namespace.
func (s *Store) Save(_ context.Context, namespace string, uploadedCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.progress[namespace] = uploadedCount
	return nil
}
