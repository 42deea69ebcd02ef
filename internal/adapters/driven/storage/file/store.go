// Package file provides JSON-file-backed passage and progress storage.
//
// The layout is intentionally plain: one `<namespace>-chunks.json` array per
// document, a `<namespace>-chunks.meta.json` sidecar with the segmentation
// parameters, and a single `progress.json` mapping namespace to uploaded
// count. All writes go through a same-directory temp file and rename so a
// crash mid-write cannot corrupt previously committed state.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/arcanum-labs/bookrag/internal/core/domain"
	"github.com/arcanum-labs/bookrag/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.PassageStore  = (*Store)(nil)
	_ driven.ProgressStore = (*Store)(nil)
)

const progressFile = "progress.json"

// Store persists passage sets and upload progress under one data directory.
type Store struct {
	mu  sync.Mutex
	dir string
}

// setMeta is the sidecar record of segmentation parameters.
type setMeta struct {
	DocumentID string `json:"documentId"`
	MaxTokens  int    `json:"maxTokens"`
	Tokenizer  string `json:"tokenizer"`
}

// NewStore creates a file store rooted at dataDir. If dataDir is empty it
// defaults to ~/.bookrag/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".bookrag", "data")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{dir: dataDir}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// SavePassages stores or replaces the passage set for its namespace.
func (s *Store) SavePassages(_ context.Context, set domain.PassageSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeJSON(s.chunksPath(set.Namespace), set.Passages); err != nil {
		return fmt.Errorf("write passages: %w", err)
	}
	meta := setMeta{DocumentID: set.DocumentID, MaxTokens: set.MaxTokens, Tokenizer: set.Tokenizer}
	if err := s.writeJSON(s.metaPath(set.Namespace), meta); err != nil {
		return fmt.Errorf("write passage metadata: %w", err)
	}
	return nil
}

// LoadPassages retrieves the passage set for a namespace.
func (s *Store) LoadPassages(_ context.Context, namespace string) (*domain.PassageSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.chunksPath(namespace))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("passages for namespace %q: %w", namespace, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read passages: %w", err)
	}

	var passages []domain.Passage
	if err := json.Unmarshal(data, &passages); err != nil {
		return nil, fmt.Errorf("decode passages: %w", err)
	}

	set := domain.PassageSet{Namespace: namespace, Passages: passages}

	// The sidecar is advisory; an older store without one still loads.
	if metaData, err := os.ReadFile(s.metaPath(namespace)); err == nil {
		var meta setMeta
		if err := json.Unmarshal(metaData, &meta); err != nil {
			return nil, fmt.Errorf("decode passage metadata: %w", err)
		}
		set.DocumentID = meta.DocumentID
		set.MaxTokens = meta.MaxTokens
		set.Tokenizer = meta.Tokenizer
	} else if len(passages) > 0 {
		set.DocumentID = passages[0].DocumentID
	}

	return &set, nil
}

// Load returns the complete namespace -> uploadedCount mapping.
func (s *Store) Load(_ context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadProgress()
}

// Save records uploadedCount for the namespace, preserving every other
// namespace in the persisted mapping.
func (s *Store) Save(_ context.Context, namespace string, uploadedCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	progress, err := s.loadProgress()
	if err != nil {
		return err
	}
	progress[namespace] = uploadedCount

	if err := s.writeJSON(filepath.Join(s.dir, progressFile), progress); err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	return nil
}

func (s *Store) loadProgress() (map[string]int, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, progressFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]int), nil
		}
		return nil, fmt.Errorf("read progress: %w", err)
	}

	progress := make(map[string]int)
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	return progress, nil
}

// writeJSON marshals v and atomically replaces dest: the data is written to
// a temp file in the same directory, synced, then renamed over dest.
func (s *Store) writeJSON(dest string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func (s *Store) chunksPath(namespace string) string {
	return filepath.Join(s.dir, namespace+"-chunks.json")
}

func (s *Store) metaPath(namespace string) string {
	return filepath.Join(s.dir, namespace+"-chunks.meta.json")
}
