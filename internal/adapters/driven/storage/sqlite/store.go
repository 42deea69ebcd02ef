// Package sqlite provides SQLite-backed passage and progress storage.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/arcanum-labs/bookrag/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/arcanum-labs/bookrag/internal/core/domain"
	"github.com/arcanum-labs/bookrag/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.PassageStore  = (*Store)(nil)
	_ driven.ProgressStore = (*Store)(nil)
)

// Store holds passage sets and upload progress in a single SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store under dataDir. If dataDir is empty, it
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

	dbPath := filepath.Join(dataDir, "bookrag.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SavePassages stores or replaces the passage set for its namespace.
func (s *Store) SavePassages(ctx context.Context, set domain.PassageSet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO passage_sets (namespace, document_id, max_tokens, tokenizer, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(namespace) DO UPDATE SET
			document_id = excluded.document_id,
			max_tokens = excluded.max_tokens,
			tokenizer = excluded.tokenizer,
			created_at = excluded.created_at
	`, set.Namespace, set.DocumentID, set.MaxTokens, set.Tokenizer, now)
	if err != nil {
		return fmt.Errorf("saving passage set: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM passages WHERE namespace = ?", set.Namespace); err != nil {
		return fmt.Errorf("clearing passages: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO passages (id, namespace, seq, document_id, content)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range set.Passages {
		if _, err := stmt.ExecContext(ctx, uuid.NewString(), set.Namespace, p.SequenceIndex, p.DocumentID, p.Content); err != nil {
			return fmt.Errorf("inserting passage %d: %w", p.SequenceIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// LoadPassages retrieves the passage set for a namespace, passages ordered
// by sequence index.
func (s *Store) LoadPassages(ctx context.Context, namespace string) (*domain.PassageSet, error) {
	set := domain.PassageSet{Namespace: namespace}

	row := s.db.QueryRowContext(ctx, `
		SELECT document_id, max_tokens, tokenizer
		FROM passage_sets WHERE namespace = ?
	`, namespace)
	if err := row.Scan(&set.DocumentID, &set.MaxTokens, &set.Tokenizer); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("passages for namespace %q: %w", namespace, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("loading passage set: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, document_id, content
		FROM passages WHERE namespace = ?
		ORDER BY seq
	`, namespace)
	if err != nil {
		return nil, fmt.Errorf("loading passages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Passage
		if err := rows.Scan(&p.SequenceIndex, &p.DocumentID, &p.Content); err != nil {
			return nil, fmt.Errorf("scanning passage: %w", err)
		}
		set.Passages = append(set.Passages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating passages: %w", err)
	}

	return &set, nil
}

// Load returns the complete namespace -> uploadedCount mapping.
func (s *Store) Load(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT namespace, uploaded_count FROM upload_progress")
	if err != nil {
		return nil, fmt.Errorf("loading progress: %w", err)
	}
	defer rows.Close()

	progress := make(map[string]int)
	for rows.Next() {
		var namespace string
		var count int
		if err := rows.Scan(&namespace, &count); err != nil {
			return nil, fmt.Errorf("scanning progress: %w", err)
		}
		progress[namespace] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating progress: %w", err)
	}
	return progress, nil
}

// Save records uploadedCount for the namespace.
func (s *Store) Save(ctx context.Context, namespace string, uploadedCount int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO upload_progress (namespace, uploaded_count, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(namespace) DO UPDATE SET
			uploaded_count = excluded.uploaded_count,
			updated_at = excluded.updated_at
	`, namespace, uploadedCount, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving progress: %w", err)
	}
	return nil
}
