// Package plaintext provides an Extractor for plain text files.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/arcanum-labs/bookrag/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor reads text files as-is. The maxPages limit maps to blank-line
// separated blocks, mirroring how PDF page boundaries surface in extracted
// text.
type Extractor struct{}

// New creates a plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the file content, optionally truncated to the leading
// maxPages blank-line separated blocks.
func (e *Extractor) Extract(_ context.Context, path string, maxPages int) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}

	text := string(content)
	if maxPages <= 0 {
		return text, nil
	}

	blocks := strings.Split(text, "\n\n")
	if maxPages < len(blocks) {
		blocks = blocks[:maxPages]
	}
	return strings.Join(blocks, "\n\n"), nil
}
