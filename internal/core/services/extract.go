package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arcanum-labs/bookrag/internal/core/ports/driven"
	"github.com/arcanum-labs/bookrag/internal/logger"
)

// ExtractService pulls raw text out of a source document and writes it to a
// text artifact for the chunk step to consume.
type ExtractService struct {
	extractor driven.Extractor
	outputDir string
}

// NewExtractService creates an extract service writing artifacts under
// outputDir.
func NewExtractService(extractor driven.Extractor, outputDir string) *ExtractService {
	return &ExtractService{extractor: extractor, outputDir: outputDir}
}

// Extract reads the document at path and writes its text to
// <outputDir>/<title>.txt. A maxPages of zero means no limit. Returns the
// artifact path.
func (s *ExtractService) Extract(ctx context.Context, path, title string, maxPages int) (string, error) {
	text, err := s.extractor.Extract(ctx, path, maxPages)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", path, err)
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	outPath := filepath.Join(s.outputDir, title+".txt")
	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write extraction: %w", err)
	}

	logger.Info("Extracted %d bytes from %s to %s", len(text), path, outPath)
	return outPath, nil
}
