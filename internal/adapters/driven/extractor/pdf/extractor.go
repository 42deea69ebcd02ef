// Package pdf provides an Extractor for PDF files.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/arcanum-labs/bookrag/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// maxFileSize caps in-memory extraction at 200MB.
const maxFileSize = 200 << 20

// Extractor pulls plain text out of PDF files, page by page. Layout
// fidelity is best-effort; downstream normalisation repairs line wraps.
type Extractor struct{}

// New creates a PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the text of the PDF at path. A positive maxPages limits
// extraction to the leading pages; zero means all pages. Pages are joined
// by blank lines so paragraph-level segmentation can treat page boundaries
// as paragraph breaks.
func (e *Extractor) Extract(ctx context.Context, path string, maxPages int) (string, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat pdf: %w", err)
	}
	if stat.Size() > maxFileSize {
		return "", fmt.Errorf("pdf too large for in-memory extraction (%d bytes)", stat.Size())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	pages := reader.NumPage()
	if maxPages > 0 && maxPages < pages {
		pages = maxPages
	}

	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}

		if strings.TrimSpace(text) == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
	}

	return sb.String(), nil
}
