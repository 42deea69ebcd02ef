package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arcanum-labs/bookrag/internal/adapters/driven/extractor/pdf"
	"github.com/arcanum-labs/bookrag/internal/adapters/driven/extractor/plaintext"
	"github.com/arcanum-labs/bookrag/internal/core/ports/driven"
	"github.com/arcanum-labs/bookrag/internal/core/services"
)

var (
	extractMaxPages int
	extractOutDir   string
)

var extractCmd = &cobra.Command{
	Use:   "extract [file] [title]",
	Short: "Extract text from a document",
	Long: `Extracts the text of a PDF or plain text file and writes it to
<output-dir>/<title>.txt, ready for the chunk step. Use --max-pages to
extract only the leading pages when trying out settings on a large book.`,
	Args: cobra.ExactArgs(2),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().IntVar(&extractMaxPages, "max-pages", 0, "extract only the first N pages (0 = all)")
	extractCmd.Flags().StringVarP(&extractOutDir, "output-dir", "o", "extractions", "directory for extracted text")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	path, title := args[0], args[1]

	var extractor driven.Extractor
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		extractor = pdf.New()
	} else {
		extractor = plaintext.New()
	}

	svc := services.NewExtractService(extractor, extractOutDir)
	outPath, err := svc.Extract(cmd.Context(), path, title, extractMaxPages)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	cmd.Printf("Extracted %q to %s\n", title, outPath)
	return nil
}
