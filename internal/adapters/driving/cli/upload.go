package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcanum-labs/bookrag/internal/core/services"
)

var uploadBatchSize int

var uploadCmd = &cobra.Command{
	Use:   "upload [title]",
	Short: "Embed stored passages and upload them to the vector store",
	Long: `Embeds the stored passages of a book in batches and upserts them into
the vector store under the book's namespace. Progress is recorded after
every confirmed batch, so an interrupted upload resumes at the first
unconfirmed passage instead of starting over.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().IntVar(&uploadBatchSize, "batch-size", 0, "passages per batch (default from config)")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	title := args[0]

	batchSize := uploadBatchSize
	if batchSize <= 0 {
		batchSize = cfg.Upload.BatchSize
	}

	store, closeStore, err := newPipelineStore()
	if err != nil {
		return err
	}
	defer closeStore()

	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	vectors, err := newVectorStore()
	if err != nil {
		return err
	}

	svc := services.NewUploadService(store, store, embedder, vectors, batchSize, uploadPolicy())
	svc.OnBatch = func(p services.BatchProgress) {
		cmd.Printf("  %d/%d passages uploaded\n", p.Uploaded, p.Total)
	}

	sent, err := svc.Upload(cmd.Context(), title)
	if err != nil {
		return fmt.Errorf("upload failed after %d passages: %w", sent, err)
	}

	if sent == 0 {
		cmd.Printf("%q is already fully uploaded\n", title)
	} else {
		cmd.Printf("Uploaded %d passages for %q\n", sent, title)
	}
	return nil
}
