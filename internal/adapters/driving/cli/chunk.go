package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcanum-labs/bookrag/internal/core/services"
)

var chunkMaxTokens int

var chunkCmd = &cobra.Command{
	Use:   "chunk [file] [title]",
	Short: "Split a text file into token-bounded passages",
	Long: `Segments a text file paragraph by paragraph into passages that fit the
token budget, falling back to sentence packing for oversized paragraphs.
The passages are stored locally under the namespace derived from the
title, ready for upload.`,
	Args: cobra.ExactArgs(2),
	RunE: runChunk,
}

func init() {
	chunkCmd.Flags().IntVar(&chunkMaxTokens, "max-tokens", 0, "token budget per passage (default from config)")
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, args []string) error {
	path, title := args[0], args[1]

	maxTokens := chunkMaxTokens
	if maxTokens <= 0 {
		maxTokens = cfg.Chunking.MaxTokens
	}

	counter, err := newTokenCounter()
	if err != nil {
		return fmt.Errorf("tokenizer: %w", err)
	}

	store, closeStore, err := newPipelineStore()
	if err != nil {
		return err
	}
	defer closeStore()

	svc, err := services.NewChunkService(counter, maxTokens, store)
	if err != nil {
		return err
	}

	set, err := svc.ChunkFile(cmd.Context(), path, title)
	if err != nil {
		return fmt.Errorf("chunking failed: %w", err)
	}

	cmd.Printf("Segmented %q into %d passages (namespace %s, budget %d tokens)\n",
		title, len(set.Passages), set.Namespace, set.MaxTokens)
	return nil
}
