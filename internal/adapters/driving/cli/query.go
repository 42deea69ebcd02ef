package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcanum-labs/bookrag/internal/core/domain"
	"github.com/arcanum-labs/bookrag/internal/core/services"
)

// Passage text is truncated to this many characters in table output.
const querySnippetLen = 1000

var (
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question] [title]",
	Short: "Retrieve the most relevant passages of a book",
	Args:  cobra.ExactArgs(2),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of passages to return (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	question, title := args[0], args[1]

	topK := queryTopK
	if topK <= 0 {
		topK = cfg.Retrieval.TopK
	}

	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	vectors, err := newVectorStore()
	if err != nil {
		return err
	}

	svc := services.NewRetrieveService(embedder, vectors)
	matches, err := svc.Retrieve(cmd.Context(), question, title, topK)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputMatchesJSON(cmd, matches)
	}
	return outputMatchesTable(cmd, matches)
}

func outputMatchesJSON(cmd *cobra.Command, matches []domain.Match) error {
	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal matches: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputMatchesTable(cmd *cobra.Command, matches []domain.Match) error {
	if len(matches) == 0 {
		cmd.Println("No passages found. Has this book been uploaded?")
		return nil
	}

	for i, m := range matches {
		content := m.Content
		if len(content) > querySnippetLen {
			content = content[:querySnippetLen] + "..."
		}
		cmd.Printf("--- Result %d [score %.4f, passage %d] ---\n", i+1, m.Score, m.SequenceIndex)
		cmd.Println(content)
		cmd.Println()
	}
	return nil
}
