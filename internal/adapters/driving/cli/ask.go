package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/arcanum-labs/bookrag/internal/adapters/driving/tui"
	"github.com/arcanum-labs/bookrag/internal/core/services"
)

var askInteractive bool

var askCmd = &cobra.Command{
	Use:   "ask [question] [title]",
	Short: "Ask a question about an uploaded book",
	Long: `Retrieves the passages most relevant to the question and asks the chat
model to answer from them. With --interactive, a single title argument
opens a terminal session for asking follow-up questions.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVarP(&askInteractive, "interactive", "i", false, "open an interactive session")
	rootCmd.AddCommand(askCmd)
}

func newAnswerService() (*services.AnswerService, error) {
	embedder, err := newEmbedder()
	if err != nil {
		return nil, err
	}
	vectors, err := newVectorStore()
	if err != nil {
		return nil, err
	}
	llm, err := newLLM()
	if err != nil {
		return nil, err
	}
	retriever := services.NewRetrieveService(embedder, vectors)
	return services.NewAnswerService(retriever, llm, cfg.Retrieval.TopK), nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	if askInteractive {
		if len(args) != 1 {
			return fmt.Errorf("interactive mode takes exactly one argument, the book title")
		}
		svc, err := newAnswerService()
		if err != nil {
			return err
		}
		program := tea.NewProgram(tui.New(svc, args[0]), tea.WithAltScreen())
		_, err = program.Run()
		return err
	}

	if len(args) != 2 {
		return fmt.Errorf("expected a question and a book title")
	}
	question, title := args[0], args[1]

	svc, err := newAnswerService()
	if err != nil {
		return err
	}

	answer, matches, err := svc.Answer(cmd.Context(), question, title)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer)
	cmd.Println()
	cmd.Printf("(answered from %d passages)\n", len(matches))
	return nil
}
