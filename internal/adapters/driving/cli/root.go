// Package cli implements the bookrag command-line interface.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arcanum-labs/bookrag/internal/adapters/driven/embedding/openai"
	llmopenai "github.com/arcanum-labs/bookrag/internal/adapters/driven/llm/openai"
	"github.com/arcanum-labs/bookrag/internal/adapters/driven/ratelimit"
	storagefile "github.com/arcanum-labs/bookrag/internal/adapters/driven/storage/file"
	storagesqlite "github.com/arcanum-labs/bookrag/internal/adapters/driven/storage/sqlite"
	"github.com/arcanum-labs/bookrag/internal/adapters/driven/tokenizer/heuristic"
	"github.com/arcanum-labs/bookrag/internal/adapters/driven/tokenizer/tiktoken"
	"github.com/arcanum-labs/bookrag/internal/adapters/driven/vector/pinecone"
	"github.com/arcanum-labs/bookrag/internal/config"
	"github.com/arcanum-labs/bookrag/internal/core/domain"
	"github.com/arcanum-labs/bookrag/internal/core/ports/driven"
	"github.com/arcanum-labs/bookrag/internal/logger"
	"github.com/arcanum-labs/bookrag/internal/retry"
)

var (
	cfgPath string
	verbose bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "bookrag",
	Short: "Ingest books into a vector store and ask questions about them",
	Long: `bookrag splits long-form documents into token-bounded passages,
embeds them and uploads them to a namespaced vector store. Interrupted
uploads resume where they left off. Once a book is uploaded, query it for
relevant passages or ask questions answered from its own text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verbose)
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// pipelineStore is the combined local persistence surface.
type pipelineStore interface {
	driven.PassageStore
	driven.ProgressStore
}

// newPipelineStore builds the configured storage backend. The returned
// close function is a no-op for the file backend.
func newPipelineStore() (pipelineStore, func() error, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		store, err := storagesqlite.NewStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "file":
		store, err := storagefile.NewStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidConfig, cfg.Storage.Backend)
	}
}

// newTokenCounter builds the configured token counter. The "heuristic"
// name selects the offline approximation; anything else is treated as a
// tiktoken encoding name. Loading an encoding needs its BPE data, so a
// load failure falls back to the heuristic rather than blocking chunking.
func newTokenCounter() (driven.TokenCounter, error) {
	if cfg.Chunking.Tokenizer == "heuristic" {
		return heuristic.Counter{}, nil
	}
	counter, err := tiktoken.NewCounter(cfg.Chunking.Tokenizer)
	if err != nil {
		logger.Warn("Tokenizer %q unavailable (%v), using heuristic counter", cfg.Chunking.Tokenizer, err)
		return heuristic.Counter{}, nil
	}
	return counter, nil
}

func newEmbedder() (driven.EmbeddingService, error) {
	return openai.NewEmbeddingService(openai.Config{
		APIKey:  os.Getenv(config.EnvOpenAIKey),
		BaseURL: cfg.Embedding.BaseURL,
		Model:   cfg.Embedding.Model,
		Timeout: time.Duration(cfg.Embedding.TimeoutSecs) * time.Second,
		RateLimit: ratelimit.Config{
			RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
			BurstSize:         cfg.Embedding.Burst,
		},
	})
}

func newVectorStore() (driven.VectorStore, error) {
	return pinecone.New(pinecone.Config{
		APIKey: os.Getenv(config.EnvPineconeKey),
		Host:   os.Getenv(config.EnvPineconeHost),
	})
}

func newLLM() (driven.LLMService, error) {
	return llmopenai.NewLLMService(llmopenai.Config{
		APIKey: os.Getenv(config.EnvOpenAIKey),
		Model:  cfg.LLM.Model,
	})
}

func uploadPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: cfg.Upload.MaxAttempts,
		BaseDelay:   time.Duration(cfg.Upload.BaseDelayMS) * time.Millisecond,
	}
}
