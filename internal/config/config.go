// Package config loads and persists bookrag settings from a TOML file.
//
// Settings live in ~/.bookrag/config.toml by default. Credentials are never
// written here; they come from the environment (OPENAI_API_KEY,
// PINECONE_API_KEY, PINECONE_INDEX_HOST) or a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/arcanum-labs/bookrag/internal/core/domain"
)

// Environment variable names for credentials.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvPineconeKey  = "PINECONE_API_KEY"
	EnvPineconeHost = "PINECONE_INDEX_HOST"
)

// Chunking controls document segmentation.
type Chunking struct {
	MaxTokens int    `toml:"max_tokens"`
	Tokenizer string `toml:"tokenizer"`
}

// Upload controls batching and retry behaviour.
type Upload struct {
	BatchSize   int `toml:"batch_size"`
	MaxAttempts int `toml:"max_attempts"`
	BaseDelayMS int `toml:"base_delay_ms"`
}

// Embedding selects the embedding model and client limits.
type Embedding struct {
	Model             string  `toml:"model"`
	BaseURL           string  `toml:"base_url"`
	TimeoutSecs       int     `toml:"timeout_secs"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// LLM selects the chat model used for answer synthesis.
type LLM struct {
	Model string `toml:"model"`
}

// Storage selects the local persistence backend.
type Storage struct {
	Backend string `toml:"backend"`
	DataDir string `toml:"data_dir"`
}

// Retrieval controls query behaviour.
type Retrieval struct {
	TopK int `toml:"top_k"`
}

// Config is the full bookrag configuration.
type Config struct {
	Chunking  Chunking  `toml:"chunking"`
	Upload    Upload    `toml:"upload"`
	Embedding Embedding `toml:"embedding"`
	LLM       LLM       `toml:"llm"`
	Storage   Storage   `toml:"storage"`
	Retrieval Retrieval `toml:"retrieval"`

	path string
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Chunking: Chunking{
			MaxTokens: 400,
			Tokenizer: "cl100k_base",
		},
		Upload: Upload{
			BatchSize:   100,
			MaxAttempts: 5,
			BaseDelayMS: 1000,
		},
		Embedding: Embedding{
			Model:             "text-embedding-3-small",
			BaseURL:           "https://api.openai.com/v1",
			TimeoutSecs:       60,
			RequestsPerSecond: 3.0,
			Burst:             5,
		},
		LLM: LLM{
			Model: "gpt-4o-mini",
		},
		Storage: Storage{
			Backend: "file",
		},
		Retrieval: Retrieval{
			TopK: 5,
		},
	}
}

// DefaultPath returns ~/.bookrag/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".bookrag", "config.toml"), nil
}

// Load reads the config at path, filling unset fields with defaults.
// A missing file yields the defaults. If path is empty the default
// location is used.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the config back to the file it was loaded from.
func (c Config) Save() error {
	if c.path == "" {
		var err error
		c.path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Path returns where the config was loaded from.
func (c Config) Path() string {
	return c.path
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if c.Chunking.MaxTokens <= 0 {
		return fmt.Errorf("%w: chunking.max_tokens must be positive", domain.ErrInvalidConfig)
	}
	if c.Upload.BatchSize <= 0 {
		return fmt.Errorf("%w: upload.batch_size must be positive", domain.ErrInvalidConfig)
	}
	if c.Upload.MaxAttempts <= 0 {
		return fmt.Errorf("%w: upload.max_attempts must be positive", domain.ErrInvalidConfig)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: retrieval.top_k must be positive", domain.ErrInvalidConfig)
	}
	switch c.Storage.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("%w: storage.backend must be file or sqlite", domain.ErrInvalidConfig)
	}
	return nil
}
