package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanum-labs/bookrag/internal/core/domain"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 400, cfg.Chunking.MaxTokens)
	assert.Equal(t, 100, cfg.Upload.BatchSize)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[chunking]\nmax_tokens = 250\n\n[storage]\nbackend = \"sqlite\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Chunking.MaxTokens)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, 100, cfg.Upload.BatchSize)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[chunking]\nmax_tokens = 0\n"), 0o600))

	_, err := Load(path)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage]\nbackend = \"redis\"\n"), 0o600))

	_, err := Load(path)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)

	cfg.Retrieval.TopK = 8
	cfg.Chunking.MaxTokens = 512
	require.NoError(t, cfg.Save())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, reloaded.Retrieval.TopK)
	assert.Equal(t, 512, reloaded.Chunking.MaxTokens)
}
