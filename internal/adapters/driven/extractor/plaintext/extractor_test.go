package plaintext

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtractWholeFile(t *testing.T) {
	path := writeFile(t, "page one\n\npage two\n\npage three")

	text, err := New().Extract(context.Background(), path, 0)
	require.NoError(t, err)
	assert.Equal(t, "page one\n\npage two\n\npage three", text)
}

func TestExtractMaxPages(t *testing.T) {
	path := writeFile(t, "page one\n\npage two\n\npage three")

	text, err := New().Extract(context.Background(), path, 2)
	require.NoError(t, err)
	assert.Equal(t, "page one\n\npage two", text)
}

func TestExtractMissingFile(t *testing.T) {
	_, err := New().Extract(context.Background(), filepath.Join(t.TempDir(), "absent.txt"), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
