package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args, pointing --config at a config
// file that selects the offline tokenizer and a temp data directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.toml")
	content := "[chunking]\ntokenizer = \"heuristic\"\n\n[storage]\nbackend = \"file\"\ndata_dir = \"" +
		filepath.Join(dir, "data") + "\"\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0o600))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append(args, "--config", cfgFile))
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
}

func TestVersionCmd_Executes(t *testing.T) {
	out, err := execute(t, "version")
	assert.NoError(t, err)
	assert.Contains(t, out, "bookrag version dev")
}

func TestChunkCmd_Use(t *testing.T) {
	assert.Equal(t, "chunk [file] [title]", chunkCmd.Use)
}

func TestChunkCmd_Executes(t *testing.T) {
	book := filepath.Join(t.TempDir(), "book.txt")
	require.NoError(t, os.WriteFile(book,
		[]byte("First paragraph of the story.\n\nSecond paragraph of the story."), 0o600))

	out, err := execute(t, "chunk", book, "Test Book")
	assert.NoError(t, err)
	assert.Contains(t, out, "test-book")
}

func TestChunkCmd_MissingFile(t *testing.T) {
	_, err := execute(t, "chunk", filepath.Join(t.TempDir(), "absent.txt"), "Gone")
	assert.Error(t, err)
}

func TestConfigShowCmd_Executes(t *testing.T) {
	out, err := execute(t, "config", "show")
	assert.NoError(t, err)
	assert.Contains(t, out, "[chunking]")
	assert.Contains(t, out, "OPENAI_API_KEY")
}
