package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arcanum-labs/bookrag/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and manage bookrag configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE:  runConfigInit,
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key [openai|pinecone]",
	Short: "Store an API key",
	Long: `Prompts for an API key without echoing it and stores it in
~/.bookrag/.env, which bookrag loads on startup. For pinecone, the index
host is prompted for as well.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigSetKey,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetKeyCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	cmd.Print(string(data))

	cmd.Println()
	cmd.Printf("%s: %s\n", config.EnvOpenAIKey, maskAPIKey(os.Getenv(config.EnvOpenAIKey)))
	cmd.Printf("%s: %s\n", config.EnvPineconeKey, maskAPIKey(os.Getenv(config.EnvPineconeKey)))
	cmd.Printf("%s: %s\n", config.EnvPineconeHost, os.Getenv(config.EnvPineconeHost))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := cfg.Save(); err != nil {
		return err
	}
	cmd.Printf("Wrote %s\n", cfg.Path())
	return nil
}

func runConfigSetKey(cmd *cobra.Command, args []string) error {
	provider := strings.ToLower(args[0])

	entries := make(map[string]string)
	switch provider {
	case "openai":
		cmd.Print("OpenAI API key: ")
		entries[config.EnvOpenAIKey] = readPassword()
		cmd.Println()
	case "pinecone":
		cmd.Print("Pinecone API key: ")
		entries[config.EnvPineconeKey] = readPassword()
		cmd.Println()
		cmd.Print("Pinecone index host: ")
		entries[config.EnvPineconeHost] = readLine()
	default:
		return fmt.Errorf("unknown provider %q (expected openai or pinecone)", provider)
	}

	for k, v := range entries {
		if v == "" {
			return fmt.Errorf("empty value for %s", k)
		}
	}

	path, err := envFilePath()
	if err != nil {
		return err
	}
	if err := upsertEnvFile(path, entries); err != nil {
		return err
	}
	cmd.Printf("Saved to %s\n", path)
	return nil
}

// envFilePath returns ~/.bookrag/.env, creating the directory.
func envFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	dir := filepath.Join(home, ".bookrag")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	return filepath.Join(dir, ".env"), nil
}

// upsertEnvFile rewrites the env file with entries applied, keeping any
// other keys already present.
func upsertEnvFile(path string, entries map[string]string) error {
	existing := make(map[string]string)
	if data, err := os.ReadFile(path); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if k, v, ok := strings.Cut(line, "="); ok {
				existing[k] = v
			}
		}
	}
	for k, v := range entries {
		existing[k] = v
	}

	keys := make([]string, 0, len(existing))
	for k := range existing {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, existing[k])
	}
	return os.WriteFile(path, []byte(b.String()), 0o600)
}

func readPassword() string {
	// Try to read without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	return readLine()
}

func readLine() string {
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
