package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/arcanum-labs/bookrag/internal/adapters/driving/cli"
)

func main() {
	// Credentials may live in a project .env or the user-level one written
	// by `bookrag config set-key`. Missing files are fine.
	_ = godotenv.Load()
	if home, err := os.UserHomeDir(); err == nil {
		_ = godotenv.Load(filepath.Join(home, ".bookrag", ".env"))
	}

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
