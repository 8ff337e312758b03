package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/kwak-labs/kwak-cli/internal/adapters/driving/cli"
)

func main() {
	// Optional .env for API keys and base URLs; absence is not an error.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
