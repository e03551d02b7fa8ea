// Package main provides the refcheck CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	// API keys may live in a local .env during development.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refcheck",
	Short: "Verify bibliographic references against authoritative metadata",
	Long: `refcheck extracts the bibliography from an academic paper, parses the
cited references, and verifies each one against authoritative metadata
from arXiv and Semantic Scholar.

All commands output JSON by default for easy integration with other
tools; pass --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
