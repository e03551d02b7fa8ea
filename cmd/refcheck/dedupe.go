package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/refcheck/refcheck/internal/config"
	"github.com/refcheck/refcheck/internal/dedup"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(dedupeCmd)
}

var dedupeCmd = &cobra.Command{
	Use:   "dedupe [file]",
	Short: "Remove duplicate raw reference strings",
	Long: `Remove duplicates from a list of raw reference strings, one per line,
each in "author#title#venue#year" form. Reads stdin when no file is
given. Partial repeats caused by chunk-boundary truncation of the
author list are detected; the first occurrence is kept.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDedupe,
}

// DedupeResult is the response for the dedupe command.
type DedupeResult struct {
	Input      int      `json:"input"`
	Retained   int      `json:"retained"`
	References []string `json:"references"`
}

func runDedupe(cmd *cobra.Command, args []string) error {
	in := os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			exitWithError(ExitError, "opening input: %v", err)
		}
		defer f.Close()
		in = f
	}

	var refs []string
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			refs = append(refs, line)
		}
	}
	if err := scanner.Err(); err != nil {
		exitWithError(ExitError, "reading input: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	deduped := dedup.DeduplicateWith(refs, dedup.Options{
		AuthorOverlapThreshold: cfg.AuthorOverlapThreshold,
	})

	if humanOutput {
		for _, r := range deduped {
			fmt.Println(r)
		}
		fmt.Fprintf(os.Stderr, "%d of %d retained\n", len(deduped), len(refs))
		return nil
	}
	return outputJSON(DedupeResult{Input: len(refs), Retained: len(deduped), References: deduped})
}
