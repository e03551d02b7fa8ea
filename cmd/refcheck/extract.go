package main

import (
	"fmt"

	"github.com/refcheck/refcheck/internal/biblio"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract <document>",
	Short: "Extract the bibliography section from a document",
	Long:  `Extract the bibliography section from a PDF or plain-text document.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

// ExtractResult is the response for the extract command.
type ExtractResult struct {
	Document string `json:"document"`
	Section  string `json:"section"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	text, err := readDocument(args[0])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	section, ok := biblio.FindSection(text)
	if !ok {
		exitWithError(ExitDataError, "no bibliography section found in %s", args[0])
	}

	if humanOutput {
		fmt.Println(section)
		return nil
	}
	return outputJSON(ExtractResult{Document: args[0], Section: section})
}
