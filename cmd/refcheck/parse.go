package main

import (
	"fmt"

	"github.com/refcheck/refcheck/internal/biblio"
	"github.com/refcheck/refcheck/internal/reference"
	"github.com/spf13/cobra"
)

var parseDialect string

func init() {
	parseCmd.Flags().StringVar(&parseDialect, "dialect", "", "Force a dialect: bibtex, bibitem, or numbered (default: auto-detect)")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse <document>",
	Short: "Parse bibliography entries into reference records",
	Long: `Parse the bibliography of a document into structured reference records.

The entry dialect (BibTeX, \bibitem list, or numbered plain text) is
auto-detected unless --dialect is given. Entries that cannot be parsed
are skipped and reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

// ParseResult is the response for the parse command.
type ParseResult struct {
	Document   string                `json:"document"`
	References []reference.Reference `json:"references"`
	Skipped    []string              `json:"skipped,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	text, err := readDocument(args[0])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if section, ok := biblio.FindSection(text); ok {
		text = section
	}

	refs, diags := parseWithDialect(text, parseDialect)

	skipped := make([]string, 0, len(diags))
	for _, d := range diags {
		skipped = append(skipped, d.Error())
	}

	if humanOutput {
		for i, ref := range refs {
			fmt.Printf("%d. %s\n", i+1, truncateString(ref.Title, 70))
			if len(ref.Authors) > 0 {
				fmt.Printf("   %s\n", formatAuthors(ref.Authors))
			}
			if ref.Venue != "" || ref.Year != 0 {
				fmt.Printf("   %s (%d)\n", ref.Venue, ref.Year)
			}
			fmt.Println()
		}
		for _, s := range skipped {
			fmt.Printf("skipped: %s\n", s)
		}
		return nil
	}
	return outputJSON(ParseResult{Document: args[0], References: refs, Skipped: skipped})
}

// parseWithDialect dispatches on the --dialect flag.
func parseWithDialect(text, dialect string) ([]reference.Reference, []error) {
	switch dialect {
	case "":
		return biblio.Parse(text)
	case "bibtex":
		return biblio.ParseDialect(text, reference.FormatBibTeX)
	case "bibitem":
		return biblio.ParseDialect(text, reference.FormatBibItem)
	case "numbered":
		return biblio.ParseDialect(text, reference.FormatNumbered)
	default:
		exitWithError(ExitError, "unknown dialect %q", dialect)
		return nil, nil
	}
}
