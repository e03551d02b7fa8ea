package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/refcheck/refcheck/internal/arxiv"
	"github.com/refcheck/refcheck/internal/biblio"
	"github.com/refcheck/refcheck/internal/compare"
	"github.com/refcheck/refcheck/internal/config"
	"github.com/refcheck/refcheck/internal/dedup"
	"github.com/refcheck/refcheck/internal/history"
	"github.com/refcheck/refcheck/internal/reference"
	"github.com/refcheck/refcheck/internal/resolve"
	"github.com/refcheck/refcheck/internal/s2"
	"github.com/spf13/cobra"
)

var (
	checkOffline   bool
	checkNoHistory bool
)

func init() {
	checkCmd.Flags().BoolVar(&checkOffline, "offline", false, "Parse and deduplicate only; skip metadata resolution")
	checkCmd.Flags().BoolVar(&checkNoHistory, "no-history", false, "Do not record this run in the history database")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <document>",
	Short: "Verify a document's references against authoritative metadata",
	Long: `Verify a document's references: extract the bibliography, parse and
deduplicate the entries, resolve each one against arXiv or Semantic
Scholar, and compare the cited fields against the retrieved metadata.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Document   string           `json:"document"`
	References int              `json:"references"`
	Errors     int              `json:"errors"`
	Warnings   int              `json:"warnings"`
	Unresolved int              `json:"unresolved"`
	Results    []history.Result `json:"results"`
	Skipped    []string         `json:"skipped,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	document := args[0]

	text, err := readDocument(document)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	section, ok := biblio.FindSection(text)
	if !ok {
		exitWithError(ExitDataError, "no bibliography section found in %s", document)
	}

	refs, diags := biblio.Parse(section)
	if len(refs) == 0 {
		exitWithError(ExitDataError, "no references could be parsed from %s", document)
	}

	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	refs = dedupeReferences(refs, cfg.AuthorOverlapThreshold)

	results := make([]history.Result, 0, len(refs))
	unresolved := 0

	if checkOffline {
		for _, ref := range refs {
			results = append(results, history.Result{Reference: ref})
		}
	} else {
		resolver := &resolve.Resolver{
			ArXiv: arxiv.NewClient(),
			S2:    s2.NewClient(s2.WithAPIKey(cfg.S2APIKey)),
		}
		ctx := cmd.Context()

		for _, ref := range refs {
			res := history.Result{Reference: ref}
			md, err := resolver.Resolve(ctx, ref)
			switch {
			case errors.Is(err, resolve.ErrUnresolved):
				unresolved++
				res.Verdicts = []compare.Verdict{{
					Level:   compare.LevelWarning,
					Kind:    compare.KindGeneric,
					Details: "reference could not be resolved against any metadata source",
				}}
			case err != nil:
				exitWithError(ExitError, "resolving %q: %v", truncateString(ref.Title, 60), err)
			default:
				res.Verdicts = compare.Fields(ref, *md)
			}
			results = append(results, res)
		}
	}

	result := CheckResult{
		Document:   document,
		References: len(refs),
		Unresolved: unresolved,
		Results:    results,
	}
	for _, r := range results {
		for _, v := range r.Verdicts {
			if v.IsError() {
				result.Errors++
			} else {
				result.Warnings++
			}
		}
	}
	for _, d := range diags {
		result.Skipped = append(result.Skipped, d.Error())
	}

	if !checkNoHistory && !checkOffline {
		if err := saveRun(cfg, document, results); err != nil {
			fmt.Fprintf(os.Stderr, "warning: recording run: %v\n", err)
		}
	}

	if humanOutput {
		printCheckHuman(result)
	} else {
		outputJSON(result)
	}

	if result.Errors > 0 {
		os.Exit(ExitMismatch)
	}
	return nil
}

// dedupeReferences removes duplicate parsed references via their raw
// author#title#venue#year keys, keeping the first occurrence.
func dedupeReferences(refs []reference.Reference, threshold float64) []reference.Reference {
	keys := make([]string, len(refs))
	for i, ref := range refs {
		keys[i] = referenceKey(ref)
	}

	retained := dedup.DeduplicateWith(keys, dedup.Options{AuthorOverlapThreshold: threshold})

	used := make(map[int]bool, len(refs))
	out := make([]reference.Reference, 0, len(retained))
	for _, key := range retained {
		for i, k := range keys {
			if k == key && !used[i] {
				used[i] = true
				out = append(out, refs[i])
				break
			}
		}
	}
	return out
}

// referenceKey renders a reference as the '#'-joined raw string the
// deduplication engine compares.
func referenceKey(ref reference.Reference) string {
	year := ""
	if ref.Year != 0 {
		year = fmt.Sprintf("%d", ref.Year)
	}
	return strings.Join([]string{
		strings.Join(ref.Authors, " and "),
		ref.Title,
		ref.Venue,
		year,
	}, "#")
}

// saveRun records a completed check in the history database.
func saveRun(cfg *config.Config, document string, results []history.Result) error {
	path := cfg.HistoryDBPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	db, err := history.OpenDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.SaveRun(history.Run{
		Document:  document,
		CheckedAt: time.Now().UTC(),
		Results:   results,
	})
	return err
}

// printCheckHuman renders a check result for terminals.
func printCheckHuman(result CheckResult) {
	fmt.Printf("%s: %d references", result.Document, result.References)
	if result.Errors == 0 && result.Warnings == 0 {
		fmt.Printf(", all OK\n")
	} else {
		fmt.Printf(", %d errors, %d warnings\n", result.Errors, result.Warnings)
	}
	fmt.Println()

	for i, r := range result.Results {
		if len(r.Verdicts) == 0 {
			continue
		}
		fmt.Printf("%d. %s\n", i+1, truncateString(r.Reference.Title, 70))
		for _, v := range r.Verdicts {
			tag := "WARN"
			if v.IsError() {
				tag = "ERROR"
			}
			fmt.Printf("  [%s] %s\n", tag, indentLines(v.Details, "          ")[10:])
			if v.Corrected != "" {
				fmt.Printf("          correct: %s\n", v.Corrected)
			}
		}
		fmt.Println()
	}

	for _, s := range result.Skipped {
		fmt.Printf("skipped: %s\n", s)
	}
}
