package main

import (
	"fmt"
	"strconv"

	"github.com/refcheck/refcheck/internal/config"
	"github.com/refcheck/refcheck/internal/history"
	"github.com/spf13/cobra"
)

var historyLimit int

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past verification runs",
	Long:  `List past verification runs recorded by the check command, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the full results of a past run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

// HistoryResult is the response for the history command.
type HistoryResult struct {
	Runs []history.Summary `json:"runs"`
}

func openHistory() *history.DB {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	db, err := history.OpenDB(cfg.HistoryDBPath())
	if err != nil {
		exitWithError(ExitError, "opening history: %v", err)
	}
	return db
}

func runHistory(cmd *cobra.Command, args []string) error {
	db := openHistory()
	defer db.Close()

	runs, err := db.ListRuns(historyLimit)
	if err != nil {
		exitWithError(ExitError, "listing runs: %v", err)
	}

	if humanOutput {
		if len(runs) == 0 {
			fmt.Println("no runs recorded")
			return nil
		}
		for _, r := range runs {
			fmt.Printf("%4d  %s  %s  %d refs, %d errors, %d warnings\n",
				r.ID, r.CheckedAt.Format("2006-01-02 15:04"), r.Document,
				r.References, r.Errors, r.Warnings)
		}
		return nil
	}
	return outputJSON(HistoryResult{Runs: runs})
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		exitWithError(ExitError, "invalid run id %q", args[0])
	}

	db := openHistory()
	defer db.Close()

	run, err := db.GetRun(id)
	if err != nil {
		exitWithError(ExitError, "loading run %d: %v", id, err)
	}
	if run == nil {
		exitWithError(ExitDataError, "run %d not found", id)
	}

	if humanOutput {
		fmt.Printf("run %d: %s (%s)\n\n", run.ID, run.Document, run.CheckedAt.Format("2006-01-02 15:04"))
		for i, r := range run.Results {
			fmt.Printf("%d. %s\n", i+1, truncateString(r.Reference.Title, 70))
			for _, v := range r.Verdicts {
				tag := "WARN"
				if v.IsError() {
					tag = "ERROR"
				}
				fmt.Printf("  [%s] %s\n", tag, indentLines(v.Details, "          ")[10:])
			}
			fmt.Println()
		}
		return nil
	}
	return outputJSON(run)
}
