package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/refcheck/refcheck/internal/compare"
	"github.com/refcheck/refcheck/internal/reference"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRun(doc string) Run {
	return Run{
		Document:  doc,
		CheckedAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		Results: []Result{
			{
				Reference: reference.Reference{
					Title:   "Attention Is All You Need",
					Authors: []string{"Ashish Vaswani", "et al"},
					Year:    2017,
				},
				Verdicts: []compare.Verdict{
					{Level: compare.LevelWarning, Kind: compare.KindYear, Details: "year mismatch: cited 2017, actual 2018", Corrected: "2018"},
				},
			},
			{
				Reference: reference.Reference{Title: "A Clean Reference"},
			},
		},
	}
}

func TestSaveRunAndGetRun(t *testing.T) {
	db := openTestDB(t)

	id, err := db.SaveRun(sampleRun("paper.pdf"))
	if err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	run, err := db.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run == nil {
		t.Fatal("GetRun() = nil, want run")
	}
	if run.Document != "paper.pdf" {
		t.Errorf("Document = %q", run.Document)
	}
	if len(run.Results) != 2 {
		t.Fatalf("Results = %d, want 2", len(run.Results))
	}
	if run.Results[0].Reference.Title != "Attention Is All You Need" {
		t.Errorf("Results[0].Reference.Title = %q", run.Results[0].Reference.Title)
	}
	if len(run.Results[0].Verdicts) != 1 || run.Results[0].Verdicts[0].Kind != compare.KindYear {
		t.Errorf("Results[0].Verdicts = %+v", run.Results[0].Verdicts)
	}
	if !run.CheckedAt.Equal(time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("CheckedAt = %v", run.CheckedAt)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	db := openTestDB(t)

	run, err := db.GetRun(999)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run != nil {
		t.Errorf("GetRun() = %+v, want nil for a missing run", run)
	}
}

func TestListRuns(t *testing.T) {
	db := openTestDB(t)

	for _, doc := range []string{"first.pdf", "second.pdf", "third.pdf"} {
		if _, err := db.SaveRun(sampleRun(doc)); err != nil {
			t.Fatalf("SaveRun(%s) error = %v", doc, err)
		}
	}

	runs, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ListRuns() returned %d runs, want 2", len(runs))
	}
	// Newest first: equal timestamps fall back to descending id.
	if runs[0].Document != "third.pdf" {
		t.Errorf("runs[0].Document = %q, want third.pdf", runs[0].Document)
	}
	if runs[0].References != 2 {
		t.Errorf("runs[0].References = %d, want 2", runs[0].References)
	}
	if runs[0].Errors != 0 || runs[0].Warnings != 1 {
		t.Errorf("runs[0] errors/warnings = %d/%d, want 0/1", runs[0].Errors, runs[0].Warnings)
	}
}

func TestListRuns_Empty(t *testing.T) {
	db := openTestDB(t)

	runs, err := db.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("ListRuns() returned %d runs, want 0", len(runs))
	}
}
