// Package history persists check runs and their verdicts in a SQLite
// database so past verifications of a document can be reviewed.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/refcheck/refcheck/internal/compare"
	"github.com/refcheck/refcheck/internal/reference"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// Run is one verification of one document.
type Run struct {
	ID        int64     `json:"id"`
	Document  string    `json:"document"`
	CheckedAt time.Time `json:"checked_at"`
	Results   []Result  `json:"results"`
}

// Result pairs a cited reference with the verdicts it drew.
type Result struct {
	Reference reference.Reference `json:"reference"`
	Verdicts  []compare.Verdict   `json:"verdicts"`
}

// Summary is the list view of a run.
type Summary struct {
	ID         int64     `json:"id"`
	Document   string    `json:"document"`
	CheckedAt  time.Time `json:"checked_at"`
	References int       `json:"references"`
	Errors     int       `json:"errors"`
	Warnings   int       `json:"warnings"`
}

// OpenDB opens or creates the history database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			document TEXT NOT NULL,
			checked_at INTEGER NOT NULL,
			reference_count INTEGER NOT NULL,
			error_count INTEGER NOT NULL,
			warning_count INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS results (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			reference_json TEXT NOT NULL,
			verdicts_json TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_runs_document ON runs(document);
	`
	_, err := db.Exec(schema)
	return err
}

// SaveRun stores a run and its results, returning the run ID.
func (d *DB) SaveRun(run Run) (int64, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	errors, warnings := countLevels(run.Results)

	res, err := tx.Exec(
		`INSERT INTO runs (document, checked_at, reference_count, error_count, warning_count)
		 VALUES (?, ?, ?, ?, ?)`,
		run.Document, run.CheckedAt.Unix(), len(run.Results), errors, warnings,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for i, r := range run.Results {
		refJSON, err := json.Marshal(r.Reference)
		if err != nil {
			return 0, fmt.Errorf("marshaling reference %d: %w", i, err)
		}
		verdictsJSON, err := json.Marshal(r.Verdicts)
		if err != nil {
			return 0, fmt.Errorf("marshaling verdicts %d: %w", i, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO results (run_id, position, reference_json, verdicts_json)
			 VALUES (?, ?, ?, ?)`,
			runID, i, string(refJSON), string(verdictsJSON),
		); err != nil {
			return 0, fmt.Errorf("inserting result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
func (d *DB) ListRuns(limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := d.db.Query(
		`SELECT id, document, checked_at, reference_count, error_count, warning_count
		 FROM runs ORDER BY checked_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var s Summary
		var ts int64
		if err := rows.Scan(&s.ID, &s.Document, &ts, &s.References, &s.Errors, &s.Warnings); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		s.CheckedAt = time.Unix(ts, 0).UTC()
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// GetRun loads one run with its full results. Returns nil when the run
// does not exist.
func (d *DB) GetRun(id int64) (*Run, error) {
	run := Run{ID: id}
	var ts int64
	err := d.db.QueryRow(
		`SELECT document, checked_at FROM runs WHERE id = ?`, id,
	).Scan(&run.Document, &ts)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying run %d: %w", id, err)
	}
	run.CheckedAt = time.Unix(ts, 0).UTC()

	rows, err := d.db.Query(
		`SELECT reference_json, verdicts_json FROM results
		 WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var refJSON, verdictsJSON string
		if err := rows.Scan(&refJSON, &verdictsJSON); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		var r Result
		if err := json.Unmarshal([]byte(refJSON), &r.Reference); err != nil {
			return nil, fmt.Errorf("unmarshaling reference: %w", err)
		}
		if err := json.Unmarshal([]byte(verdictsJSON), &r.Verdicts); err != nil {
			return nil, fmt.Errorf("unmarshaling verdicts: %w", err)
		}
		run.Results = append(run.Results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &run, nil
}

// countLevels tallies error and warning verdicts across results.
func countLevels(results []Result) (errors, warnings int) {
	for _, r := range results {
		for _, v := range r.Verdicts {
			if v.IsError() {
				errors++
			} else {
				warnings++
			}
		}
	}
	return errors, warnings
}
