package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

var (
	ErrRunNotFound  = errors.New("run not found")
	ErrAmbiguousRun = errors.New("run id is ambiguous")
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one execution of a prompt in one browser.
type Run struct {
	ID         string
	PromptPath string
	Browser    string
	Status     string
	Actions    int
	FailedAt   int // index of the failing action, -1 when none failed
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

type ActionResult struct {
	Position    int
	Kind        string
	Target      string
	Description string
	Status      string
	Detail      string
	Tag         string
	Error       string
	Duration    time.Duration
}

// StatusCount is the number of runs in a status.
type StatusCount struct {
	Status string
	Count  int
}

// RegisterPrompt records path if it is not tracked yet and reports whether it
// was new.
func RegisterPrompt(sqlDB *sql.DB, path, name string) (bool, error) {
	var id int64
	err := sqlDB.QueryRow(`SELECT id FROM prompts WHERE file_path = ?`, path).Scan(&id)
	if err == nil {
		_, err = sqlDB.Exec(`UPDATE prompts SET name = ?, updated_at = datetime('now') WHERE id = ?`, name, id)
		if err != nil {
			return false, fmt.Errorf("updating %s: %w", path, err)
		}
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("querying %s: %w", path, err)
	}
	if _, err := sqlDB.Exec(`INSERT INTO prompts (file_path, name) VALUES (?, ?)`, path, name); err != nil {
		return false, fmt.Errorf("inserting %s: %w", path, err)
	}
	return true, nil
}

// InsertRun stores r and its action results in one transaction.
func InsertRun(sqlDB *sql.DB, r Run, results []ActionResult) error {
	tx, err := sqlDB.Begin()
	if err != nil {
		return fmt.Errorf("beginning run insert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs (id, prompt_path, browser, status, actions, failed_at, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.PromptPath, r.Browser, r.Status, r.Actions, r.FailedAt, r.Error,
		r.StartedAt.UTC().Format(timeLayout), r.FinishedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", r.ID, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO action_results
		(run_id, position, kind, target, description, status, detail, tag, error, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing action insert: %w", err)
	}
	defer stmt.Close()

	for _, ar := range results {
		if _, err := stmt.Exec(r.ID, ar.Position, ar.Kind, ar.Target, ar.Description, ar.Status,
			ar.Detail, ar.Tag, ar.Error, ar.Duration.Milliseconds()); err != nil {
			return fmt.Errorf("inserting action %d of run %s: %w", ar.Position, r.ID, err)
		}
	}

	return tx.Commit()
}

const runColumns = `id, prompt_path, browser, status, actions, failed_at, error, started_at, finished_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var r Run
	var started, finished string
	if err := s.Scan(&r.ID, &r.PromptPath, &r.Browser, &r.Status, &r.Actions, &r.FailedAt, &r.Error, &started, &finished); err != nil {
		return Run{}, err
	}
	var err error
	if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return Run{}, fmt.Errorf("parsing started_at of %s: %w", r.ID, err)
	}
	if r.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
		return Run{}, fmt.Errorf("parsing finished_at of %s: %w", r.ID, err)
	}
	return r, nil
}

// ListRuns returns runs newest first, optionally filtered by status.
func ListRuns(sqlDB *sql.DB, status string) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY started_at DESC, id`

	rows, err := sqlDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// FindRun looks a run up by its id or a unique id prefix. The prefix is
// matched literally.
func FindRun(sqlDB *sql.DB, idOrPrefix string) (Run, error) {
	rows, err := sqlDB.Query(`SELECT `+runColumns+` FROM runs WHERE id = ? OR substr(id, 1, ?) = ? ORDER BY id LIMIT 2`,
		idOrPrefix, utf8.RuneCountInString(idOrPrefix), idOrPrefix)
	if err != nil {
		return Run{}, fmt.Errorf("querying run %s: %w", idOrPrefix, err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return Run{}, fmt.Errorf("scanning run: %w", err)
		}
		if r.ID == idOrPrefix {
			return r, nil
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}
	switch len(found) {
	case 0:
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, idOrPrefix)
	case 1:
		return found[0], nil
	}
	return Run{}, fmt.Errorf("%w: %s", ErrAmbiguousRun, idOrPrefix)
}

// ActionResults returns the recorded actions of a run in execution order.
func ActionResults(sqlDB *sql.DB, runID string) ([]ActionResult, error) {
	rows, err := sqlDB.Query(`SELECT position, kind, target, description, status, detail, tag, error, duration_ms
		FROM action_results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying actions of %s: %w", runID, err)
	}
	defer rows.Close()

	var results []ActionResult
	for rows.Next() {
		var ar ActionResult
		var ms int64
		if err := rows.Scan(&ar.Position, &ar.Kind, &ar.Target, &ar.Description, &ar.Status,
			&ar.Detail, &ar.Tag, &ar.Error, &ms); err != nil {
			return nil, fmt.Errorf("scanning action: %w", err)
		}
		ar.Duration = time.Duration(ms) * time.Millisecond
		results = append(results, ar)
	}
	return results, rows.Err()
}

// StatusCounts groups runs by status, largest group first.
func StatusCounts(sqlDB *sql.DB) ([]StatusCount, error) {
	rows, err := sqlDB.Query(`SELECT status, COUNT(*) AS cnt FROM runs GROUP BY status ORDER BY cnt DESC, status`)
	if err != nil {
		return nil, fmt.Errorf("querying status counts: %w", err)
	}
	defer rows.Close()

	var counts []StatusCount
	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning status row: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
