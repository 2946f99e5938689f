package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store and applies migrations
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS benchmark_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		branch TEXT NOT NULL,
		commit_sha TEXT NOT NULL DEFAULT '',
		benchmark TEXT NOT NULL,
		metric TEXT NOT NULL,
		value REAL NOT NULL,
		recorded_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_results_benchmark_metric
		ON benchmark_results(benchmark, metric, recorded_at DESC);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun stores every value of the run in one transaction.
func (s *SQLiteStore) SaveRun(run Run) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO benchmark_results
		(run_id, branch, commit_sha, benchmark, metric, value, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, e := range run.entries() {
		if _, err := stmt.Exec(e.RunID, e.Branch, e.Commit, e.Benchmark, e.Metric, e.Value, e.RecordedAt); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert %s/%s: %w", e.Benchmark, e.Metric, err)
		}
	}
	return tx.Commit()
}

// QueryHistory retrieves the most recent values of a benchmark metric
func (s *SQLiteStore) QueryHistory(benchmark, metric string, limit int) ([]Entry, error) {
	query := `SELECT run_id, branch, commit_sha, benchmark, metric, value, recorded_at
		FROM benchmark_results WHERE benchmark = ? AND metric = ?
		ORDER BY recorded_at DESC, id DESC LIMIT ?`
	rows, err := s.db.Query(query, benchmark, metric, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var results []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.RunID, &e.Branch, &e.Commit, &e.Benchmark, &e.Metric, &e.Value, &e.RecordedAt); err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}
