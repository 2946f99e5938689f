package db

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
)

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store and applies migrations
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS benchmark_results (
			id BIGSERIAL PRIMARY KEY,
			run_id TEXT NOT NULL,
			branch TEXT NOT NULL,
			commit_sha TEXT NOT NULL DEFAULT '',
			benchmark TEXT NOT NULL,
			metric TEXT NOT NULL,
			value DOUBLE PRECISION NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_benchmark_metric
			ON benchmark_results(benchmark, metric, recorded_at DESC)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	slog.Debug("postgres history schema ready")
	return nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// SaveRun stores every value of the run in one transaction.
func (s *PostgresStore) SaveRun(run Run) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	query := `INSERT INTO benchmark_results
		(run_id, branch, commit_sha, benchmark, metric, value, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, e := range run.entries() {
		if _, err := tx.Exec(query, e.RunID, e.Branch, e.Commit, e.Benchmark, e.Metric, e.Value, e.RecordedAt); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert %s/%s: %w", e.Benchmark, e.Metric, err)
		}
	}
	return tx.Commit()
}

// QueryHistory retrieves the most recent values of a benchmark metric
func (s *PostgresStore) QueryHistory(benchmark, metric string, limit int) ([]Entry, error) {
	query := `SELECT run_id, branch, commit_sha, benchmark, metric, value, recorded_at
		FROM benchmark_results WHERE benchmark = $1 AND metric = $2
		ORDER BY recorded_at DESC, id DESC LIMIT $3`
	rows, err := s.db.Query(query, benchmark, metric, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}
