package postgres

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/fecwatch/contribution-monitor/internal/domain"
	"github.com/fecwatch/contribution-monitor/internal/storage"
)

// postgresStorage implements the Storage interface for PostgreSQL
type postgresStorage struct {
	db *sql.DB
}

// NewPostgresStorage creates a new PostgreSQL storage instance
func NewPostgresStorage(connURL string) (storage.Storage, error) {
	db, err := sql.Open("postgres", connURL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &postgresStorage{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		return nil, err
	}

	return s, nil
}

// Migrate runs database migrations
func (s *postgresStorage) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS monitor_runs (
		id TEXT PRIMARY KEY,
		ran_at TIMESTAMPTZ NOT NULL,
		outcome TEXT NOT NULL,
		contributors_checked INTEGER NOT NULL,
		contributions_found INTEGER NOT NULL,
		records_skipped INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_monitor_runs_ran_at ON monitor_runs(ran_at);
	CREATE INDEX IF NOT EXISTS idx_monitor_runs_outcome ON monitor_runs(outcome);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveRun records the outcome of one monitoring run
func (s *postgresStorage) SaveRun(ctx context.Context, run *domain.MonitorRun) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO monitor_runs (id, ran_at, outcome, contributors_checked, contributions_found, records_skipped, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, run.ID, run.RanAt, string(run.Outcome), run.ContributorsChecked, run.ContributionsFound, run.RecordsSkipped, run.Error)
	return err
}

// ListRuns returns the most recent runs, newest first
func (s *postgresStorage) ListRuns(ctx context.Context, limit int) ([]*domain.MonitorRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ran_at, outcome, contributors_checked, contributions_found, records_skipped, error, created_at
		FROM monitor_runs
		ORDER BY ran_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*domain.MonitorRun
	for rows.Next() {
		var run domain.MonitorRun
		var outcome string
		if err := rows.Scan(&run.ID, &run.RanAt, &outcome, &run.ContributorsChecked, &run.ContributionsFound, &run.RecordsSkipped, &run.Error, &run.CreatedAt); err != nil {
			return nil, err
		}
		run.Outcome = domain.RunOutcome(outcome)
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// Close closes the database connection
func (s *postgresStorage) Close() error {
	return s.db.Close()
}
