package sqlite

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fecwatch/contribution-monitor/internal/domain"
	"github.com/fecwatch/contribution-monitor/internal/storage"
)

// sqliteStorage implements the Storage interface for SQLite
type sqliteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (storage.Storage, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	s := &sqliteStorage{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		return nil, err
	}

	return s, nil
}

// Migrate runs database migrations
func (s *sqliteStorage) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS monitor_runs (
		id TEXT PRIMARY KEY,
		ran_at TIMESTAMP NOT NULL,
		outcome TEXT NOT NULL,
		contributors_checked INTEGER NOT NULL,
		contributions_found INTEGER NOT NULL,
		records_skipped INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_monitor_runs_ran_at ON monitor_runs(ran_at);
	CREATE INDEX IF NOT EXISTS idx_monitor_runs_outcome ON monitor_runs(outcome);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveRun records the outcome of one monitoring run
func (s *sqliteStorage) SaveRun(ctx context.Context, run *domain.MonitorRun) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO monitor_runs (id, ran_at, outcome, contributors_checked, contributions_found, records_skipped, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.RanAt, string(run.Outcome), run.ContributorsChecked, run.ContributionsFound, run.RecordsSkipped, run.Error)
	return err
}

// ListRuns returns the most recent runs, newest first
func (s *sqliteStorage) ListRuns(ctx context.Context, limit int) ([]*domain.MonitorRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ran_at, outcome, contributors_checked, contributions_found, records_skipped, error, created_at
		FROM monitor_runs
		ORDER BY ran_at DESC
		LIMIT ?
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
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}
