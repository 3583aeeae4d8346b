package storage

import (
	"context"

	"github.com/fecwatch/contribution-monitor/internal/domain"
)

// Storage is the abstract interface for the run-history persistence layer.
// Only run audit rows are stored; contributions themselves are never
// persisted across runs.
type Storage interface {
	// SaveRun records the outcome of one monitoring run
	SaveRun(ctx context.Context, run *domain.MonitorRun) error

	// ListRuns returns the most recent runs, newest first
	ListRuns(ctx context.Context, limit int) ([]*domain.MonitorRun, error)

	// Migration
	Migrate(ctx context.Context) error

	// Connection management
	Close() error
}
