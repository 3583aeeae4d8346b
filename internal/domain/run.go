package domain

import "time"

// RunOutcome classifies how a monitoring run ended.
type RunOutcome string

const (
	RunOutcomeSent   RunOutcome = "sent"
	RunOutcomeNoNew  RunOutcome = "no_new_contributions"
	RunOutcomeFailed RunOutcome = "failed"
)

// MonitorRun is the audit record persisted for each monitoring run. Only run
// metadata is stored; individual contributions are never persisted, freshness
// is recomputed from load dates on every run.
type MonitorRun struct {
	ID                  string     `json:"id"`
	RanAt               time.Time  `json:"ran_at"`
	Outcome             RunOutcome `json:"outcome"`
	ContributorsChecked int        `json:"contributors_checked"`
	ContributionsFound  int        `json:"contributions_found"`
	RecordsSkipped      int        `json:"records_skipped"`
	Error               string     `json:"error,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}
