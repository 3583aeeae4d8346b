// Package monitor orchestrates one monitoring run: fetch fresh contributions
// for the watch list, decide whether to alert, deliver the digest, and record
// the outcome.
package monitor

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/fecwatch/contribution-monitor/internal/aggregator"
	"github.com/fecwatch/contribution-monitor/internal/config"
	"github.com/fecwatch/contribution-monitor/internal/digest"
	"github.com/fecwatch/contribution-monitor/internal/domain"
	"github.com/fecwatch/contribution-monitor/internal/fec"
	"github.com/fecwatch/contribution-monitor/internal/notify"
	"github.com/fecwatch/contribution-monitor/internal/secrets"
	"github.com/fecwatch/contribution-monitor/internal/storage"
	"github.com/fecwatch/contribution-monitor/internal/watchlist"
)

// Status messages exposed to the HTTP trigger caller.
const (
	MessageSent  = "Alert sent successfully"
	MessageNoNew = "No new contributions found"
)

// Outcome summarizes a completed run.
type Outcome struct {
	Status             domain.RunOutcome
	Message            string
	ContributionsFound int
	RecordsSkipped     int
}

// Runner executes one monitoring pass.
type Runner interface {
	Run(ctx context.Context) (*Outcome, error)
}

// Service runs the monitoring pipeline with fixed collaborators.
type Service struct {
	contributors []domain.Contributor
	aggregator   aggregator.Aggregator
	notifier     notify.Notifier
	store        storage.Storage // may be nil; run history is best effort
}

// NewService creates a new monitor service
func NewService(contributors []domain.Contributor, agg aggregator.Aggregator, notifier notify.Notifier, store storage.Storage) *Service {
	return &Service{
		contributors: contributors,
		aggregator:   agg,
		notifier:     notifier,
		store:        store,
	}
}

// Run executes one monitoring pass. Per-contributor fetch failures have
// already degraded to empty groups inside the aggregator; a notification
// failure fails the run.
func (s *Service) Run(ctx context.Context) (*Outcome, error) {
	ranAt := time.Now()
	summary := s.aggregator.Aggregate(ctx, s.contributors)

	run := &domain.MonitorRun{
		ID:                  uuid.New().String(),
		RanAt:               ranAt,
		ContributorsChecked: len(s.contributors),
		ContributionsFound:  summary.Digest.TotalContributions(),
		RecordsSkipped:      summary.RecordsSkipped,
	}

	if summary.RecordsSkipped > 0 {
		log.Printf("skipped %d malformed records this run", summary.RecordsSkipped)
	}

	if !summary.Digest.HasContributions() {
		run.Outcome = domain.RunOutcomeNoNew
		s.recordRun(ctx, run)
		return &Outcome{
			Status:         domain.RunOutcomeNoNew,
			Message:        MessageNoNew,
			RecordsSkipped: summary.RecordsSkipped,
		}, nil
	}

	body, err := digest.RenderHTML(summary.Digest)
	if err != nil {
		run.Outcome = domain.RunOutcomeFailed
		run.Error = err.Error()
		s.recordRun(ctx, run)
		return nil, fmt.Errorf("failed to render digest: %w", err)
	}

	if err := s.notifier.Send(ctx, digest.Subject(ranAt), body); err != nil {
		run.Outcome = domain.RunOutcomeFailed
		run.Error = err.Error()
		s.recordRun(ctx, run)
		return nil, err
	}

	run.Outcome = domain.RunOutcomeSent
	s.recordRun(ctx, run)
	return &Outcome{
		Status:             domain.RunOutcomeSent,
		Message:            MessageSent,
		ContributionsFound: run.ContributionsFound,
		RecordsSkipped:     summary.RecordsSkipped,
	}, nil
}

// recordRun persists the run audit row. Storage failures are logged, never
// fatal: the alert has already been delivered (or skipped) by this point.
func (s *Service) recordRun(ctx context.Context, run *domain.MonitorRun) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveRun(ctx, run); err != nil {
		log.Printf("warning: failed to record monitor run: %v", err)
	}
}

// FromConfig wires a Service from configuration and the secret store.
func FromConfig(ctx context.Context, cfg *config.Config, store storage.Storage) (*Service, error) {
	contributors, err := watchlist.Load(cfg.WatchlistPath)
	if err != nil {
		return nil, err
	}

	secretStore, err := secrets.New(cfg)
	if err != nil {
		return nil, err
	}
	apiKey, err := secretStore.Get(ctx, secrets.FECAPIKey)
	if err != nil {
		return nil, err
	}
	smtpPassword, err := secretStore.Get(ctx, secrets.SMTPPassword)
	if err != nil {
		return nil, err
	}

	fetcher := fec.NewClient(cfg.FEC, apiKey)
	notifier := notify.NewSMTPNotifier(cfg.SMTP, smtpPassword, cfg.NotificationEmail)

	return NewService(contributors, aggregator.New(fetcher), notifier, store), nil
}

// ConfigRunner rebuilds the pipeline from configuration on every run, so a
// missing secret or bad config surfaces as a failed run instead of crashing
// the host process.
type ConfigRunner struct {
	cfg   *config.Config
	store storage.Storage
}

// NewConfigRunner creates a runner bound to configuration
func NewConfigRunner(cfg *config.Config, store storage.Storage) *ConfigRunner {
	return &ConfigRunner{cfg: cfg, store: store}
}

// Run wires and executes one monitoring pass
func (r *ConfigRunner) Run(ctx context.Context) (*Outcome, error) {
	svc, err := FromConfig(ctx, r.cfg, r.store)
	if err != nil {
		r.recordFailure(ctx, err)
		return nil, err
	}
	return svc.Run(ctx)
}

func (r *ConfigRunner) recordFailure(ctx context.Context, cause error) {
	if r.store == nil {
		return
	}
	run := &domain.MonitorRun{
		ID:      uuid.New().String(),
		RanAt:   time.Now(),
		Outcome: domain.RunOutcomeFailed,
		Error:   cause.Error(),
	}
	if err := r.store.SaveRun(ctx, run); err != nil {
		log.Printf("warning: failed to record monitor run: %v", err)
	}
}
