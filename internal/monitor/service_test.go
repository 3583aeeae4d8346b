package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fecwatch/contribution-monitor/internal/aggregator"
	"github.com/fecwatch/contribution-monitor/internal/domain"
	apperrors "github.com/fecwatch/contribution-monitor/internal/errors"
)

// stubAggregator returns a fixed summary
type stubAggregator struct {
	summary *aggregator.Summary
}

func (s *stubAggregator) Aggregate(_ context.Context, _ []domain.Contributor) *aggregator.Summary {
	return s.summary
}

// MockNotifier is a mock implementation of the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, subject, htmlBody string) error {
	args := m.Called(ctx, subject, htmlBody)
	return args.Error(0)
}

// MockStorage is a mock implementation of the Storage interface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveRun(ctx context.Context, run *domain.MonitorRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockStorage) ListRuns(ctx context.Context, limit int) ([]*domain.MonitorRun, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*domain.MonitorRun), args.Error(1)
}

func (m *MockStorage) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStorage) Close() error {
	args := m.Called()
	return args.Error(0)
}

var watchedPair = []domain.Contributor{
	{Name: "A", Employer: "X"},
	{Name: "B", Employer: "Y"},
}

func summaryWith(groups ...domain.Group) *aggregator.Summary {
	return &aggregator.Summary{
		Digest: &domain.Digest{
			GeneratedAt: time.Now(),
			Groups:      groups,
		},
	}
}

func freshContribution() domain.Contribution {
	return domain.Contribution{
		Date:            time.Now().AddDate(0, 0, -3),
		Amount:          decimal.RequireFromString("250.00"),
		ContributorName: "A",
		Employer:        "X",
		CommitteeName:   "EXAMPLE PAC",
		LoadDate:        time.Now().AddDate(0, 0, -1),
	}
}

func TestService_Run_AllEmptySendsNothing(t *testing.T) {
	agg := &stubAggregator{summary: summaryWith(
		domain.Group{Contributor: watchedPair[0]},
		domain.Group{Contributor: watchedPair[1]},
	)}
	notifier := new(MockNotifier)
	store := new(MockStorage)
	store.On("SaveRun", mock.Anything, mock.AnythingOfType("*domain.MonitorRun")).Return(nil)

	svc := NewService(watchedPair, agg, notifier, store)
	outcome, err := svc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.RunOutcomeNoNew, outcome.Status)
	assert.Equal(t, MessageNoNew, outcome.Message)
	notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)

	store.AssertExpectations(t)
	saved := store.Calls[0].Arguments.Get(1).(*domain.MonitorRun)
	assert.Equal(t, domain.RunOutcomeNoNew, saved.Outcome)
	assert.Equal(t, 2, saved.ContributorsChecked)
}

func TestService_Run_SendsSingleDigestCoveringAllGroups(t *testing.T) {
	agg := &stubAggregator{summary: summaryWith(
		domain.Group{Contributor: watchedPair[0], Contributions: []domain.Contribution{freshContribution()}},
		domain.Group{Contributor: watchedPair[1]},
	)}
	notifier := new(MockNotifier)
	notifier.On("Send", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil).Once()
	store := new(MockStorage)
	store.On("SaveRun", mock.Anything, mock.AnythingOfType("*domain.MonitorRun")).Return(nil)

	svc := NewService(watchedPair, agg, notifier, store)
	outcome, err := svc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.RunOutcomeSent, outcome.Status)
	assert.Equal(t, MessageSent, outcome.Message)
	assert.Equal(t, 1, outcome.ContributionsFound)
	notifier.AssertExpectations(t)

	subject := notifier.Calls[0].Arguments.String(1)
	body := notifier.Calls[0].Arguments.String(2)
	assert.Contains(t, subject, "FEC Contribution Alert - ")
	assert.Contains(t, subject, time.Now().Format("2006-01-02"))
	assert.Contains(t, body, "Contributions from A")
	assert.Contains(t, body, "No recent contributions found for B")

	saved := store.Calls[0].Arguments.Get(1).(*domain.MonitorRun)
	assert.Equal(t, domain.RunOutcomeSent, saved.Outcome)
	assert.Equal(t, 1, saved.ContributionsFound)
}

func TestService_Run_NotifierErrorFailsRun(t *testing.T) {
	agg := &stubAggregator{summary: summaryWith(
		domain.Group{Contributor: watchedPair[0], Contributions: []domain.Contribution{freshContribution()}},
	)}
	notifier := new(MockNotifier)
	notifier.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(apperrors.NewNotifyError("failed to send notification email", assert.AnError))
	store := new(MockStorage)
	store.On("SaveRun", mock.Anything, mock.AnythingOfType("*domain.MonitorRun")).Return(nil)

	svc := NewService(watchedPair[:1], agg, notifier, store)
	outcome, err := svc.Run(context.Background())

	assert.Error(t, err)
	assert.Nil(t, outcome)

	saved := store.Calls[0].Arguments.Get(1).(*domain.MonitorRun)
	assert.Equal(t, domain.RunOutcomeFailed, saved.Outcome)
	assert.Contains(t, saved.Error, "failed to send notification email")
}

func TestService_Run_StorageErrorDoesNotFailRun(t *testing.T) {
	agg := &stubAggregator{summary: summaryWith(
		domain.Group{Contributor: watchedPair[0]},
	)}
	notifier := new(MockNotifier)
	store := new(MockStorage)
	store.On("SaveRun", mock.Anything, mock.Anything).Return(assert.AnError)

	svc := NewService(watchedPair[:1], agg, notifier, store)
	outcome, err := svc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.RunOutcomeNoNew, outcome.Status)
}

func TestService_Run_NilStore(t *testing.T) {
	agg := &stubAggregator{summary: summaryWith(
		domain.Group{Contributor: watchedPair[0]},
	)}

	svc := NewService(watchedPair[:1], agg, new(MockNotifier), nil)
	outcome, err := svc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, MessageNoNew, outcome.Message)
}

func TestService_Run_RecordsSkippedPropagated(t *testing.T) {
	summary := summaryWith(domain.Group{Contributor: watchedPair[0]})
	summary.RecordsSkipped = 3
	agg := &stubAggregator{summary: summary}
	store := new(MockStorage)
	store.On("SaveRun", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(watchedPair[:1], agg, new(MockNotifier), store)
	outcome, err := svc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, outcome.RecordsSkipped)
	saved := store.Calls[0].Arguments.Get(1).(*domain.MonitorRun)
	assert.Equal(t, 3, saved.RecordsSkipped)
}
