package notifier

import (
	"context"
	"sync"
)

// MockNotifier is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type MockNotifier struct {
	mu sync.Mutex

	// Spies for method calls
	SendMatchResultFunc   func(result MatchResult, dryRun bool) error
	SendSyncSummaryFunc   func(summary SyncSummary, dryRun bool) error
	SendImportSummaryFunc func(summary ImportSummary, dryRun bool) error

	// Call records
	SendMatchResultCalls   []SendMatchResultCall
	SendSyncSummaryCalls   []SendSyncSummaryCall
	SendImportSummaryCalls []SendImportSummaryCall
}

// SendMatchResultCall holds the arguments for a call to SendMatchResult.
type SendMatchResultCall struct {
	Result MatchResult
	DryRun bool
}

// SendSyncSummaryCall holds the arguments for a call to SendSyncSummary.
type SendSyncSummaryCall struct {
	Summary SyncSummary
	DryRun  bool
}

// SendImportSummaryCall holds the arguments for a call to SendImportSummary.
type SendImportSummaryCall struct {
	Summary ImportSummary
	DryRun  bool
}

var _ Notifier = (*MockNotifier)(nil)

// NewMock creates a new mock notifier.
func NewMock() *MockNotifier {
	return &MockNotifier{}
}

// Reset clears all call records.
func (m *MockNotifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = nil
	m.SendSyncSummaryCalls = nil
	m.SendImportSummaryCalls = nil
}

func (m *MockNotifier) SendMatchResult(ctx context.Context, result MatchResult, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, SendMatchResultCall{Result: result, DryRun: dryRun})
	if m.SendMatchResultFunc != nil {
		return m.SendMatchResultFunc(result, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendSyncSummary(ctx context.Context, summary SyncSummary, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendSyncSummaryCalls = append(m.SendSyncSummaryCalls, SendSyncSummaryCall{Summary: summary, DryRun: dryRun})
	if m.SendSyncSummaryFunc != nil {
		return m.SendSyncSummaryFunc(summary, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendImportSummary(ctx context.Context, summary ImportSummary, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendImportSummaryCalls = append(m.SendImportSummaryCalls, SendImportSummaryCall{Summary: summary, DryRun: dryRun})
	if m.SendImportSummaryFunc != nil {
		return m.SendImportSummaryFunc(summary, dryRun)
	}
	return nil
}
