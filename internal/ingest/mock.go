package ingest

import (
	"context"
	"sync"
)

// MockSyncer is a mock implementation of the Syncer interface for testing.
type MockSyncer struct {
	mu sync.Mutex

	SyncClubFunc func(teamID string, dryRun bool) (*SyncReport, error)
	SyncAllFunc  func(dryRun bool) (*SyncReport, error)

	SyncClubCalls []string
	SyncAllCalls  []bool
}

var _ Syncer = (*MockSyncer)(nil)

func NewMock() *MockSyncer {
	return &MockSyncer{}
}

func (m *MockSyncer) SyncClub(ctx context.Context, teamID string, dryRun bool) (*SyncReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SyncClubCalls = append(m.SyncClubCalls, teamID)
	if m.SyncClubFunc != nil {
		return m.SyncClubFunc(teamID, dryRun)
	}
	return &SyncReport{DryRun: dryRun, Clubs: []ClubReport{}, Failures: []string{}}, nil
}

func (m *MockSyncer) SyncAll(ctx context.Context, dryRun bool) (*SyncReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SyncAllCalls = append(m.SyncAllCalls, dryRun)
	if m.SyncAllFunc != nil {
		return m.SyncAllFunc(dryRun)
	}
	return &SyncReport{DryRun: dryRun, Clubs: []ClubReport{}, Failures: []string{}}, nil
}
