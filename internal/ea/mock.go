package ea

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of the EAClient interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	GetClubMatchesFunc func(clubID string) ([]RawMatch, error)
	SearchClubsFunc    func(name string) ([]ClubInfo, error)

	GetClubMatchesCalls []string
	SearchClubsCalls    []string
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Reset clears all call records.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetClubMatchesCalls = nil
	m.SearchClubsCalls = nil
}

func (m *MockClient) GetClubMatches(ctx context.Context, clubID string) ([]RawMatch, error) {
	m.mu.Lock()
	m.GetClubMatchesCalls = append(m.GetClubMatchesCalls, clubID)
	fn := m.GetClubMatchesFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(clubID)
	}
	return []RawMatch{}, nil
}

func (m *MockClient) SearchClubs(ctx context.Context, name string) ([]ClubInfo, error) {
	m.mu.Lock()
	m.SearchClubsCalls = append(m.SearchClubsCalls, name)
	fn := m.SearchClubsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(name)
	}
	return []ClubInfo{}, nil
}
