package stats

import (
	"context"
	"sync"
)

// MockStore is a mock implementation of the Store interface for testing.
type MockStore struct {
	mu sync.Mutex

	UpsertSkaterSeasonFunc  func(line SkaterLine) error
	UpsertGoalieSeasonFunc  func(line GoalieLine) error
	DeleteSkaterSeasonFunc  func(playerID, seasonID string) error
	DeleteGoalieSeasonFunc  func(playerID, seasonID string) error
	ListSkaterSeasonFunc    func(seasonID, teamID string) ([]SkaterLine, error)
	ListGoalieSeasonFunc    func(seasonID, teamID string) ([]GoalieLine, error)
	PlayerSkaterHistoryFunc func(playerID string) ([]SkaterLine, error)
	PlayerGoalieHistoryFunc func(playerID string) ([]GoalieLine, error)
	SkaterLeadersFunc       func(seasonID string, limit int) ([]SkaterLine, error)
	RebuildFromEAFunc       func(seasonID string) (*RebuildReport, error)

	UpsertSkaterSeasonCalls []SkaterLine
	UpsertGoalieSeasonCalls []GoalieLine
	RebuildFromEACalls      []string
}

var _ Store = (*MockStore)(nil)

func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) UpsertSkaterSeason(ctx context.Context, line SkaterLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertSkaterSeasonCalls = append(m.UpsertSkaterSeasonCalls, line)
	if m.UpsertSkaterSeasonFunc != nil {
		return m.UpsertSkaterSeasonFunc(line)
	}
	return nil
}

func (m *MockStore) UpsertGoalieSeason(ctx context.Context, line GoalieLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertGoalieSeasonCalls = append(m.UpsertGoalieSeasonCalls, line)
	if m.UpsertGoalieSeasonFunc != nil {
		return m.UpsertGoalieSeasonFunc(line)
	}
	return nil
}

func (m *MockStore) DeleteSkaterSeason(ctx context.Context, playerID, seasonID string) error {
	if m.DeleteSkaterSeasonFunc != nil {
		return m.DeleteSkaterSeasonFunc(playerID, seasonID)
	}
	return nil
}

func (m *MockStore) DeleteGoalieSeason(ctx context.Context, playerID, seasonID string) error {
	if m.DeleteGoalieSeasonFunc != nil {
		return m.DeleteGoalieSeasonFunc(playerID, seasonID)
	}
	return nil
}

func (m *MockStore) ListSkaterSeason(ctx context.Context, seasonID, teamID string) ([]SkaterLine, error) {
	if m.ListSkaterSeasonFunc != nil {
		return m.ListSkaterSeasonFunc(seasonID, teamID)
	}
	return []SkaterLine{}, nil
}

func (m *MockStore) ListGoalieSeason(ctx context.Context, seasonID, teamID string) ([]GoalieLine, error) {
	if m.ListGoalieSeasonFunc != nil {
		return m.ListGoalieSeasonFunc(seasonID, teamID)
	}
	return []GoalieLine{}, nil
}

func (m *MockStore) PlayerSkaterHistory(ctx context.Context, playerID string) ([]SkaterLine, error) {
	if m.PlayerSkaterHistoryFunc != nil {
		return m.PlayerSkaterHistoryFunc(playerID)
	}
	return []SkaterLine{}, nil
}

func (m *MockStore) PlayerGoalieHistory(ctx context.Context, playerID string) ([]GoalieLine, error) {
	if m.PlayerGoalieHistoryFunc != nil {
		return m.PlayerGoalieHistoryFunc(playerID)
	}
	return []GoalieLine{}, nil
}

func (m *MockStore) SkaterLeaders(ctx context.Context, seasonID string, limit int) ([]SkaterLine, error) {
	if m.SkaterLeadersFunc != nil {
		return m.SkaterLeadersFunc(seasonID, limit)
	}
	return []SkaterLine{}, nil
}

func (m *MockStore) RebuildFromEA(ctx context.Context, seasonID string) (*RebuildReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RebuildFromEACalls = append(m.RebuildFromEACalls, seasonID)
	if m.RebuildFromEAFunc != nil {
		return m.RebuildFromEAFunc(seasonID)
	}
	return &RebuildReport{SeasonID: seasonID}, nil
}
