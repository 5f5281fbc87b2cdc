package league

import (
	"context"
	"database/sql"
	"sync"
)

// MockStore is a mock of the league store methods used by the ingest and discord packages.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	GetTeamFunc            func(id string) (*Team, error)
	GetTeamByEAClubIDFunc  func(clubID string) (*Team, error)
	ListTeamsFunc          func(conferenceID string) ([]Team, error)
	FindUserByGamerTagFunc func(gamerTag string) (*User, error)
	GetPlayerByUserIDFunc  func(userID string) (*Player, error)
	ListPlayersFunc        func(teamID string) ([]Player, error)
	CurrentSeasonFunc      func() (*Season, error)
	FindScheduledMatchFunc func(seasonID, teamA, teamB string) (*Match, error)
	RecordResultFunc       func(matchID string, homeScore, awayScore int, overtime bool) error
	LinkEAMatchFunc        func(matchID, eaMatchID string) error

	// Call records
	RecordResultCalls []RecordResultCall
	LinkEAMatchCalls  []LinkEAMatchCall
}

// RecordResultCall holds the arguments for a call to RecordResult.
type RecordResultCall struct {
	MatchID   string
	HomeScore int
	AwayScore int
	Overtime  bool
}

// LinkEAMatchCall holds the arguments for a call to LinkEAMatch.
type LinkEAMatchCall struct {
	MatchID   string
	EAMatchID string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordResultCalls = nil
	m.LinkEAMatchCalls = nil
}

func (m *MockStore) GetTeam(ctx context.Context, id string) (*Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetTeamFunc != nil {
		return m.GetTeamFunc(id)
	}
	return nil, TranslateError(sql.ErrNoRows, "team "+id)
}

func (m *MockStore) GetTeamByEAClubID(ctx context.Context, clubID string) (*Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetTeamByEAClubIDFunc != nil {
		return m.GetTeamByEAClubIDFunc(clubID)
	}
	return nil, TranslateError(sql.ErrNoRows, "team for EA club "+clubID)
}

func (m *MockStore) ListTeams(ctx context.Context, conferenceID string) ([]Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListTeamsFunc != nil {
		return m.ListTeamsFunc(conferenceID)
	}
	return []Team{}, nil
}

func (m *MockStore) FindUserByGamerTag(ctx context.Context, gamerTag string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindUserByGamerTagFunc != nil {
		return m.FindUserByGamerTagFunc(gamerTag)
	}
	return nil, TranslateError(sql.ErrNoRows, "user "+gamerTag)
}

func (m *MockStore) GetPlayerByUserID(ctx context.Context, userID string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerByUserIDFunc != nil {
		return m.GetPlayerByUserIDFunc(userID)
	}
	return nil, TranslateError(sql.ErrNoRows, "player for user "+userID)
}

func (m *MockStore) ListPlayers(ctx context.Context, teamID string) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListPlayersFunc != nil {
		return m.ListPlayersFunc(teamID)
	}
	return []Player{}, nil
}

func (m *MockStore) CurrentSeason(ctx context.Context) (*Season, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CurrentSeasonFunc != nil {
		return m.CurrentSeasonFunc()
	}
	return nil, TranslateError(sql.ErrNoRows, "current season")
}

func (m *MockStore) FindScheduledMatch(ctx context.Context, seasonID, teamA, teamB string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindScheduledMatchFunc != nil {
		return m.FindScheduledMatchFunc(seasonID, teamA, teamB)
	}
	return nil, TranslateError(sql.ErrNoRows, "scheduled match")
}

func (m *MockStore) RecordResult(ctx context.Context, matchID string, homeScore, awayScore int, overtime bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordResultCalls = append(m.RecordResultCalls, RecordResultCall{matchID, homeScore, awayScore, overtime})
	if m.RecordResultFunc != nil {
		return m.RecordResultFunc(matchID, homeScore, awayScore, overtime)
	}
	return nil
}

func (m *MockStore) LinkEAMatch(ctx context.Context, matchID, eaMatchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinkEAMatchCalls = append(m.LinkEAMatchCalls, LinkEAMatchCall{matchID, eaMatchID})
	if m.LinkEAMatchFunc != nil {
		return m.LinkEAMatchFunc(matchID, eaMatchID)
	}
	return nil
}
