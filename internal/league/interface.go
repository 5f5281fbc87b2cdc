package league

import "context"

// Store defines the interface for interacting with the league's data.
type Store interface {
	CreateConference(ctx context.Context, name, description string) (*Conference, error)
	ListConferences(ctx context.Context) ([]Conference, error)
	DeleteConference(ctx context.Context, id string) error

	CreateTeam(ctx context.Context, team Team) (*Team, error)
	UpdateTeam(ctx context.Context, team Team) error
	DeleteTeam(ctx context.Context, id string) error
	GetTeam(ctx context.Context, id string) (*Team, error)
	GetTeamByEAClubID(ctx context.Context, clubID string) (*Team, error)
	ListTeams(ctx context.Context, conferenceID string) ([]Team, error)
	AssignConference(ctx context.Context, teamID, conferenceID string) error
	SetTeamLogo(ctx context.Context, teamID, logoURL string) error

	CreateUser(ctx context.Context, gamerTag, email string, isAdmin bool) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	FindUserByGamerTag(ctx context.Context, gamerTag string) (*User, error)
	CreatePlayer(ctx context.Context, userID, teamID string, role PlayerRole) (*Player, error)
	GetPlayer(ctx context.Context, id string) (*Player, error)
	GetPlayerByUserID(ctx context.Context, userID string) (*Player, error)
	ListPlayers(ctx context.Context, teamID string) ([]Player, error)
	AssignPlayerToTeam(ctx context.Context, playerID, teamID string, role PlayerRole) error

	CreateSeason(ctx context.Context, name string, start, end int64) (*Season, error)
	GetSeason(ctx context.Context, id string) (*Season, error)
	ListSeasons(ctx context.Context) ([]Season, error)
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	CurrentSeason(ctx context.Context) (*Season, error)
	SetCurrentSeason(ctx context.Context, seasonID string) error

	Register(ctx context.Context, userID, seasonID string, primary, secondary Position) (*Registration, error)
	ListRegistrations(ctx context.Context, seasonID string, status RegistrationStatus) ([]Registration, error)
	UpdateRegistrationStatus(ctx context.Context, id string, status RegistrationStatus) error

	CreateMatch(ctx context.Context, match Match) (*Match, error)
	GetMatch(ctx context.Context, id string) (*Match, error)
	ListMatches(ctx context.Context, filter MatchFilter) ([]Match, error)
	RecordResult(ctx context.Context, matchID string, homeScore, awayScore int, overtime bool) error
	FindScheduledMatch(ctx context.Context, seasonID, teamA, teamB string) (*Match, error)
	LinkEAMatch(ctx context.Context, matchID, eaMatchID string) error
}
