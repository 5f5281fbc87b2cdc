package ingest

import (
	"context"

	"github.com/mauv0809/pro-clubs-league/internal/ea"
	"github.com/mauv0809/pro-clubs-league/internal/league"
)

// Store persists raw and normalized EA match rows.
type Store interface {
	GetMatch(ctx context.Context, eaMatchID string) (*StoredMatch, error)
	// SaveMatch upserts the raw payload and replaces the match's team and player rows.
	// playerIDs maps EA player ids to league player ids; unmapped players stay unlinked.
	SaveMatch(ctx context.Context, rec ea.MatchRecord, raw []byte, playerIDs map[string]string) error
	LinkMatch(ctx context.Context, eaMatchID, matchID string) error
	ListMatches(ctx context.Context, limit int) ([]StoredMatch, error)
	ListPlayerLines(ctx context.Context, eaMatchID string) ([]PlayerRow, error)
}

// LeagueStore is the part of the league store ingestion depends on.
type LeagueStore interface {
	GetTeam(ctx context.Context, id string) (*league.Team, error)
	GetTeamByEAClubID(ctx context.Context, clubID string) (*league.Team, error)
	ListTeams(ctx context.Context, conferenceID string) ([]league.Team, error)
	FindUserByGamerTag(ctx context.Context, gamerTag string) (*league.User, error)
	GetPlayerByUserID(ctx context.Context, userID string) (*league.Player, error)
	CurrentSeason(ctx context.Context) (*league.Season, error)
	FindScheduledMatch(ctx context.Context, seasonID, teamA, teamB string) (*league.Match, error)
	RecordResult(ctx context.Context, matchID string, homeScore, awayScore int, overtime bool) error
	LinkEAMatch(ctx context.Context, matchID, eaMatchID string) error
}

// Syncer pulls EA matches into the league.
type Syncer interface {
	SyncClub(ctx context.Context, teamID string, dryRun bool) (*SyncReport, error)
	SyncAll(ctx context.Context, dryRun bool) (*SyncReport, error)
}
