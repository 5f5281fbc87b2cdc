package stats_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/mauv0809/pro-clubs-league/internal/database"
	"github.com/mauv0809/pro-clubs-league/internal/league"
	"github.com/mauv0809/pro-clubs-league/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db     *sql.DB
	league league.Store
	stats  stats.Store
	team   *league.Team
	season *league.Season
	skater *league.Player
	goalie *league.Player
}

// setupTestDB creates an in-memory database with one team, one season and two players.
func setupTestDB(t *testing.T) (*fixture, func()) {
	t.Helper()
	ctx := context.Background()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	f := &fixture{db: db, league: league.New(db), stats: stats.New(db)}
	f.team, err = f.league.CreateTeam(ctx, league.Team{Name: "Harbour Hawks", EAClubID: "111"})
	require.NoError(t, err)
	f.season, err = f.league.CreateSeason(ctx, "Season 1", 1000, 2000)
	require.NoError(t, err)

	u1, err := f.league.CreateUser(ctx, "Sniper", "", false)
	require.NoError(t, err)
	f.skater, err = f.league.CreatePlayer(ctx, u1.ID, f.team.ID, "")
	require.NoError(t, err)

	u2, err := f.league.CreateUser(ctx, "Wall", "", false)
	require.NoError(t, err)
	f.goalie, err = f.league.CreatePlayer(ctx, u2.ID, f.team.ID, "")
	require.NoError(t, err)

	return f, teardown
}

func TestSkaterSeasonLifecycle(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	line := stats.SkaterLine{
		PlayerID:     f.skater.ID,
		SeasonID:     f.season.ID,
		Points:       1,
		SkaterCounts: stats.SkaterCounts{GamesPlayed: 4, Goals: 3, Assists: 5, Shots: 12},
	}
	require.NoError(t, f.stats.UpsertSkaterSeason(ctx, line))

	lines, err := f.stats.ListSkaterSeason(ctx, f.season.ID, f.team.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 8, lines[0].Points, "points are recomputed on write")
	assert.Equal(t, f.team.ID, lines[0].TeamID, "team falls back to the player's roster team")
	assert.Equal(t, "Sniper", lines[0].GamerTag)
	assert.Equal(t, "Harbour Hawks", lines[0].TeamName)

	line.Goals = 4
	require.NoError(t, f.stats.UpsertSkaterSeason(ctx, line))
	history, err := f.stats.PlayerSkaterHistory(ctx, f.skater.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 9, history[0].Points)

	err = f.stats.UpsertSkaterSeason(ctx, stats.SkaterLine{PlayerID: "ghost", SeasonID: f.season.ID})
	assert.ErrorIs(t, err, league.ErrValidation)

	require.NoError(t, f.stats.DeleteSkaterSeason(ctx, f.skater.ID, f.season.ID))
	assert.ErrorIs(t, f.stats.DeleteSkaterSeason(ctx, f.skater.ID, f.season.ID), league.ErrNotFound)
}

func TestGoalieSeasonValidation(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	bad := stats.GoalieLine{PlayerID: f.goalie.ID, SeasonID: f.season.ID, GoalieCounts: stats.GoalieCounts{Saves: 10, ShotsAgainst: 5}}
	assert.ErrorIs(t, f.stats.UpsertGoalieSeason(ctx, bad), league.ErrValidation)

	good := stats.GoalieLine{PlayerID: f.goalie.ID, SeasonID: f.season.ID, GoalieCounts: stats.GoalieCounts{GamesPlayed: 2, Wins: 1, Saves: 50, ShotsAgainst: 55}}
	require.NoError(t, f.stats.UpsertGoalieSeason(ctx, good))

	lines, err := f.stats.ListGoalieSeason(ctx, f.season.ID, "")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 0.909, lines[0].Row().SavePct)
}

func TestSkaterLeaders(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	require.NoError(t, f.stats.UpsertSkaterSeason(ctx, stats.SkaterLine{PlayerID: f.skater.ID, SeasonID: f.season.ID, SkaterCounts: stats.SkaterCounts{Goals: 1, Assists: 1}}))
	require.NoError(t, f.stats.UpsertSkaterSeason(ctx, stats.SkaterLine{PlayerID: f.goalie.ID, SeasonID: f.season.ID, SkaterCounts: stats.SkaterCounts{Goals: 3}}))

	leaders, err := f.stats.SkaterLeaders(ctx, f.season.ID, 1)
	require.NoError(t, err)
	require.Len(t, leaders, 1)
	assert.Equal(t, f.goalie.ID, leaders[0].PlayerID)
}

func TestRebuildFromEA(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	// A manual line that the rebuild must replace.
	require.NoError(t, f.stats.UpsertSkaterSeason(ctx, stats.SkaterLine{PlayerID: f.goalie.ID, SeasonID: f.season.ID, SkaterCounts: stats.SkaterCounts{Goals: 50}}))

	exec := func(query string, args ...any) {
		t.Helper()
		_, err := f.db.Exec(query, args...)
		require.NoError(t, err)
	}
	for _, m := range []struct {
		id       string
		playedAt int64
	}{{"m1", 1200}, {"m2", 1500}, {"m3", 5000}} {
		exec(`INSERT INTO ea_match_data (ea_match_id, played_at, home_club_id, away_club_id, raw_json, fetched_at)
			VALUES (?, ?, '111', '222', '{}', 0)`, m.id, m.playedAt)
	}
	insertLine := func(matchID, eaPlayerID, position, playerID, result string, goals, assists, saves, shotsAgainst, goalsAgainst int) {
		exec(`INSERT INTO ea_player_stats (ea_match_id, ea_club_id, ea_player_id, player_name, position, player_id,
				goals, assists, saves, shots_against, goals_against, toi_seconds, result)
			VALUES (?, '111', ?, ?, ?, ?, ?, ?, ?, ?, ?, 3600, ?)`,
			matchID, eaPlayerID, eaPlayerID, position, league.NullString(playerID), goals, assists, saves, shotsAgainst, goalsAgainst, result)
	}
	insertLine("m1", "ea-sniper", "C", f.skater.ID, stats.ResultWin, 2, 1, 0, 0, 0)
	insertLine("m2", "ea-sniper", "LW", f.skater.ID, stats.ResultOvertimeLoss, 1, 0, 0, 0, 0)
	insertLine("m3", "ea-sniper", "C", f.skater.ID, stats.ResultWin, 5, 5, 0, 0, 0)
	insertLine("m1", "ea-wall", "G", f.goalie.ID, stats.ResultWin, 0, 0, 20, 20, 0)
	insertLine("m2", "ea-wall", "G", f.goalie.ID, stats.ResultOvertimeLoss, 0, 0, 25, 28, 3)
	insertLine("m1", "ea-stranger", "RD", "", stats.ResultWin, 4, 0, 0, 0, 0)

	report, err := f.stats.RebuildFromEA(ctx, f.season.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, report.MatchLines, "only linked rows inside the season window count")
	assert.Equal(t, 1, report.SkaterLines)
	assert.Equal(t, 1, report.GoalieLines)

	skaters, err := f.stats.ListSkaterSeason(ctx, f.season.ID, "")
	require.NoError(t, err)
	require.Len(t, skaters, 1, "the manual line was replaced")
	assert.Equal(t, f.skater.ID, skaters[0].PlayerID)
	assert.Equal(t, 2, skaters[0].GamesPlayed)
	assert.Equal(t, 3, skaters[0].Goals)
	assert.Equal(t, 4, skaters[0].Points)
	assert.Equal(t, f.team.ID, skaters[0].TeamID)

	goalies, err := f.stats.ListGoalieSeason(ctx, f.season.ID, "")
	require.NoError(t, err)
	require.Len(t, goalies, 1)
	g := goalies[0]
	assert.Equal(t, 2, g.GamesPlayed)
	assert.Equal(t, 1, g.Wins)
	assert.Equal(t, 1, g.OvertimeLosses)
	assert.Equal(t, 1, g.Shutouts)
	assert.Equal(t, 48, g.ShotsAgainst)
	assert.Equal(t, 45, g.Saves)

	_, err = f.stats.RebuildFromEA(ctx, "missing")
	assert.ErrorIs(t, err, league.ErrNotFound)
}

func TestLoadStandings(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	rivals, err := f.league.CreateTeam(ctx, league.Team{Name: "Rivals"})
	require.NoError(t, err)
	played, err := f.league.CreateMatch(ctx, league.Match{SeasonID: f.season.ID, HomeTeamID: f.team.ID, AwayTeamID: rivals.ID, MatchDate: 1500})
	require.NoError(t, err)
	require.NoError(t, f.league.RecordResult(ctx, played.ID, 2, 3, true))
	_, err = f.league.CreateMatch(ctx, league.Match{SeasonID: f.season.ID, HomeTeamID: rivals.ID, AwayTeamID: f.team.ID, MatchDate: 1600})
	require.NoError(t, err)

	table, err := stats.LoadStandings(ctx, f.league, f.season.ID)
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, "Rivals", table[0].TeamName)
	assert.Equal(t, 2, table[0].Points)
	assert.Equal(t, 1, table[1].OvertimeLosses)
	assert.Equal(t, 1, table[1].Points)
	assert.Equal(t, 1, table[1].GamesPlayed, "scheduled matches are not counted")
}
