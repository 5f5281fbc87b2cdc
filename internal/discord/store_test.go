package discord_test

import (
	"context"
	"testing"

	"github.com/mauv0809/pro-clubs-league/internal/database"
	"github.com/mauv0809/pro-clubs-league/internal/discord"
	"github.com/mauv0809/pro-clubs-league/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	league league.Store
	store  discord.Store
	hawks  *league.Team
	wolves *league.Team
}

// setupTestDB creates an in-memory database with two teams.
func setupTestDB(t *testing.T) (*fixture, func()) {
	t.Helper()
	ctx := context.Background()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	f := &fixture{league: league.New(db), store: discord.NewStore(db)}
	f.hawks, err = f.league.CreateTeam(ctx, league.Team{Name: "Hawks"})
	require.NoError(t, err)
	f.wolves, err = f.league.CreateTeam(ctx, league.Team{Name: "Wolves"})
	require.NoError(t, err)
	return f, teardown
}

func TestBotConfig(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	_, err := f.store.GetBotConfig(ctx, "g1")
	assert.ErrorIs(t, err, league.ErrNotFound)

	cfg, err := f.store.UpsertBotConfig(ctx, discord.BotConfig{GuildID: " g1 ", ResultsChannelID: "c1", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "g1", cfg.GuildID)
	assert.Equal(t, "c1", cfg.ResultsChannelID)
	assert.NotZero(t, cfg.UpdatedAt)

	cfg, err = f.store.UpsertBotConfig(ctx, discord.BotConfig{GuildID: "g1", ResultsChannelID: "c2"})
	require.NoError(t, err)
	assert.Equal(t, "c2", cfg.ResultsChannelID)
	assert.False(t, cfg.IsActive)

	_, err = f.store.UpsertBotConfig(ctx, discord.BotConfig{})
	assert.ErrorIs(t, err, league.ErrValidation)
}

func TestRoleMaps(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	require.NoError(t, f.store.SetTeamRole(ctx, "g1", f.wolves.ID, "r1"))
	require.NoError(t, f.store.SetTeamRole(ctx, "g1", f.hawks.ID, "r2"))
	require.NoError(t, f.store.SetTeamRole(ctx, "g1", f.hawks.ID, "r3"))
	assert.ErrorIs(t, f.store.SetTeamRole(ctx, "g1", "ghost", "r4"), league.ErrValidation)

	roles, err := f.store.ListTeamRoles(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, discord.TeamRole{GuildID: "g1", TeamID: f.hawks.ID, TeamName: "Hawks", RoleID: "r3"}, roles[0])

	require.NoError(t, f.store.DeleteTeamRole(ctx, "g1", f.wolves.ID))
	assert.ErrorIs(t, f.store.DeleteTeamRole(ctx, "g1", f.wolves.ID), league.ErrNotFound)

	assert.ErrorIs(t, f.store.SetManagementRole(ctx, "g1", league.RolePlayer, "r9"), league.ErrValidation)
	require.NoError(t, f.store.SetManagementRole(ctx, "g1", league.RoleCaptain, "r-capt"))
	require.NoError(t, f.store.SetManagementRole(ctx, "g1", league.RoleGM, "r-gm"))
	mgmt, err := f.store.ListManagementRoles(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, mgmt, 2)
	assert.Equal(t, league.RoleCaptain, mgmt[0].PlayerRole)

	require.NoError(t, f.store.DeleteManagementRole(ctx, "g1", league.RoleGM))
	mgmt, err = f.store.ListManagementRoles(ctx, "g2")
	require.NoError(t, err)
	assert.Empty(t, mgmt)
}

func TestDiscordAndTwitchLinks(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	alpha, err := f.league.CreateUser(ctx, "Alpha", "", false)
	require.NoError(t, err)
	bravo, err := f.league.CreateUser(ctx, "bravo", "", false)
	require.NoError(t, err)

	linked, err := f.store.LinkDiscordUser(ctx, alpha.ID, "d1", "alpha#1")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", linked.GamerTag)

	_, err = f.store.LinkDiscordUser(ctx, bravo.ID, "d1", "")
	assert.ErrorIs(t, err, league.ErrConflict, "a Discord account links to one user")

	linked, err = f.store.LinkDiscordUser(ctx, alpha.ID, "d1", "alpha#2")
	require.NoError(t, err)
	assert.Equal(t, "alpha#2", linked.DiscordUsername)

	_, err = f.store.LinkDiscordUser(ctx, bravo.ID, "d2", "")
	require.NoError(t, err)
	users, err := f.store.ListDiscordUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Alpha", users[0].GamerTag)

	require.NoError(t, f.store.UnlinkDiscordUser(ctx, bravo.ID))
	assert.ErrorIs(t, f.store.UnlinkDiscordUser(ctx, bravo.ID), league.ErrNotFound)

	tw, err := f.store.LinkTwitchUser(ctx, alpha.ID, " StreamerX ")
	require.NoError(t, err)
	assert.Equal(t, "streamerx", tw.TwitchLogin)
	assert.False(t, tw.IsLive)

	require.NoError(t, f.store.SetTwitchLive(ctx, "STREAMERX", true, "Playoffs"))
	live, err := f.store.ListTwitchUsers(ctx, true)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "Playoffs", live[0].StreamTitle)
	assert.NotZero(t, live[0].CheckedAt)

	require.NoError(t, f.store.SetTwitchLive(ctx, "streamerx", false, "ignored"))
	live, err = f.store.ListTwitchUsers(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, live)

	all, err := f.store.ListTwitchUsers(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Empty(t, all[0].StreamTitle)

	assert.ErrorIs(t, f.store.SetTwitchLive(ctx, "nobody", true, ""), league.ErrNotFound)
	require.NoError(t, f.store.UnlinkTwitchUser(ctx, alpha.ID))
}
