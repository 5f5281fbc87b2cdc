package discord_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/mauv0809/pro-clubs-league/internal/discord"
	"github.com/mauv0809/pro-clubs-league/internal/league"
	"github.com/mauv0809/pro-clubs-league/internal/metrics"
	"github.com/mauv0809/pro-clubs-league/internal/notifier"
	"github.com/mauv0809/pro-clubs-league/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRoles maps Hawks, Wolves, captains and registered players to roles and
// links three users: a Hawks captain, a user without a roster spot and a
// user who is not in the guild.
func setupRoles(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()

	_, err := f.store.UpsertBotConfig(ctx, discord.BotConfig{GuildID: "g1", RegisteredRoleID: "r-reg", ResultsChannelID: "c1", IsActive: true})
	require.NoError(t, err)
	require.NoError(t, f.store.SetTeamRole(ctx, "g1", f.hawks.ID, "r-hawks"))
	require.NoError(t, f.store.SetTeamRole(ctx, "g1", f.wolves.ID, "r-wolves"))
	require.NoError(t, f.store.SetManagementRole(ctx, "g1", league.RoleCaptain, "r-capt"))

	alpha, err := f.league.CreateUser(ctx, "alpha", "", false)
	require.NoError(t, err)
	_, err = f.league.CreatePlayer(ctx, alpha.ID, f.hawks.ID, league.RoleCaptain)
	require.NoError(t, err)
	bravo, err := f.league.CreateUser(ctx, "bravo", "", false)
	require.NoError(t, err)
	charlie, err := f.league.CreateUser(ctx, "charlie", "", false)
	require.NoError(t, err)

	for _, link := range []struct{ userID, discordID string }{{alpha.ID, "d1"}, {bravo.ID, "d2"}, {charlie.ID, "d3"}} {
		_, err := f.store.LinkDiscordUser(ctx, link.userID, link.discordID, "")
		require.NoError(t, err)
	}
}

func TestSyncRoles(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()
	setupRoles(t, f)

	session := discord.NewMockSession()
	session.Members["d1"] = []string{"r-wolves", "other"}
	session.Members["d2"] = []string{"r-reg"}
	bot := discord.NewWithSession(session, "g1", f.store, f.league, metrics.NewMock())

	report, err := bot.SyncRoles(ctx, "", true)
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 3, report.Users)
	require.Len(t, report.Changes, 2)
	assert.Equal(t, []string{"r-capt", "r-hawks", "r-reg"}, report.Changes[0].Added)
	assert.Equal(t, []string{"r-wolves"}, report.Changes[0].Removed)
	assert.Empty(t, report.Changes[1].Added)
	assert.Equal(t, []string{"r-reg"}, report.Changes[1].Removed)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "charlie")
	assert.Empty(t, session.RoleAddCalls, "dry run changes nothing")

	report, err = bot.SyncRoles(ctx, "g1", false)
	require.NoError(t, err)
	assert.Len(t, session.RoleAddCalls, 3)
	assert.Len(t, session.RoleRemoveCalls, 2)
	assert.ElementsMatch(t, []string{"other", "r-hawks", "r-capt", "r-reg"}, session.Members["d1"], "unmapped roles are kept")
	assert.Empty(t, session.Members["d2"])

	report, err = bot.SyncRoles(ctx, "g1", false)
	require.NoError(t, err)
	assert.Empty(t, report.Changes, "a second run is a no-op")
}

func TestSyncRolesRecordsApiErrors(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()
	setupRoles(t, f)

	session := discord.NewMockSession()
	session.Members["d1"] = []string{}
	session.GuildMemberRoleAddFunc = func(guildID, userID, roleID string) error {
		if roleID == "r-capt" {
			return errors.New("missing permissions")
		}
		return nil
	}
	bot := discord.NewWithSession(session, "g1", f.store, f.league, metrics.NewMock())

	report, err := bot.SyncRoles(ctx, "g1", false)
	require.NoError(t, err)
	assert.Contains(t, report.Errors, "alpha: add r-capt: missing permissions")
}

func TestSyncRolesNeedsGuild(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()

	bot := discord.NewWithSession(discord.NewMockSession(), "", f.store, f.league, metrics.NewMock())
	_, err := bot.SyncRoles(context.Background(), "", false)
	assert.ErrorIs(t, err, league.ErrValidation)
}

func TestStatus(t *testing.T) {
	session := discord.NewMockSession()
	session.Status = discord.Status{Configured: true, Connected: true, Username: "LeagueBot", GuildCount: 1, LatencyMs: 42}
	bot := discord.NewWithSession(session, "g1", nil, nil, metrics.NewMock())

	st, err := bot.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "LeagueBot", st.Username)

	var missing *discord.Bot
	st, err = missing.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, st.Configured)
}

func TestNotifier(t *testing.T) {
	f, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	session := discord.NewMockSession()
	m := metrics.NewMock()
	bot := discord.NewWithSession(session, "g1", f.store, f.league, m)
	standings := func(ctx context.Context) ([]stats.Standing, error) {
		return []stats.Standing{{TeamName: "Hawks", GamesPlayed: 1, Wins: 1, Points: 2}}, nil
	}
	n := discord.NewNotifier(bot, standings)
	result := notifier.MatchResult{HomeTeam: "Hawks", AwayTeam: "Wolves", HomeScore: 3, AwayScore: 2, Overtime: true}

	require.NoError(t, n.SendMatchResult(ctx, result, false))
	assert.Empty(t, session.EmbedCalls, "nothing is posted without a bot config")

	_, err := f.store.UpsertBotConfig(ctx, discord.BotConfig{GuildID: "g1", ResultsChannelID: "c1", IsActive: true})
	require.NoError(t, err)

	require.NoError(t, n.SendMatchResult(ctx, result, false))
	require.Len(t, session.EmbedCalls, 1)
	assert.Equal(t, "c1", session.EmbedCalls[0].ChannelID)
	assert.Equal(t, "Hawks 3 - 2 Wolves (OT)", session.EmbedCalls[0].Embed.Title)
	assert.Equal(t, 1, m.NotifSent(discord.Channel))

	require.NoError(t, n.SendSyncSummary(ctx, notifier.SyncSummary{ResultsLinked: 0}, false))
	require.NoError(t, n.SendSyncSummary(ctx, notifier.SyncSummary{ResultsLinked: 1, DryRun: true}, false))
	assert.Len(t, session.EmbedCalls, 1)

	require.NoError(t, n.SendSyncSummary(ctx, notifier.SyncSummary{ResultsLinked: 1}, false))
	require.Len(t, session.EmbedCalls, 2)
	assert.Equal(t, "Standings", session.EmbedCalls[1].Embed.Title)
	assert.Contains(t, session.EmbedCalls[1].Embed.Description, "Hawks")

	session.ChannelMessageSendEmbedFunc = func(channelID string, embed *discordgo.MessageEmbed) error {
		return errors.New("rate limited")
	}
	assert.Error(t, n.SendMatchResult(ctx, result, false))
	assert.Equal(t, 1, m.NotifFailed(discord.Channel))
}

func TestFormatMatchResult(t *testing.T) {
	embed := discord.FormatMatchResult(notifier.MatchResult{
		HomeTeam: "Hawks", AwayTeam: "Wolves", HomeScore: 1, AwayScore: 4,
		Stars: []string{"Sniper 2G 1A"}, SeasonName: "Season 2", PlayedAt: 1700000000,
	})
	assert.Equal(t, "Hawks 1 - 4 Wolves", embed.Title)
	assert.Equal(t, "Wolves win", embed.Description)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "Sniper 2G 1A", embed.Fields[0].Value)
	assert.Equal(t, "Season 2", embed.Footer.Text)
	assert.Equal(t, "2023-11-14T22:13:20Z", embed.Timestamp)
}
