package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/pro-clubs-league/internal/auth"
	"github.com/mauv0809/pro-clubs-league/internal/config"
	"github.com/mauv0809/pro-clubs-league/internal/csvimport"
	"github.com/mauv0809/pro-clubs-league/internal/database"
	"github.com/mauv0809/pro-clubs-league/internal/discord"
	"github.com/mauv0809/pro-clubs-league/internal/ea"
	"github.com/mauv0809/pro-clubs-league/internal/ingest"
	"github.com/mauv0809/pro-clubs-league/internal/league"
	"github.com/mauv0809/pro-clubs-league/internal/metrics"
	"github.com/mauv0809/pro-clubs-league/internal/notifier"
	"github.com/mauv0809/pro-clubs-league/internal/pubsub"
	"github.com/mauv0809/pro-clubs-league/internal/stats"
	"github.com/mauv0809/pro-clubs-league/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

type fakeBot struct {
	guildID   string
	syncCalls []bool
	syncErr   error
}

func (b *fakeBot) Status(ctx context.Context) (discord.Status, error) {
	return discord.Status{Configured: true, Connected: true, Username: "league-bot", GuildCount: 1}, nil
}

func (b *fakeBot) SyncRoles(ctx context.Context, guildID string, dryRun bool) (*discord.RoleSyncReport, error) {
	b.syncCalls = append(b.syncCalls, dryRun)
	if b.syncErr != nil {
		return nil, b.syncErr
	}
	return &discord.RoleSyncReport{GuildID: guildID, DryRun: dryRun, Changes: []discord.MemberChange{}, Errors: []string{}}, nil
}

func (b *fakeBot) GuildID() string { return b.guildID }

type testServer struct {
	*Server
	syncer   *ingest.MockSyncer
	eaClient *ea.MockClient
	pubsub   *pubsub.Mock
	uploader *storage.MockUploader
	bot      *fakeBot
	token    string
}

// setupTestServer wires the server against an in-memory database and mock integrations.
func setupTestServer(t *testing.T) (*testServer, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	counters := metrics.NewCounterStore(db)
	authenticator := auth.New("test-secret", "league-test")

	ts := &testServer{
		syncer:   ingest.NewMock(),
		eaClient: ea.NewMockClient(),
		pubsub:   pubsub.NewMock(),
		uploader: storage.NewMockUploader(),
		bot:      &fakeBot{guildID: "g1"},
	}
	ts.token, err = authenticator.Issue("admin", auth.RoleAdmin, time.Hour)
	require.NoError(t, err)

	cfg := config.Config{}
	cfg.Logo.PublicBaseURL = ts.uploader.BaseURL

	ts.Server = NewServer(Deps{
		League:         league.New(db),
		Stats:          stats.New(db),
		EAMatches:      ingest.NewStore(db),
		Syncer:         ts.syncer,
		EAClient:       ts.eaClient,
		Importer:       csvimport.NewImporter(db, metricsSvc, counters, notifier.NewMock()),
		Discord:        discord.NewStore(db),
		Bot:            ts.bot,
		Uploader:       ts.uploader,
		PubSub:         ts.pubsub,
		Metrics:        metricsSvc,
		Counters:       counters,
		MetricsHandler: metrics.NewMetricsHandler(reg),
		Auth:           authenticator,
		DB:             db,
		Cfg:            cfg,
	})
	return ts, dbTeardown
}

func (ts *testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if strings.HasPrefix(target, "/admin") || strings.HasPrefix(target, "/pubsub") {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	rr := httptest.NewRecorder()
	ts.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

// seedLeague creates a current season, a team and one rostered player through the API.
func (ts *testServer) seedLeague(t *testing.T) (league.Season, league.Team, league.Player) {
	t.Helper()
	rr := ts.do(t, "POST", "/admin/seasons", map[string]any{
		"name": "Season 1", "start_date": 1700000000, "end_date": 1800000000, "current": true,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	season := decodeBody[league.Season](t, rr)

	rr = ts.do(t, "POST", "/admin/teams", map[string]any{"name": "Hawks", "abbreviation": "HWK", "ea_club_id": "111"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	team := decodeBody[league.Team](t, rr)

	rr = ts.do(t, "POST", "/admin/users", map[string]any{"gamer_tag": "Sniper"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	user := decodeBody[league.User](t, rr)

	rr = ts.do(t, "POST", "/admin/players", map[string]any{"user_id": user.ID, "team_id": team.ID, "role": "captain"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	player := decodeBody[league.Player](t, rr)
	return season, team, player
}

func TestHealthCheckHandler(t *testing.T) {
	ts, teardown := setupTestServer(t)
	defer teardown()

	rr := ts.do(t, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())

	rr = ts.do(t, "GET", "/metrics", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAdminRequiresAdminToken(t *testing.T) {
	ts, teardown := setupTestServer(t)
	defer teardown()

	req := httptest.NewRequest("GET", "/admin/seasons", nil)
	rr := httptest.NewRecorder()
	ts.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	playerToken, err := ts.Auth.Issue("someone", "player", time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/admin/seasons", nil)
	req.Header.Set("Authorization", "Bearer "+playerToken)
	rr = httptest.NewRecorder()
	ts.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestPublicEndpointsWithoutSeason(t *testing.T) {
	ts, teardown := setupTestServer(t)
	defer teardown()

	for _, path := range []string{"/api/standings", "/api/stats/skaters", "/api/stats/goalies", "/api/teams", "/api/conferences"} {
		t.Run(path, func(t *testing.T) {
			rr := ts.do(t, "GET", path, nil)
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
		})
	}
}

func TestTeamLifecycle(t *testing.T) {
	ts, teardown := setupTestServer(t)
	defer teardown()
	_, team, player := ts.seedLeague(t)

	rr := ts.do(t, "POST", "/admin/teams", map[string]any{"name": "Hawks"})
	assert.Equal(t, http.StatusConflict, rr.Code, "team names are unique")

	rr = ts.do(t, "POST", "/admin/teams", map[string]any{"name": "Hawks", "colour": "red"})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "unknown fields are rejected")

	rr = ts.do(t, "POST", "/admin/conferences", map[string]any{"name": "East"})
	require.Equal(t, http.StatusCreated, rr.Code)
	conference := decodeBody[league.Conference](t, rr)

	rr = ts.do(t, "PUT", "/admin/teams/"+team.ID+"/conference", map[string]any{"conference_id": conference.ID})
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.do(t, "GET", "/api/teams?conference_id="+conference.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	teams := decodeBody[[]league.Team](t, rr)
	require.Len(t, teams, 1)
	assert.Equal(t, "Hawks", teams[0].Name)

	rr = ts.do(t, "GET", "/api/teams/"+team.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	profile := decodeBody[teamProfile](t, rr)
	assert.Equal(t, team.ID, profile.Team.ID)
	require.Len(t, profile.Roster, 1)
	assert.Equal(t, player.ID, profile.Roster[0].ID)

	rr = ts.do(t, "GET", "/api/teams/missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "error")

	rr = ts.do(t, "GET", "/api/players/"+player.ID, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRegistration(t *testing.T) {
	ts, teardown := setupTestServer(t)
	defer teardown()

	rr := ts.do(t, "POST", "/api/registrations", map[string]any{"gamer_tag": "Rookie", "primary_position": "C"})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "no season is current")

	season, _, _ := ts.seedLeague(t)

	rr = ts.do(t, "POST", "/api/registrations", map[string]any{"gamer_tag": "Rookie", "primary_position": "zz"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.do(t, "POST", "/api/registrations", map[string]any{
		"gamer_tag": "Rookie", "primary_position": "lw", "secondary_position": "C",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	reg := decodeBody[league.Registration](t, rr)
	assert.Equal(t, season.ID, reg.SeasonID)
	assert.Equal(t, "Rookie", reg.GamerTag)
	assert.Equal(t, league.PositionLeftWing, reg.PrimaryPosition)

	rr = ts.do(t, "POST", "/api/registrations", map[string]any{"gamer_tag": "rookie", "primary_position": "C"})
	assert.Equal(t, http.StatusConflict, rr.Code, "one registration per user and season")

	rr = ts.do(t, "GET", "/admin/registrations", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	regs := decodeBody[[]league.Registration](t, rr)
	require.Len(t, regs, 1)

	rr = ts.do(t, "PUT", "/admin/registrations/"+reg.ID, map[string]any{"status": "approved"})
	assert.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())
}

func TestImportCSVAndStats(t *testing.T) {
	ts, teardown := setupTestServer(t)
	defer teardown()
	season, _, player := ts.seedLeague(t)

	csv := fmt.Sprintf("player_id,gp,g,a\n%s,10,7,3\nghost,1,1,1\n", player.ID)
	rr := ts.do(t, "POST", "/admin/stats/import?kind=skater", csv)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	report := decodeBody[csvimport.Report](t, rr)
	assert.Equal(t, season.ID, report.SeasonID)
	assert.Equal(t, 1, report.Imported)
	assert.Len(t, report.Skipped, 1)

	rr = ts.do(t, "GET", "/api/stats/skaters", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rows := decodeBody[[]stats.SkaterRow](t, rr)
	require.Len(t, rows, 1)
	assert.Equal(t, 10, rows[0].Points)
	assert.Equal(t, "Sniper", rows[0].GamerTag)

	rr = ts.do(t, "DELETE", "/admin/stats/skaters/"+season.ID+"/"+player.ID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.do(t, "GET", "/api/stats/skaters", nil)
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))

	counters := ts.do(t, "GET", "/admin/counters", nil)
	require.Equal(t, http.StatusOK, counters.Code)
	got := decodeBody[map[string]int](t, counters)
	assert.Equal(t, 1, got[metrics.CounterCSVSkipped])
}

func TestImportCSVMultipart(t *testing.T) {
	ts, teardown := setupTestServer(t)
	defer teardown()
	_, _, player := ts.seedLeague(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "goalies.csv")
	require.NoError(t, err)
	fmt.Fprintf(fw, "player_id,gp,w,sa,sv,ga\n%s,2,1,30,28,2\n", player.ID)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/admin/stats/import?kind=goalie", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ts.token)
	rr := httptest.NewRecorder()
	ts.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, 1, decodeBody[csvimport.Report](t, rr).Imported)
}

func TestRebuildStats(t *testing.T) {
	ts, teardown := setupTestServer(t)
	defer teardown()

	rr := ts.do(t, "POST", "/admin/stats/rebuild", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "needs a season")

	season, _, _ := ts.seedLeague(t)

	rr = ts.do(t, "POST", "/admin/stats/rebuild?async=true", nil)
	assert.Equal(t, http.StatusAccepted, rr.Code)
	require.Len(t, ts.pubsub.Published, 1)
	assert.Equal(t, pubsub.EventRecalculateStats, ts.pubsub.Published[0].Topic)

	rr = ts.do(t, "POST", "/admin/stats/rebuild", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, season.ID, decodeBody[stats.RebuildReport](t, rr).SeasonID)
}

func TestAsyncDryRunRebuildKeepsLines(t *testing.T) {
	ts, teardown := setupTestServer(t)
	defer teardown()
	_, _, player := ts.seedLeague(t)

	rr := ts.do(t, "POST", "/admin/stats/import?kind=skater", fmt.Sprintf("player_id,gp,g,a\n%s,10,7,3\n", player.ID))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = ts.do(t, "POST", "/admin/stats/rebuild?async=true&dry_run=true", nil)
	require.Equal(t, http.StatusAccepted, rr.Code)
	assert.True(t, decodeBody[pubsub.RecalculateStatsEvent](t, rr).DryRun)
	require.Len(t, ts.pubsub.Published, 1)
	event := ts.pubsub.Published[0].Event.(pubsub.RecalculateStatsEvent)
	assert.True(t, event.DryRun)

	rr = ts.do(t, "POST", "/pubsub/recalculate-stats", pushBody(t, event))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = ts.do(t, "GET", "/api/stats/skaters", nil)
	assert.Len(t, decodeBody[[]stats.SkaterRow](t, rr), 1, "a dry run rebuild must not replace lines")
}

func TestPushRequiresToken(t *testing.T) {
	ts, teardown := setupTestServer(t)
	defer teardown()
	season, _, player := ts.seedLeague(t)

	rr := ts.do(t, "POST", "/admin/stats/import?kind=skater", fmt.Sprintf("player_id,gp,g,a\n%s,10,7,3\n", player.ID))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	playerToken, err := ts.Auth.Issue("someone", "player", time.Hour)
	require.NoError(t, err)

	pushes := map[string]any{
		"/pubsub/recalculate-stats": pubsub.RecalculateStatsEvent{SeasonID: season.ID},
		"/pubsub/sync-roles":        pubsub.SyncRolesEvent{GuildID: "g1"},
	}
	for path, event := range pushes {
		for _, token := range []string{"", playerToken} {
			req := httptest.NewRequest("POST", path, strings.NewReader(pushBody(t, event)))
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			rr := httptest.NewRecorder()
			ts.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
		}
	}

	assert.Empty(t, ts.bot.syncCalls)
	rr = ts.do(t, "GET", "/api/stats/skaters", nil)
	assert.Len(t, decodeBody[[]stats.SkaterRow](t, rr), 1)
}

func pushBody(t *testing.T, event any) string {
	t.Helper()
	payload, err := msgpack.Marshal(event)
	require.NoError(t, err)
	envelope := map[string]any{
		"subscription": "projects/test/subscriptions/push",
		"message": map[string]string{
			"data":      base64.StdEncoding.EncodeToString(payload),
			"messageId": "1",
		},
	}
	data, err := json.Marshal(envelope)
	require.NoError(t, err)
	return string(data)
}

func TestRecalculateStatsPushHandler(t *testing.T) {
	ts, teardown := setupTestServer(t)
	defer teardown()

	rr := ts.do(t, "POST", "/pubsub/recalculate-stats", pushBody(t, pubsub.RecalculateStatsEvent{Reason: "sync"}))
	assert.Equal(t, http.StatusOK, rr.Code, "acknowledged without a current season")

	ts.seedLeague(t)
	rr = ts.do(t, "POST", "/pubsub/recalculate-stats", pushBody(t, pubsub.RecalculateStatsEvent{Reason: "sync"}))
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "OK", rr.Body.String())

	rr = ts.do(t, "POST", "/pubsub/recalculate-stats", pushBody(t, pubsub.RecalculateStatsEvent{SeasonID: "missing"}))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.do(t, "POST", "/pubsub/recalculate-stats", `{"message": {"data": "!!"}}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSyncRolesPushHandler(t *testing.T) {
	ts, teardown := setupTestServer(t)
	defer teardown()

	rr := ts.do(t, "POST", "/pubsub/sync-roles", pushBody(t, pubsub.SyncRolesEvent{GuildID: "g1", DryRun: true}))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []bool{true}, ts.bot.syncCalls)
}

func TestEAEndpoints(t *testing.T) {
	ts, teardown := setupTestServer(t)
	defer teardown()

	rr := ts.do(t, "POST", "/admin/ea/sync?dry_run=true", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []bool{true}, ts.syncer.SyncAllCalls)

	rr = ts.do(t, "POST", "/admin/ea/sync/team-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"team-1"}, ts.syncer.SyncClubCalls)

	rr = ts.do(t, "GET", "/admin/ea/search", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	ts.eaClient.SearchClubsFunc = func(name string) ([]ea.ClubInfo, error) {
		return nil, errors.New("ea is down")
	}
	rr = ts.do(t, "GET", "/admin/ea/search?name=hawks", nil)
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	rr = ts.do(t, "GET", "/admin/ea/matches", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.do(t, "GET", "/admin/ea/matches/none/players", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDiscordAdmin(t *testing.T) {
	ts, teardown := setupTestServer(t)
	defer teardown()
	_, team, player := ts.seedLeague(t)

	rr := ts.do(t, "GET", "/admin/discord/config", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.do(t, "PUT", "/admin/discord/config", map[string]any{"results_channel_id": "c1", "is_active": true})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "g1", decodeBody[discord.BotConfig](t, rr).GuildID, "guild defaults to the bot's guild")

	rr = ts.do(t, "PUT", "/admin/discord/team-roles/"+team.ID, map[string]any{"role_id": "r-hawks"})
	assert.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())
	rr = ts.do(t, "GET", "/admin/discord/team-roles", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeBody[[]discord.TeamRole](t, rr), 1)

	rr = ts.do(t, "PUT", "/admin/discord/management-roles/captain", map[string]any{"role_id": "r-capt"})
	assert.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = ts.do(t, "POST", "/admin/discord/users", map[string]any{"user_id": player.UserID, "discord_id": "d1", "discord_username": "sniper"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = ts.do(t, "GET", "/admin/discord/users", nil)
	assert.Len(t, decodeBody[[]discord.DiscordUser](t, rr), 1)

	rr = ts.do(t, "GET", "/admin/discord/status", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decodeBody[discord.Status](t, rr).Connected)

	rr = ts.do(t, "POST", "/admin/discord/sync-roles?dry_run=true", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decodeBody[discord.RoleSyncReport](t, rr).DryRun)

	rr = ts.do(t, "POST", "/admin/discord/sync-roles?async=true", nil)
	assert.Equal(t, http.StatusAccepted, rr.Code)
	require.Len(t, ts.pubsub.Published, 1)
	assert.Equal(t, pubsub.EventSyncRoles, ts.pubsub.Published[0].Topic)

	rr = ts.do(t, "DELETE", "/admin/discord/users/"+player.UserID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestOptionalIntegrationsUnavailable(t *testing.T) {
	ts, teardown := setupTestServer(t)
	defer teardown()
	ts.Bot = nil
	ts.Uploader = nil

	rr := ts.do(t, "POST", "/admin/discord/sync-roles", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = ts.do(t, "POST", "/admin/twitch/refresh", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = ts.do(t, "POST", "/admin/teams/any/logo", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = ts.do(t, "GET", "/admin/discord/status", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decodeBody[discord.Status](t, rr).Configured)
}

func logoRequest(t *testing.T, token, teamID string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("logo", "logo.bin")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/admin/teams/"+teamID+"/logo", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUploadLogoHandler(t *testing.T) {
	ts, teardown := setupTestServer(t)
	defer teardown()
	_, team, _ := ts.seedLeague(t)

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

	rr := httptest.NewRecorder()
	ts.ServeHTTP(rr, logoRequest(t, ts.token, team.ID, png))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	first := decodeBody[league.Team](t, rr)
	assert.True(t, strings.HasPrefix(first.LogoURL, "https://cdn.test/teams/"+team.ID+"/"))
	assert.True(t, strings.HasSuffix(first.LogoURL, ".png"))
	assert.Len(t, ts.uploader.Files, 1)

	rr = httptest.NewRecorder()
	ts.ServeHTTP(rr, logoRequest(t, ts.token, team.ID, png))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, ts.uploader.DeleteCalls, 1, "the replaced logo is removed")
	assert.Equal(t, storage.KeyFromURL("https://cdn.test", first.LogoURL), ts.uploader.DeleteCalls[0])
	assert.Len(t, ts.uploader.Files, 1)

	rr = httptest.NewRecorder()
	ts.ServeHTTP(rr, logoRequest(t, ts.token, team.ID, []byte("plain text, not an image")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMigrations(t *testing.T) {
	ts, teardown := setupTestServer(t)
	defer teardown()

	rr := ts.do(t, "GET", "/admin/migrations", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	before := decodeBody[migrationStatus](t, rr)
	assert.Positive(t, before.Version)

	rr = ts.do(t, "POST", "/admin/migrations", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, before, decodeBody[migrationStatus](t, rr), "nothing pending after startup")
}
