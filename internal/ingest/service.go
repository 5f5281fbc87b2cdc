package ingest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pro-clubs-league/internal/ea"
	"github.com/mauv0809/pro-clubs-league/internal/league"
	"github.com/mauv0809/pro-clubs-league/internal/metrics"
	"github.com/mauv0809/pro-clubs-league/internal/notifier"
	"github.com/mauv0809/pro-clubs-league/internal/pubsub"
	"golang.org/x/sync/errgroup"
)

const maxStars = 3

var _ Syncer = (*Service)(nil)

// New creates a new ingestion Service. concurrency bounds parallel club fetches in SyncAll.
func New(store Store, leagueStore LeagueStore, client ea.EAClient, notifier notifier.Notifier,
	metrics metrics.Metrics, counters metrics.MetricsStore, pubsub pubsub.Publisher, concurrency int) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		store:       store,
		league:      leagueStore,
		client:      client,
		notifier:    notifier,
		metrics:     metrics,
		counters:    counters,
		pubsub:      pubsub,
		concurrency: concurrency,
	}
}

// SyncClub ingests the EA matches of one team and requests a stats rebuild.
func (s *Service) SyncClub(ctx context.Context, teamID string, dryRun bool) (*SyncReport, error) {
	team, err := s.league.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.EAClubID == "" {
		return nil, league.Validationf("team %s has no EA club id", team.Name)
	}

	return s.run(ctx, []league.Team{*team}, dryRun)
}

// SyncAll ingests matches for every active team linked to an EA club.
// A failing club is recorded in the report and does not stop the others.
func (s *Service) SyncAll(ctx context.Context, dryRun bool) (*SyncReport, error) {
	teams, err := s.league.ListTeams(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	var linked []league.Team
	for _, t := range teams {
		if t.IsActive && t.EAClubID != "" {
			linked = append(linked, t)
		}
	}
	return s.run(ctx, linked, dryRun)
}

func (s *Service) run(ctx context.Context, teams []league.Team, dryRun bool) (*SyncReport, error) {
	started := time.Now()
	s.metrics.IncSyncRuns()
	s.counters.Add(ctx, metrics.CounterSyncRuns, 1)
	log.Info("Starting EA sync", "clubs", len(teams), "dryRun", dryRun)

	season, err := s.league.CurrentSeason(ctx)
	if err != nil {
		if !errors.Is(err, league.ErrNotFound) {
			return nil, fmt.Errorf("failed to load current season: %w", err)
		}
		log.Warn("No current season set, EA matches will be stored without linking")
	}

	report := &SyncReport{DryRun: dryRun, Clubs: []ClubReport{}, Failures: []string{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, team := range teams {
		g.Go(func() error {
			club := s.syncTeam(gctx, team, season, dryRun)
			mu.Lock()
			report.add(club)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(report.Clubs, func(i, j int) bool {
		return strings.ToLower(report.Clubs[i].TeamName) < strings.ToLower(report.Clubs[j].TeamName)
	})
	sort.Strings(report.Failures)

	duration := time.Since(started)
	report.DurationMs = duration.Milliseconds()
	s.metrics.ObserveSyncDuration(duration.Seconds())

	if !dryRun && report.MatchesStored > 0 {
		s.metrics.AddMatchesIngested(report.MatchesStored)
		s.counters.Add(ctx, metrics.CounterMatchesIngested, report.MatchesStored)
		if season != nil {
			event := pubsub.RecalculateStatsEvent{SeasonID: season.ID, Reason: pubsub.ReasonEASync}
			if err := s.pubsub.Publish(ctx, pubsub.EventRecalculateStats, event); err != nil {
				log.Error("Failed to request stats recalculation", "error", err, "seasonID", season.ID)
			}
		}
	}

	if err := s.notifier.SendSyncSummary(ctx, report.Summary(), dryRun); err != nil {
		log.Error("Failed to send sync summary", "error", err)
	}

	log.Info("EA sync finished", "clubs", len(report.Clubs), "fetched", report.MatchesFetched,
		"stored", report.MatchesStored, "linked", report.ResultsLinked, "failures", len(report.Failures),
		"durationMs", report.DurationMs)
	return report, nil
}

// syncTeam never returns an error; failures land in the club report.
func (s *Service) syncTeam(ctx context.Context, team league.Team, season *league.Season, dryRun bool) ClubReport {
	club := ClubReport{TeamID: team.ID, TeamName: team.Name, EAClubID: team.EAClubID}

	raws, err := s.client.GetClubMatches(ctx, team.EAClubID)
	if err != nil {
		log.Error("Failed to fetch EA matches", "error", err, "teamID", team.ID, "clubID", team.EAClubID)
		club.Error = err.Error()
		return club
	}
	club.Fetched = len(raws)

	tags := map[string]string{}
	for _, raw := range raws {
		rec, err := ea.Normalize(raw)
		if err != nil {
			log.Warn("Skipping malformed EA match", "error", err, "clubID", team.EAClubID)
			club.Skipped++
			continue
		}
		if err := s.ingestMatch(ctx, rec, raw.Raw, season, tags, dryRun, &club); err != nil {
			log.Error("Failed to ingest EA match", "error", err, "eaMatchID", rec.EAMatchID)
			club.Skipped++
			if club.Error == "" {
				club.Error = err.Error()
			}
		}
	}
	log.Info("Synced club", "team", team.Name, "fetched", club.Fetched, "stored", club.Stored,
		"new", club.New, "linked", club.Linked, "skipped", club.Skipped)
	return club
}

func (s *Service) ingestMatch(ctx context.Context, rec ea.MatchRecord, raw []byte, season *league.Season,
	tags map[string]string, dryRun bool, club *ClubReport) error {
	playerIDs := s.resolvePlayers(ctx, rec.Players, tags)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	existing, err := s.store.GetMatch(ctx, rec.EAMatchID)
	if err != nil && !errors.Is(err, league.ErrNotFound) {
		return err
	}
	if existing == nil {
		club.New++
	}

	if dryRun {
		log.Info("[Dry Run] Would store EA match", "eaMatchID", rec.EAMatchID, "home", rec.Home.ClubName,
			"away", rec.Away.ClubName, "score", fmt.Sprintf("%d-%d", rec.Home.Goals, rec.Away.Goals))
		return nil
	}

	if err := s.store.SaveMatch(ctx, rec, raw, playerIDs); err != nil {
		return err
	}
	club.Stored++

	if season == nil || (existing != nil && existing.LinkedMatchID != "") {
		return nil
	}
	if !season.Contains(rec.PlayedAt) {
		log.Debug("EA match outside current season", "eaMatchID", rec.EAMatchID, "playedAt", rec.PlayedAt)
		return nil
	}
	linked, err := s.linkResult(ctx, rec, season)
	if err != nil {
		return err
	}
	if linked {
		club.Linked++
	}
	return nil
}

// resolvePlayers maps EA player ids to league players by gamer tag. tags caches
// lookups by lowercase name for the duration of one club sync.
func (s *Service) resolvePlayers(ctx context.Context, lines []ea.PlayerLine, tags map[string]string) map[string]string {
	ids := map[string]string{}
	for _, p := range lines {
		key := strings.ToLower(p.Name)
		playerID, cached := tags[key]
		if !cached {
			playerID = s.lookupPlayer(ctx, p.Name)
			tags[key] = playerID
		}
		if playerID != "" {
			ids[p.EAPlayerID] = playerID
		}
	}
	return ids
}

func (s *Service) lookupPlayer(ctx context.Context, gamerTag string) string {
	user, err := s.league.FindUserByGamerTag(ctx, gamerTag)
	if err != nil {
		if !errors.Is(err, league.ErrNotFound) {
			log.Error("Failed to look up gamer tag", "error", err, "gamerTag", gamerTag)
		}
		return ""
	}
	player, err := s.league.GetPlayerByUserID(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, league.ErrNotFound) {
			log.Error("Failed to look up player", "error", err, "userID", user.ID)
		}
		return ""
	}
	return player.ID
}

// linkResult records the EA score on the scheduled league match between the two clubs.
func (s *Service) linkResult(ctx context.Context, rec ea.MatchRecord, season *league.Season) (bool, error) {
	home, err := s.league.GetTeamByEAClubID(ctx, rec.Home.ClubID)
	if err != nil {
		return false, ignoreNotFound(err)
	}
	away, err := s.league.GetTeamByEAClubID(ctx, rec.Away.ClubID)
	if err != nil {
		return false, ignoreNotFound(err)
	}

	match, err := s.league.FindScheduledMatch(ctx, season.ID, home.ID, away.ID)
	if err != nil {
		return false, ignoreNotFound(err)
	}

	homeScore, awayScore, ok := decidedScore(rec)
	if !ok {
		log.Warn("EA match has a tied score and no winner, leaving league match unplayed",
			"eaMatchID", rec.EAMatchID, "matchID", match.ID)
		return false, nil
	}
	if match.HomeTeamID != home.ID {
		homeScore, awayScore = awayScore, homeScore
	}
	overtime := rec.Overtime

	if err := s.league.RecordResult(ctx, match.ID, homeScore, awayScore, overtime); err != nil {
		return false, err
	}
	if err := s.league.LinkEAMatch(ctx, match.ID, rec.EAMatchID); err != nil {
		return false, err
	}
	if err := s.store.LinkMatch(ctx, rec.EAMatchID, match.ID); err != nil {
		return false, err
	}
	log.Info("Linked EA match to league match", "eaMatchID", rec.EAMatchID, "matchID", match.ID,
		"home", match.HomeTeamName, "away", match.AwayTeamName, "score", fmt.Sprintf("%d-%d", homeScore, awayScore))

	result := notifier.MatchResult{
		MatchID:    match.ID,
		EAMatchID:  rec.EAMatchID,
		SeasonName: season.Name,
		HomeTeam:   match.HomeTeamName,
		AwayTeam:   match.AwayTeamName,
		HomeScore:  homeScore,
		AwayScore:  awayScore,
		Overtime:   overtime,
		PlayedAt:   rec.PlayedAt,
		Stars:      Stars(rec.Players, maxStars),
	}
	if err := s.notifier.SendMatchResult(ctx, result, false); err != nil {
		log.Error("Failed to send match result", "error", err, "matchID", match.ID)
	}
	return true, nil
}

// decidedScore returns the EA score in EA orientation. A tied score is split
// by the result codes: the winning club is credited with the deciding goal,
// as in a shootout. ok is false when neither club has a win.
func decidedScore(rec ea.MatchRecord) (home, away int, ok bool) {
	home, away = rec.Home.Goals, rec.Away.Goals
	if home != away {
		return home, away, true
	}
	homeWon := rec.Home.Result == ea.ResultWin
	awayWon := rec.Away.Result == ea.ResultWin
	switch {
	case homeWon && !awayWon:
		home++
	case awayWon && !homeWon:
		away++
	default:
		return home, away, false
	}
	return home, away, true
}

func ignoreNotFound(err error) error {
	if errors.Is(err, league.ErrNotFound) {
		return nil
	}
	return err
}

// Stars picks the top skaters by points, then goals, then name.
func Stars(lines []ea.PlayerLine, n int) []string {
	skaters := make([]ea.PlayerLine, 0, len(lines))
	for _, p := range lines {
		if !p.IsGoalie() && p.Goals+p.Assists > 0 {
			skaters = append(skaters, p)
		}
	}
	sort.SliceStable(skaters, func(i, j int) bool {
		a, b := skaters[i], skaters[j]
		if pa, pb := a.Goals+a.Assists, b.Goals+b.Assists; pa != pb {
			return pa > pb
		}
		if a.Goals != b.Goals {
			return a.Goals > b.Goals
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	if len(skaters) > n {
		skaters = skaters[:n]
	}
	stars := make([]string, 0, len(skaters))
	for _, p := range skaters {
		stars = append(stars, fmt.Sprintf("%s %dG %dA", p.Name, p.Goals, p.Assists))
	}
	return stars
}
