package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/pro-clubs-league/internal/config"
	"github.com/mauv0809/pro-clubs-league/internal/database"
	"github.com/mauv0809/pro-clubs-league/internal/league"
	"github.com/mauv0809/pro-clubs-league/internal/stats"
)

var demoConferences = map[string][]string{
	"Eastern": {"Harbor Hawks", "Granite Wolves", "Tidewater Storm"},
	"Western": {"Canyon Coyotes", "Summit Bears", "Prairie Fire"},
}

var skaterPositions = []league.Position{
	league.PositionCenter, league.PositionLeftWing, league.PositionRightWing,
	league.PositionLeftDefense, league.PositionRightDefense,
}

func main() {
	rosterSize := flag.Int("roster", 6, "players per team, the first is the goalie")
	rounds := flag.Int("rounds", 2, "times each pair of teams meets")
	flag.Parse()

	log.Info("Starting database seeder...")
	cfg, err := config.Parse()
	if err != nil {
		log.Fatalf("Error: %s", err)
	}

	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	ctx := context.Background()
	lg := league.New(db)
	st := stats.New(db)
	startTime := time.Now()

	// Unique per run so the seeder can be pointed at a database more than once.
	runID := uuid.NewString()[:8]

	now := time.Now()
	season, err := lg.CreateSeason(ctx, "Demo Season "+runID, now.AddDate(0, -1, 0).Unix(), now.AddDate(0, 2, 0).Unix())
	if err != nil {
		log.Fatalf("Failed to create season: %s", err)
	}
	if err := lg.SetCurrentSeason(ctx, season.ID); err != nil {
		log.Fatalf("Failed to set current season: %s", err)
	}
	log.Info("Created season", "id", season.ID, "name", season.Name)

	var teams []league.Team
	for confName, teamNames := range demoConferences {
		conf, err := lg.CreateConference(ctx, confName+" "+runID, "Seeded conference")
		if err != nil {
			log.Fatalf("Failed to create conference %s: %s", confName, err)
		}
		for _, name := range teamNames {
			team, err := lg.CreateTeam(ctx, league.Team{
				Name:         name + " " + runID,
				Abbreviation: abbreviation(name),
				ConferenceID: conf.ID,
				IsActive:     true,
			})
			if err != nil {
				log.Fatalf("Failed to create team %s: %s", name, err)
			}
			teams = append(teams, *team)
			if err := seedRoster(ctx, lg, st, *team, season.ID, runID, *rosterSize); err != nil {
				log.Fatalf("Failed to seed roster for %s: %s", name, err)
			}
		}
	}
	log.Info("Ensured demo teams exist.", "teams", len(teams))

	matches, err := seedSchedule(ctx, lg, teams, *season, *rounds)
	if err != nil {
		log.Fatalf("Failed to seed schedule: %s", err)
	}

	log.Info("Successfully seeded demo league.", "matches", matches, "duration", time.Since(startTime))
}

func abbreviation(name string) string {
	abbr := make([]byte, 0, 3)
	for i := 0; i < len(name) && len(abbr) < 3; i++ {
		if c := name[i]; c >= 'A' && c <= 'Z' {
			abbr = append(abbr, c)
		}
	}
	return string(abbr)
}

func seedRoster(ctx context.Context, lg league.Store, st stats.Store, team league.Team, seasonID, runID string, size int) error {
	for i := 0; i < size; i++ {
		user, err := lg.CreateUser(ctx, fmt.Sprintf("%s_%d_%s", team.Abbreviation, i+1, runID), "", false)
		if err != nil {
			return err
		}
		role := league.RolePlayer
		if i == 1 {
			role = league.RoleCaptain
		}
		player, err := lg.CreatePlayer(ctx, user.ID, team.ID, role)
		if err != nil {
			return err
		}

		primary := league.PositionGoalie
		if i > 0 {
			primary = skaterPositions[(i-1)%len(skaterPositions)]
		}
		if _, err := lg.Register(ctx, user.ID, seasonID, primary, ""); err != nil {
			return err
		}

		gp := 8 + rand.Intn(5)
		if primary == league.PositionGoalie {
			shots := gp * (25 + rand.Intn(10))
			ga := gp * (2 + rand.Intn(2))
			wins := rand.Intn(gp + 1)
			err = st.UpsertGoalieSeason(ctx, stats.GoalieLine{
				PlayerID: player.ID,
				SeasonID: seasonID,
				TeamID:   team.ID,
				GoalieCounts: stats.GoalieCounts{
					GamesPlayed:  gp,
					Wins:         wins,
					Losses:       gp - wins,
					ShotsAgainst: shots,
					Saves:        shots - ga,
					GoalsAgainst: ga,
					TOISeconds:   gp * 3600,
				},
			})
		} else {
			err = st.UpsertSkaterSeason(ctx, stats.SkaterLine{
				PlayerID: player.ID,
				SeasonID: seasonID,
				TeamID:   team.ID,
				SkaterCounts: stats.SkaterCounts{
					GamesPlayed: gp,
					Goals:       rand.Intn(gp + 1),
					Assists:     rand.Intn(gp + 4),
					PlusMinus:   rand.Intn(11) - 5,
					Shots:       gp * (1 + rand.Intn(4)),
					Hits:        rand.Intn(gp * 3),
					TOISeconds:  gp * 1200,
				},
			})
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// seedSchedule creates a round robin; games dated in the past get a random final score.
func seedSchedule(ctx context.Context, lg league.Store, teams []league.Team, season league.Season, rounds int) (int, error) {
	date := time.Unix(season.StartDate, 0).Add(24 * time.Hour)
	created := 0
	for round := 0; round < rounds; round++ {
		for i := range teams {
			for j := i + 1; j < len(teams); j++ {
				home, away := teams[i], teams[j]
				if round%2 == 1 {
					home, away = away, home
				}
				match, err := lg.CreateMatch(ctx, league.Match{
					SeasonID:   season.ID,
					HomeTeamID: home.ID,
					AwayTeamID: away.ID,
					MatchDate:  date.Unix(),
				})
				if err != nil {
					return created, err
				}
				created++

				if date.Before(time.Now()) {
					homeScore, awayScore := rand.Intn(6), rand.Intn(6)
					overtime := homeScore == awayScore
					if overtime {
						homeScore++
					}
					if err := lg.RecordResult(ctx, match.ID, homeScore, awayScore, overtime); err != nil {
						return created, err
					}
				}
				date = date.Add(6 * time.Hour)
			}
		}
	}
	return created, nil
}
