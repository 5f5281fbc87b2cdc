package stats

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mauv0809/pro-clubs-league/internal/league"
)

// Points awarded per result.
const (
	PointsWin          = 2
	PointsOvertimeLoss = 1
)

// ComputeStandings builds the league table from completed matches.
// Matches involving unknown teams are ignored. Ties are broken by wins,
// goal difference, goals for and finally team name.
func ComputeStandings(teams []league.Team, matches []league.Match) []Standing {
	table := make(map[string]*Standing, len(teams))
	for _, t := range teams {
		table[t.ID] = &Standing{TeamID: t.ID, TeamName: t.Name, ConferenceID: t.ConferenceID}
	}

	for _, m := range matches {
		if m.Status != league.MatchCompleted {
			continue
		}
		home, okHome := table[m.HomeTeamID]
		away, okAway := table[m.AwayTeamID]
		if !okHome || !okAway {
			continue
		}
		home.record(m.HomeScore, m.AwayScore, m.Overtime)
		away.record(m.AwayScore, m.HomeScore, m.Overtime)
	}

	standings := make([]Standing, 0, len(table))
	for _, s := range table {
		s.GoalDiff = s.GoalsFor - s.GoalsAgainst
		s.Points = PointsWin*s.Wins + PointsOvertimeLoss*s.OvertimeLosses
		s.WinPct = round(ratio(float64(s.Wins), float64(s.GamesPlayed)), 3)
		standings = append(standings, *s)
	}
	sort.Slice(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.GoalDiff != b.GoalDiff {
			return a.GoalDiff > b.GoalDiff
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return strings.ToLower(a.TeamName) < strings.ToLower(b.TeamName)
	})
	return standings
}

func (s *Standing) record(gf, ga int, overtime bool) {
	s.GamesPlayed++
	s.GoalsFor += gf
	s.GoalsAgainst += ga
	switch {
	case gf > ga:
		s.Wins++
	case overtime:
		s.OvertimeLosses++
	default:
		s.Losses++
	}
}

// GroupByConference splits ordered standings into per-conference tables,
// keeping the order in which conferences first appear.
func GroupByConference(standings []Standing) []ConferenceTable {
	index := map[string]int{}
	var tables []ConferenceTable
	for _, s := range standings {
		i, ok := index[s.ConferenceID]
		if !ok {
			i = len(tables)
			index[s.ConferenceID] = i
			tables = append(tables, ConferenceTable{ConferenceID: s.ConferenceID})
		}
		tables[i].Teams = append(tables[i].Teams, s)
	}
	return tables
}

// LeagueReader is the part of the league store standings are loaded from.
type LeagueReader interface {
	ListTeams(ctx context.Context, conferenceID string) ([]league.Team, error)
	ListMatches(ctx context.Context, filter league.MatchFilter) ([]league.Match, error)
}

// LoadStandings computes the table for one season from stored teams and matches.
func LoadStandings(ctx context.Context, lg LeagueReader, seasonID string) ([]Standing, error) {
	teams, err := lg.ListTeams(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	matches, err := lg.ListMatches(ctx, league.MatchFilter{SeasonID: seasonID, Status: league.MatchCompleted})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return ComputeStandings(teams, matches), nil
}
