package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/pro-clubs-league/internal/league"
	"github.com/mauv0809/pro-clubs-league/internal/stats"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// seasonFor resolves ?season_id, defaulting to the current season. It returns
// nil when neither is set.
func (s *Server) seasonFor(r *http.Request) (*league.Season, error) {
	if id := r.URL.Query().Get("season_id"); id != "" {
		return s.League.GetSeason(r.Context(), id)
	}
	season, err := s.League.CurrentSeason(r.Context())
	if errors.Is(err, league.ErrNotFound) {
		return nil, nil
	}
	return season, err
}

func (s *Server) ListConferencesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conferences, err := s.League.ListConferences(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, conferences)
	}
}

func (s *Server) ListTeamsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teams, err := s.League.ListTeams(r.Context(), r.URL.Query().Get("conference_id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, teams)
	}
}

type teamProfile struct {
	Team         *league.Team       `json:"team"`
	Season       *league.Season     `json:"season,omitempty"`
	Roster       []league.Player    `json:"roster"`
	Record       *stats.Standing    `json:"record,omitempty"`
	Skaters      []stats.SkaterRow  `json:"skaters"`
	Goalies      []stats.GoalieRow  `json:"goalies"`
	SkaterTotals stats.SkaterTotals `json:"skater_totals"`
	GoalieTotals stats.GoalieTotals `json:"goalie_totals"`
	Matches      []league.Match     `json:"matches"`
}

func (s *Server) TeamProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		team, err := s.League.GetTeam(ctx, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		season, err := s.seasonFor(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		roster, err := s.League.ListPlayers(ctx, team.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}

		profile := teamProfile{
			Team:    team,
			Season:  season,
			Roster:  roster,
			Skaters: []stats.SkaterRow{},
			Goalies: []stats.GoalieRow{},
			Matches: []league.Match{},
		}
		if season != nil {
			skaters, err := s.Stats.ListSkaterSeason(ctx, season.ID, team.ID)
			if err != nil {
				writeError(w, r, err)
				return
			}
			goalies, err := s.Stats.ListGoalieSeason(ctx, season.ID, team.ID)
			if err != nil {
				writeError(w, r, err)
				return
			}
			profile.Skaters = skaterRows(skaters)
			profile.Goalies = goalieRows(goalies)
			profile.SkaterTotals = stats.SumSkaters(skaters)
			profile.GoalieTotals = stats.SumGoalies(goalies)

			profile.Matches, err = s.League.ListMatches(ctx, league.MatchFilter{SeasonID: season.ID, TeamID: team.ID})
			if err != nil {
				writeError(w, r, err)
				return
			}
			table, err := stats.LoadStandings(ctx, s.League, season.ID)
			if err != nil {
				writeError(w, r, err)
				return
			}
			for i := range table {
				if table[i].TeamID == team.ID {
					profile.Record = &table[i]
				}
			}
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

type playerProfile struct {
	Player        *league.Player     `json:"player"`
	Season        *league.Season     `json:"season,omitempty"`
	Skater        *stats.SkaterRow   `json:"skater,omitempty"`
	Goalie        *stats.GoalieRow   `json:"goalie,omitempty"`
	SkaterHistory []stats.SkaterRow  `json:"skater_history"`
	GoalieHistory []stats.GoalieRow  `json:"goalie_history"`
	SkaterCareer  stats.SkaterTotals `json:"skater_career"`
	GoalieCareer  stats.GoalieTotals `json:"goalie_career"`
}

func (s *Server) PlayerProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		player, err := s.League.GetPlayer(ctx, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		season, err := s.seasonFor(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		skaters, err := s.Stats.PlayerSkaterHistory(ctx, player.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		goalies, err := s.Stats.PlayerGoalieHistory(ctx, player.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}

		profile := playerProfile{
			Player:        player,
			Season:        season,
			SkaterHistory: skaterRows(skaters),
			GoalieHistory: goalieRows(goalies),
			SkaterCareer:  stats.SumSkaters(skaters),
			GoalieCareer:  stats.SumGoalies(goalies),
		}
		if season != nil {
			for _, l := range skaters {
				if l.SeasonID == season.ID {
					row := l.Row()
					profile.Skater = &row
				}
			}
			for _, l := range goalies {
				if l.SeasonID == season.ID {
					row := l.Row()
					profile.Goalie = &row
				}
			}
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func (s *Server) StandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, err := s.seasonFor(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		table := []stats.Standing{}
		if season != nil {
			table, err = stats.LoadStandings(r.Context(), s.League, season.ID)
			if err != nil {
				writeError(w, r, err)
				return
			}
		}
		if r.URL.Query().Get("group") == "conference" {
			writeJSON(w, http.StatusOK, stats.GroupByConference(table))
			return
		}
		writeJSON(w, http.StatusOK, table)
	}
}

func (s *Server) SkaterStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, err := s.seasonFor(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if season == nil {
			writeJSON(w, http.StatusOK, []stats.SkaterRow{})
			return
		}

		var lines []stats.SkaterLine
		if limit := queryInt(r, "limit", 0); limit > 0 {
			lines, err = s.Stats.SkaterLeaders(r.Context(), season.ID, limit)
		} else {
			lines, err = s.Stats.ListSkaterSeason(r.Context(), season.ID, r.URL.Query().Get("team_id"))
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, skaterRows(lines))
	}
}

func (s *Server) GoalieStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, err := s.seasonFor(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if season == nil {
			writeJSON(w, http.StatusOK, []stats.GoalieRow{})
			return
		}
		lines, err := s.Stats.ListGoalieSeason(r.Context(), season.ID, r.URL.Query().Get("team_id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, goalieRows(lines))
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := league.MatchFilter{
			SeasonID: q.Get("season_id"),
			TeamID:   q.Get("team_id"),
			Status:   league.MatchStatus(q.Get("status")),
			Limit:    queryInt(r, "limit", 0),
		}
		if filter.Status != "" && !filter.Status.Valid() {
			writeError(w, r, league.Validationf("unknown match status %q", filter.Status))
			return
		}
		matches, err := s.League.ListMatches(r.Context(), filter)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

type registrationRequest struct {
	GamerTag          string `json:"gamer_tag"`
	Email             string `json:"email"`
	SeasonID          string `json:"season_id"`
	PrimaryPosition   string `json:"primary_position"`
	SecondaryPosition string `json:"secondary_position"`
}

// RegisterHandler signs a gamer tag up for a season, creating the user on first contact.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req registrationRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		primary, ok := league.ParsePosition(req.PrimaryPosition)
		if !ok {
			writeError(w, r, league.Validationf("primary position %q is not valid", req.PrimaryPosition))
			return
		}
		var secondary league.Position
		if strings.TrimSpace(req.SecondaryPosition) != "" {
			if secondary, ok = league.ParsePosition(req.SecondaryPosition); !ok {
				writeError(w, r, league.Validationf("secondary position %q is not valid", req.SecondaryPosition))
				return
			}
		}

		seasonID := req.SeasonID
		if seasonID == "" {
			season, err := s.League.CurrentSeason(ctx)
			if errors.Is(err, league.ErrNotFound) {
				writeError(w, r, league.Validationf("no season is open for registration"))
				return
			}
			if err != nil {
				writeError(w, r, err)
				return
			}
			seasonID = season.ID
		}

		user, err := s.League.FindUserByGamerTag(ctx, req.GamerTag)
		if errors.Is(err, league.ErrNotFound) {
			user, err = s.League.CreateUser(ctx, req.GamerTag, req.Email, false)
		}
		if err != nil {
			writeError(w, r, err)
			return
		}

		reg, err := s.League.Register(ctx, user.ID, seasonID, primary, secondary)
		if err != nil {
			writeError(w, r, err)
			return
		}
		reg.GamerTag = user.GamerTag
		writeJSON(w, http.StatusCreated, reg)
	}
}

func skaterRows(lines []stats.SkaterLine) []stats.SkaterRow {
	rows := make([]stats.SkaterRow, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, l.Row())
	}
	return rows
}

func goalieRows(lines []stats.GoalieLine) []stats.GoalieRow {
	rows := make([]stats.GoalieRow, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, l.Row())
	}
	return rows
}
