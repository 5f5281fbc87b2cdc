package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/pro-clubs-league/internal/league"
)

type teamRequest struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	ConferenceID string `json:"conference_id"`
	EAClubID     string `json:"ea_club_id"`
	IsActive     *bool  `json:"is_active"`
}

func (s *Server) CreateTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req teamRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		team, err := s.League.CreateTeam(r.Context(), league.Team{
			Name:         req.Name,
			Abbreviation: req.Abbreviation,
			ConferenceID: req.ConferenceID,
			EAClubID:     req.EAClubID,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, team)
	}
}

func (s *Server) UpdateTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req teamRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		team, err := s.League.GetTeam(ctx, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		team.Name = req.Name
		team.Abbreviation = req.Abbreviation
		team.ConferenceID = req.ConferenceID
		team.EAClubID = req.EAClubID
		if req.IsActive != nil {
			team.IsActive = *req.IsActive
		}
		if err := s.League.UpdateTeam(ctx, *team); err != nil {
			writeError(w, r, err)
			return
		}
		updated, err := s.League.GetTeam(ctx, team.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func (s *Server) DeleteTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.League.DeleteTeam(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) AssignConferenceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ConferenceID string `json:"conference_id"`
		}
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.League.AssignConference(r.Context(), chi.URLParam(r, "id"), req.ConferenceID); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) CreateConferenceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		conference, err := s.League.CreateConference(r.Context(), req.Name, req.Description)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, conference)
	}
}

func (s *Server) DeleteConferenceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.League.DeleteConference(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) CreateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			GamerTag string `json:"gamer_tag"`
			Email    string `json:"email"`
			IsAdmin  bool   `json:"is_admin"`
		}
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		user, err := s.League.CreateUser(r.Context(), req.GamerTag, req.Email, req.IsAdmin)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, user)
	}
}

func (s *Server) GetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.League.GetUser(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.League.ListPlayers(r.Context(), r.URL.Query().Get("team_id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

type playerRequest struct {
	UserID string            `json:"user_id"`
	TeamID string            `json:"team_id"`
	Role   league.PlayerRole `json:"role"`
}

func (s *Server) CreatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playerRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		player, err := s.League.CreatePlayer(r.Context(), req.UserID, req.TeamID, req.Role)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, player)
	}
}

// AssignPlayerHandler moves a player to a team. An empty team_id makes them a free agent.
func (s *Server) AssignPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req playerRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		id := chi.URLParam(r, "id")
		if err := s.League.AssignPlayerToTeam(ctx, id, req.TeamID, req.Role); err != nil {
			writeError(w, r, err)
			return
		}
		player, err := s.League.GetPlayer(ctx, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

func (s *Server) ListSeasonsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seasons, err := s.League.ListSeasons(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, seasons)
	}
}

func (s *Server) CreateSeasonHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name      string `json:"name"`
			StartDate int64  `json:"start_date"`
			EndDate   int64  `json:"end_date"`
			Current   bool   `json:"current"`
		}
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		season, err := s.League.CreateSeason(r.Context(), req.Name, req.StartDate, req.EndDate)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if req.Current {
			if err := s.League.SetCurrentSeason(r.Context(), season.ID); err != nil {
				writeError(w, r, err)
				return
			}
		}
		writeJSON(w, http.StatusCreated, season)
	}
}

func (s *Server) CurrentSeasonHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, err := s.League.CurrentSeason(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, season)
	}
}

func (s *Server) SetCurrentSeasonHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SeasonID string `json:"season_id"`
		}
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.League.SetCurrentSeason(r.Context(), req.SeasonID); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ListRegistrationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := league.RegistrationStatus(r.URL.Query().Get("status"))
		if status != "" && !status.Valid() {
			writeError(w, r, league.Validationf("unknown registration status %q", status))
			return
		}
		season, err := s.seasonFor(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if season == nil {
			writeJSON(w, http.StatusOK, []league.Registration{})
			return
		}
		regs, err := s.League.ListRegistrations(r.Context(), season.ID, status)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, regs)
	}
}

func (s *Server) ReviewRegistrationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Status league.RegistrationStatus `json:"status"`
		}
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.League.UpdateRegistrationStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) CreateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SeasonID   string `json:"season_id"`
			HomeTeamID string `json:"home_team_id"`
			AwayTeamID string `json:"away_team_id"`
			MatchDate  int64  `json:"match_date"`
		}
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		match, err := s.League.CreateMatch(r.Context(), league.Match{
			SeasonID:   req.SeasonID,
			HomeTeamID: req.HomeTeamID,
			AwayTeamID: req.AwayTeamID,
			MatchDate:  req.MatchDate,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, match)
	}
}

func (s *Server) RecordResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			HomeScore int  `json:"home_score"`
			AwayScore int  `json:"away_score"`
			Overtime  bool `json:"overtime"`
		}
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		id := chi.URLParam(r, "id")
		if err := s.League.RecordResult(ctx, id, req.HomeScore, req.AwayScore, req.Overtime); err != nil {
			writeError(w, r, err)
			return
		}
		match, err := s.League.GetMatch(ctx, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}
