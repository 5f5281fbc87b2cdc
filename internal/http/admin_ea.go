package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/pro-clubs-league/internal/league"
)

func (s *Server) SyncAllHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := s.Syncer.SyncAll(r.Context(), isDryRunFromContext(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func (s *Server) SyncClubHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := s.Syncer.SyncClub(r.Context(), chi.URLParam(r, "teamID"), isDryRunFromContext(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func (s *Server) SearchClubsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.URL.Query().Get("name"))
		if name == "" {
			writeError(w, r, league.Validationf("name is required"))
			return
		}
		clubs, err := s.EAClient.SearchClubs(r.Context(), name)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, clubs)
	}
}

func (s *Server) ListEAMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.EAMatches.ListMatches(r.Context(), queryInt(r, "limit", 0))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) EAMatchPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, err := s.EAMatches.GetMatch(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		lines, err := s.EAMatches.ListPlayerLines(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, lines)
	}
}
