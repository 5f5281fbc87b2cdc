package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/pro-clubs-league/internal/league"
	"github.com/mauv0809/pro-clubs-league/internal/pubsub"
	"github.com/mauv0809/pro-clubs-league/internal/stats"
)

const maxCSVBody = 10 << 20

func (s *Server) UpsertSkaterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var line stats.SkaterLine
		if err := readJSON(w, r, &line); err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.Stats.UpsertSkaterSeason(r.Context(), line); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, line.Row())
	}
}

func (s *Server) UpsertGoalieHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var line stats.GoalieLine
		if err := readJSON(w, r, &line); err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.Stats.UpsertGoalieSeason(r.Context(), line); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, line.Row())
	}
}

func (s *Server) DeleteSkaterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := s.Stats.DeleteSkaterSeason(r.Context(), chi.URLParam(r, "playerID"), chi.URLParam(r, "seasonID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) DeleteGoalieHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := s.Stats.DeleteGoalieSeason(r.Context(), chi.URLParam(r, "playerID"), chi.URLParam(r, "seasonID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ImportCSVHandler accepts the CSV either as a multipart "file" field or as the raw body.
// Query: season_id (defaults to the current season), kind (skater|goalie), replace.
func (s *Server) ImportCSVHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, err := s.seasonFor(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if season == nil {
			writeError(w, r, league.Validationf("season_id is required when no season is current"))
			return
		}
		kind := stats.Kind(r.URL.Query().Get("kind"))
		if kind == "" {
			kind = stats.KindSkater
		}
		replace := r.URL.Query().Get("replace") == "true"

		r.Body = http.MaxBytesReader(w, r.Body, maxCSVBody)
		var body io.Reader = r.Body
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			file, _, err := r.FormFile("file")
			if err != nil {
				writeError(w, r, league.Validationf("missing file field: %v", err))
				return
			}
			defer file.Close()
			body = file
		}

		log.Info("Importing CSV stats", "seasonID", season.ID, "kind", kind, "replace", replace)
		report, err := s.Importer.Import(r.Context(), season.ID, kind, body, replace)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// RebuildStatsHandler rebuilds a season from stored EA rows. With async=true the
// rebuild is published as an event instead.
func (s *Server) RebuildStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, err := s.seasonFor(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if season == nil {
			writeError(w, r, league.Validationf("season_id is required when no season is current"))
			return
		}

		if r.URL.Query().Get("async") == "true" {
			event := pubsub.RecalculateStatsEvent{SeasonID: season.ID, Reason: pubsub.ReasonAdmin, DryRun: isDryRunFromContext(r)}
			if err := s.PubSub.Publish(r.Context(), pubsub.EventRecalculateStats, event); err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusAccepted, event)
			return
		}

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would rebuild season stats", "seasonID", season.ID)
			writeJSON(w, http.StatusOK, stats.RebuildReport{SeasonID: season.ID})
			return
		}
		report, err := s.Stats.RebuildFromEA(r.Context(), season.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}
