package http

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pro-clubs-league/internal/database"
)

type migrationStatus struct {
	Version int64 `json:"version"`
}

func (s *Server) MigrationStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version, err := database.MigrationStatus(s.DB)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, migrationStatus{Version: version})
	}
}

// RunMigrationsHandler applies pending migrations on demand.
func (s *Server) RunMigrationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if isDryRunFromContext(r) {
			version, err := database.MigrationStatus(s.DB)
			if err != nil {
				writeError(w, r, err)
				return
			}
			log.Info("[Dry Run] Would run pending migrations", "version", version)
			writeJSON(w, http.StatusOK, migrationStatus{Version: version})
			return
		}
		version, err := database.Migrate(s.DB)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, migrationStatus{Version: version})
	}
}

func (s *Server) CountersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := s.Counters.GetAll(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, counters)
	}
}
