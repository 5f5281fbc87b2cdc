package http

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pro-clubs-league/internal/league"
	"github.com/mauv0809/pro-clubs-league/internal/pubsub"
)

// RecalculateStatsPushHandler rebuilds the season named by a push delivery.
func (s *Server) RecalculateStatsPushHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := readPushMessage(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		var event pubsub.RecalculateStatsEvent
		if err := s.PubSub.Decode(data, &event); err != nil {
			log.Error("Failed to decode recalculate event", "error", err)
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		if event.SeasonID == "" {
			season, err := s.League.CurrentSeason(r.Context())
			if errors.Is(err, league.ErrNotFound) {
				log.Warn("No current season, dropping recalculate event", "reason", event.Reason)
				w.Write([]byte("OK"))
				return
			}
			if err != nil {
				writeError(w, r, err)
				return
			}
			event.SeasonID = season.ID
		}
		if event.DryRun || isDryRunFromContext(r) {
			log.Info("[Dry Run] Would rebuild season stats", "seasonID", event.SeasonID, "reason", event.Reason)
			w.Write([]byte("OK"))
			return
		}
		if _, err := s.Stats.RebuildFromEA(r.Context(), event.SeasonID); err != nil {
			writeError(w, r, err)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) SyncRolesPushHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Bot == nil {
			// Acknowledge so the subscription does not redeliver forever.
			log.Warn("Discord bot not configured, dropping role sync event")
			w.Write([]byte("OK"))
			return
		}
		data, err := readPushMessage(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		var event pubsub.SyncRolesEvent
		if err := s.PubSub.Decode(data, &event); err != nil {
			log.Error("Failed to decode role sync event", "error", err)
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		if _, err := s.Bot.SyncRoles(r.Context(), event.GuildID, event.DryRun || isDryRunFromContext(r)); err != nil {
			writeError(w, r, err)
			return
		}
		w.Write([]byte("OK"))
	}
}
