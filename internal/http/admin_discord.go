package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/pro-clubs-league/internal/discord"
	"github.com/mauv0809/pro-clubs-league/internal/league"
	"github.com/mauv0809/pro-clubs-league/internal/pubsub"
)

// guildID reads ?guild_id, falling back to the bot's guild.
func (s *Server) guildID(r *http.Request) string {
	if id := r.URL.Query().Get("guild_id"); id != "" {
		return id
	}
	if s.Bot != nil && s.Bot.GuildID() != "" {
		return s.Bot.GuildID()
	}
	return s.Cfg.Discord.GuildID
}

func (s *Server) GetBotConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := s.Discord.GetBotConfig(r.Context(), s.guildID(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}

func (s *Server) UpsertBotConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req discord.BotConfig
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if req.GuildID == "" {
			req.GuildID = s.guildID(r)
		}
		cfg, err := s.Discord.UpsertBotConfig(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}

func (s *Server) ListTeamRolesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roles, err := s.Discord.ListTeamRoles(r.Context(), s.guildID(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, roles)
	}
}

type roleRequest struct {
	RoleID string `json:"role_id"`
}

func (s *Server) SetTeamRoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roleRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.Discord.SetTeamRole(r.Context(), s.guildID(r), chi.URLParam(r, "teamID"), req.RoleID); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) DeleteTeamRoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Discord.DeleteTeamRole(r.Context(), s.guildID(r), chi.URLParam(r, "teamID")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ListManagementRolesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roles, err := s.Discord.ListManagementRoles(r.Context(), s.guildID(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, roles)
	}
}

func (s *Server) SetManagementRoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roleRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		role := league.PlayerRole(chi.URLParam(r, "role"))
		if err := s.Discord.SetManagementRole(r.Context(), s.guildID(r), role, req.RoleID); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) DeleteManagementRoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := league.PlayerRole(chi.URLParam(r, "role"))
		if err := s.Discord.DeleteManagementRole(r.Context(), s.guildID(r), role); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ListDiscordUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := s.Discord.ListDiscordUsers(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	}
}

func (s *Server) LinkDiscordUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID          string `json:"user_id"`
			DiscordID       string `json:"discord_id"`
			DiscordUsername string `json:"discord_username"`
		}
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		user, err := s.Discord.LinkDiscordUser(r.Context(), req.UserID, req.DiscordID, req.DiscordUsername)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) UnlinkDiscordUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Discord.UnlinkDiscordUser(r.Context(), chi.URLParam(r, "userID")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) DiscordStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Bot == nil {
			writeJSON(w, http.StatusOK, discord.Status{})
			return
		}
		status, err := s.Bot.Status(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, status)
	}
}

// SyncRolesHandler reconciles member roles now, or publishes the request with async=true.
func (s *Server) SyncRolesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Bot == nil {
			unavailable(w, "discord bot")
			return
		}
		guildID := s.guildID(r)
		dryRun := isDryRunFromContext(r)

		if r.URL.Query().Get("async") == "true" {
			event := pubsub.SyncRolesEvent{GuildID: guildID, DryRun: dryRun}
			if err := s.PubSub.Publish(r.Context(), pubsub.EventSyncRoles, event); err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusAccepted, event)
			return
		}

		report, err := s.Bot.SyncRoles(r.Context(), guildID, dryRun)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func (s *Server) ListTwitchUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := s.Discord.ListTwitchUsers(r.Context(), r.URL.Query().Get("live") == "true")
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	}
}

func (s *Server) LinkTwitchUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID      string `json:"user_id"`
			TwitchLogin string `json:"twitch_login"`
		}
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		user, err := s.Discord.LinkTwitchUser(r.Context(), req.UserID, req.TwitchLogin)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) UnlinkTwitchUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Discord.UnlinkTwitchUser(r.Context(), chi.URLParam(r, "userID")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) RefreshTwitchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Twitch == nil {
			unavailable(w, "twitch")
			return
		}
		report, err := s.Twitch.Refresh(r.Context())
		if err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}
