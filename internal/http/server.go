package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mauv0809/pro-clubs-league/internal/auth"
)

func NewServer(deps Deps) *Server {
	server := &Server{
		Deps:   deps,
		Router: chi.NewRouter(),
	}
	if server.Push == nil {
		server.Push = auth.NewPushVerifier(deps.Auth, "", "")
	}
	server.routes()
	return server
}

func (s *Server) routes() {
	r := s.Router
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.Cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(paramsMiddleware)

	if s.MetricsHandler != nil {
		r.Handle("/metrics", s.MetricsHandler)
	}
	r.Get("/health", s.HealthCheckHandler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/conferences", s.ListConferencesHandler())
		r.Get("/teams", s.ListTeamsHandler())
		r.Get("/teams/{id}", s.TeamProfileHandler())
		r.Get("/players/{id}", s.PlayerProfileHandler())
		r.Get("/standings", s.StandingsHandler())
		r.Get("/stats/skaters", s.SkaterStatsHandler())
		r.Get("/stats/goalies", s.GoalieStatsHandler())
		r.Get("/matches", s.ListMatchesHandler())
		r.Post("/registrations", s.RegisterHandler())
	})

	r.Route("/pubsub", func(r chi.Router) {
		r.Use(s.Push.RequirePush)
		r.Post("/recalculate-stats", s.RecalculateStatsPushHandler())
		r.Post("/sync-roles", s.SyncRolesPushHandler())
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.Auth.RequireAdmin)
		r.Use(verboseMiddleware)

		r.Post("/teams", s.CreateTeamHandler())
		r.Put("/teams/{id}", s.UpdateTeamHandler())
		r.Delete("/teams/{id}", s.DeleteTeamHandler())
		r.Post("/teams/{id}/logo", s.UploadLogoHandler())
		r.Put("/teams/{id}/conference", s.AssignConferenceHandler())

		r.Post("/conferences", s.CreateConferenceHandler())
		r.Delete("/conferences/{id}", s.DeleteConferenceHandler())

		r.Post("/users", s.CreateUserHandler())
		r.Get("/users/{id}", s.GetUserHandler())
		r.Get("/players", s.ListPlayersHandler())
		r.Post("/players", s.CreatePlayerHandler())
		r.Put("/players/{id}/team", s.AssignPlayerHandler())

		r.Get("/seasons", s.ListSeasonsHandler())
		r.Post("/seasons", s.CreateSeasonHandler())
		r.Get("/seasons/current", s.CurrentSeasonHandler())
		r.Put("/seasons/current", s.SetCurrentSeasonHandler())

		r.Get("/registrations", s.ListRegistrationsHandler())
		r.Put("/registrations/{id}", s.ReviewRegistrationHandler())

		r.Post("/matches", s.CreateMatchHandler())
		r.Put("/matches/{id}/result", s.RecordResultHandler())

		r.Put("/stats/skaters", s.UpsertSkaterHandler())
		r.Put("/stats/goalies", s.UpsertGoalieHandler())
		r.Delete("/stats/skaters/{seasonID}/{playerID}", s.DeleteSkaterHandler())
		r.Delete("/stats/goalies/{seasonID}/{playerID}", s.DeleteGoalieHandler())
		r.Post("/stats/import", s.ImportCSVHandler())
		r.Post("/stats/rebuild", s.RebuildStatsHandler())

		r.Post("/ea/sync", s.SyncAllHandler())
		r.Post("/ea/sync/{teamID}", s.SyncClubHandler())
		r.Get("/ea/search", s.SearchClubsHandler())
		r.Get("/ea/matches", s.ListEAMatchesHandler())
		r.Get("/ea/matches/{id}/players", s.EAMatchPlayersHandler())

		r.Get("/discord/config", s.GetBotConfigHandler())
		r.Put("/discord/config", s.UpsertBotConfigHandler())
		r.Get("/discord/team-roles", s.ListTeamRolesHandler())
		r.Put("/discord/team-roles/{teamID}", s.SetTeamRoleHandler())
		r.Delete("/discord/team-roles/{teamID}", s.DeleteTeamRoleHandler())
		r.Get("/discord/management-roles", s.ListManagementRolesHandler())
		r.Put("/discord/management-roles/{role}", s.SetManagementRoleHandler())
		r.Delete("/discord/management-roles/{role}", s.DeleteManagementRoleHandler())
		r.Get("/discord/users", s.ListDiscordUsersHandler())
		r.Post("/discord/users", s.LinkDiscordUserHandler())
		r.Delete("/discord/users/{userID}", s.UnlinkDiscordUserHandler())
		r.Get("/discord/status", s.DiscordStatusHandler())
		r.Post("/discord/sync-roles", s.SyncRolesHandler())

		r.Get("/twitch/users", s.ListTwitchUsersHandler())
		r.Post("/twitch/users", s.LinkTwitchUserHandler())
		r.Delete("/twitch/users/{userID}", s.UnlinkTwitchUserHandler())
		r.Post("/twitch/refresh", s.RefreshTwitchHandler())

		r.Get("/migrations", s.MigrationStatusHandler())
		r.Post("/migrations", s.RunMigrationsHandler())
		r.Get("/counters", s.CountersHandler())
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
