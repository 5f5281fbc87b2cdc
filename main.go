package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pro-clubs-league/internal/auth"
	"github.com/mauv0809/pro-clubs-league/internal/config"
	"github.com/mauv0809/pro-clubs-league/internal/csvimport"
	"github.com/mauv0809/pro-clubs-league/internal/database"
	"github.com/mauv0809/pro-clubs-league/internal/discord"
	"github.com/mauv0809/pro-clubs-league/internal/ea"
	server "github.com/mauv0809/pro-clubs-league/internal/http"
	"github.com/mauv0809/pro-clubs-league/internal/ingest"
	"github.com/mauv0809/pro-clubs-league/internal/league"
	"github.com/mauv0809/pro-clubs-league/internal/metrics"
	"github.com/mauv0809/pro-clubs-league/internal/notifier"
	"github.com/mauv0809/pro-clubs-league/internal/notifier/slack"
	"github.com/mauv0809/pro-clubs-league/internal/pubsub"
	"github.com/mauv0809/pro-clubs-league/internal/stats"
	"github.com/mauv0809/pro-clubs-league/internal/storage"
	"github.com/mauv0809/pro-clubs-league/internal/twitch"
)

func main() {
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warn("Unknown log level, keeping default", "level", cfg.LogLevel)
	}

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	ctx := context.Background()
	leagueStore := league.New(db)
	statsStore := stats.New(db)
	discordStore := discord.NewStore(db)
	counters := metrics.NewCounterStore(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	var eaClient ea.EAClient = ea.NewClient(cfg.EA.BaseURL, cfg.EA.Platform, cfg.EA.MatchType)
	eaClient = ea.NewRetryingClient(eaClient, cfg.EA.Retries, cfg.EA.Backoff)

	authenticator := auth.New(cfg.Auth.Secret, cfg.Auth.Issuer)
	deps := server.Deps{
		League:         leagueStore,
		Stats:          statsStore,
		EAMatches:      ingest.NewStore(db),
		EAClient:       eaClient,
		Discord:        discordStore,
		Metrics:        metricsSvc,
		Counters:       counters,
		MetricsHandler: metricsHandler,
		Auth:           authenticator,
		Push:           auth.NewPushVerifier(authenticator, cfg.Push.Audience, cfg.Push.ServiceAccount),
		DB:             db,
		Cfg:            cfg,
	}

	notifiers := notifier.Multi{}
	if cfg.Slack.Token != "" {
		notifiers = append(notifiers, slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc))
	}

	var bot *discord.Bot
	if cfg.Discord.Token != "" {
		bot, err = discord.New(cfg.Discord.Token, cfg.Discord.GuildID, discordStore, leagueStore, metricsSvc)
		if err != nil {
			log.Fatalf("Failed to create Discord bot: %s", err)
		}
		if err := bot.Start(); err != nil {
			log.Error("Failed to connect Discord bot, continuing without it", "error", err)
		}
		defer func() {
			if err := bot.Stop(); err != nil {
				log.Error("Failed to close Discord session", "error", err)
			}
		}()
		deps.Bot = bot
		notifiers = append(notifiers, discord.NewNotifier(bot, currentStandings(leagueStore)))
	} else {
		log.Info("DISCORD_BOT_TOKEN not set, Discord bot disabled")
	}

	if cfg.ProjectID != "" {
		client, teardown, err := pubsub.New(ctx, cfg.ProjectID)
		if err != nil {
			log.Fatalf("Failed to create Pub/Sub client: %s", err)
		}
		defer teardown()
		deps.PubSub = client
	} else {
		log.Info("GCP_PROJECT not set, delivering events in process")
		deps.PubSub = inlineEvents(leagueStore, statsStore, bot)
	}

	deps.Syncer = ingest.New(deps.EAMatches, leagueStore, eaClient, notifiers, metricsSvc, counters, deps.PubSub, cfg.EA.Concurrency)
	deps.Importer = csvimport.NewImporter(db, metricsSvc, counters, notifiers)

	if tc := twitch.NewClient(cfg.Twitch.ClientID, cfg.Twitch.AccessToken); tc.Configured() {
		deps.Twitch = twitch.NewRefresher(tc, discordStore)
	} else {
		log.Info("Twitch credentials not set, live status refresh disabled")
	}

	if cfg.Logo.Enabled() {
		uploader, err := storage.NewS3Uploader(ctx, storage.Config{
			AccountID:       cfg.Logo.AccountID,
			AccessKeyID:     cfg.Logo.AccessKeyID,
			SecretAccessKey: cfg.Logo.SecretAccessKey,
			Bucket:          cfg.Logo.Bucket,
			PublicBaseURL:   cfg.Logo.PublicBaseURL,
		})
		if err != nil {
			log.Fatalf("Failed to create logo storage: %s", err)
		}
		deps.Uploader = uploader
	}

	s := server.NewServer(deps)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}

// currentStandings feeds the Discord standings embed.
func currentStandings(lg league.Store) discord.StandingsFunc {
	return func(ctx context.Context) ([]stats.Standing, error) {
		season, err := lg.CurrentSeason(ctx)
		if err != nil {
			return nil, err
		}
		return stats.LoadStandings(ctx, lg, season.ID)
	}
}

// inlineEvents runs the Pub/Sub consumers in process.
func inlineEvents(lg league.Store, st stats.Store, bot *discord.Bot) *pubsub.InlineClient {
	client := pubsub.NewInline()
	client.Handle(pubsub.EventRecalculateStats, func(ctx context.Context, data []byte) error {
		var event pubsub.RecalculateStatsEvent
		if err := client.Decode(data, &event); err != nil {
			return err
		}
		if event.SeasonID == "" {
			season, err := lg.CurrentSeason(ctx)
			if errors.Is(err, league.ErrNotFound) {
				log.Warn("No current season, skipping stats rebuild", "reason", event.Reason)
				return nil
			}
			if err != nil {
				return err
			}
			event.SeasonID = season.ID
		}
		if event.DryRun {
			log.Info("[Dry Run] Would rebuild season stats", "seasonID", event.SeasonID, "reason", event.Reason)
			return nil
		}
		_, err := st.RebuildFromEA(ctx, event.SeasonID)
		return err
	})
	if bot != nil {
		client.Handle(pubsub.EventSyncRoles, func(ctx context.Context, data []byte) error {
			var event pubsub.SyncRolesEvent
			if err := client.Decode(data, &event); err != nil {
				return err
			}
			_, err := bot.SyncRoles(ctx, event.GuildID, event.DryRun)
			return err
		})
	}
	return client
}
