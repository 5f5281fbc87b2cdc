package http

import (
	"context"
	"database/sql"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/pro-clubs-league/internal/auth"
	"github.com/mauv0809/pro-clubs-league/internal/config"
	"github.com/mauv0809/pro-clubs-league/internal/csvimport"
	"github.com/mauv0809/pro-clubs-league/internal/discord"
	"github.com/mauv0809/pro-clubs-league/internal/ea"
	"github.com/mauv0809/pro-clubs-league/internal/ingest"
	"github.com/mauv0809/pro-clubs-league/internal/league"
	"github.com/mauv0809/pro-clubs-league/internal/metrics"
	"github.com/mauv0809/pro-clubs-league/internal/pubsub"
	"github.com/mauv0809/pro-clubs-league/internal/stats"
	"github.com/mauv0809/pro-clubs-league/internal/storage"
	"github.com/mauv0809/pro-clubs-league/internal/twitch"
)

// CSVImporter loads season stat lines from CSV.
type CSVImporter interface {
	Import(ctx context.Context, seasonID string, kind stats.Kind, r io.Reader, replace bool) (*csvimport.Report, error)
}

// DiscordBot is the part of the bot the admin panel drives.
type DiscordBot interface {
	Status(ctx context.Context) (discord.Status, error)
	SyncRoles(ctx context.Context, guildID string, dryRun bool) (*discord.RoleSyncReport, error)
	GuildID() string
}

// TwitchRefresher updates the live flag of linked channels.
type TwitchRefresher interface {
	Refresh(ctx context.Context) (*twitch.RefreshReport, error)
}

// Deps are the collaborators of the server. Bot, Twitch and Uploader are
// optional; their endpoints answer 503 when unset.
type Deps struct {
	League         league.Store
	Stats          stats.Store
	EAMatches      ingest.Store
	Syncer         ingest.Syncer
	EAClient       ea.EAClient
	Importer       CSVImporter
	Discord        discord.Store
	Bot            DiscordBot
	Twitch         TwitchRefresher
	Uploader       storage.FileUploader
	PubSub         pubsub.Publisher
	Metrics        metrics.Metrics
	Counters       metrics.MetricsStore
	MetricsHandler http.Handler
	Auth           *auth.Authenticator
	Push           *auth.PushVerifier
	DB             *sql.DB
	Cfg            config.Config
}

type Server struct {
	Deps
	Router chi.Router
}
