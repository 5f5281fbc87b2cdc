package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	Port        string   `env:"PORT" envDefault:"8080"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	DBName      string   `env:"DB_NAME" envDefault:"league.db"`
	ProjectID   string   `env:"GCP_PROJECT"`
	Turso       TursoConfig
	EA          EAConfig      `envPrefix:"EA_"`
	Discord     DiscordConfig `envPrefix:"DISCORD_"`
	Twitch      TwitchConfig  `envPrefix:"TWITCH_"`
	Slack       SlackConfig   `envPrefix:"SLACK_"`
	Logo        LogoConfig    `envPrefix:"LOGO_"`
	Auth        AuthConfig    `envPrefix:"JWT_"`
	Push        PushConfig    `envPrefix:"PUBSUB_PUSH_"`
}

type TursoConfig struct {
	PrimaryURL string `env:"TURSO_PRIMARY_URL"`
	AuthToken  string `env:"TURSO_AUTH_TOKEN"`
}

type EAConfig struct {
	BaseURL     string        `env:"BASE_URL" envDefault:"https://proclubs.ea.com/api/nhl"`
	Platform    string        `env:"PLATFORM" envDefault:"common-gen5"`
	MatchType   string        `env:"MATCH_TYPE" envDefault:"club_private"`
	Concurrency int           `env:"SYNC_CONCURRENCY" envDefault:"4"`
	Retries     int           `env:"RETRIES" envDefault:"3"`
	Backoff     time.Duration `env:"BACKOFF" envDefault:"500ms"`
}

type DiscordConfig struct {
	Token   string `env:"BOT_TOKEN"`
	GuildID string `env:"GUILD_ID"`
}

type TwitchConfig struct {
	ClientID    string `env:"CLIENT_ID"`
	AccessToken string `env:"ACCESS_TOKEN"`
}

type SlackConfig struct {
	Token     string `env:"BOT_TOKEN"`
	ChannelID string `env:"CHANNEL_ID"`
}

// LogoConfig points at an S3 compatible bucket. An AccountID selects Cloudflare R2.
type LogoConfig struct {
	AccountID       string `env:"ACCOUNT_ID"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	Bucket          string `env:"BUCKET"`
	PublicBaseURL   string `env:"PUBLIC_BASE_URL"`
}

type AuthConfig struct {
	Secret string        `env:"SECRET,required,notEmpty"`
	Issuer string        `env:"ISSUER" envDefault:"pro-clubs-league"`
	TTL    time.Duration `env:"TTL" envDefault:"24h"`
}

// PushConfig enables Google OIDC tokens on push deliveries. With no
// audience only admin tokens are accepted.
type PushConfig struct {
	Audience       string `env:"AUDIENCE"`
	ServiceAccount string `env:"SERVICE_ACCOUNT"`
}

// Enabled reports whether logo uploads are configured.
func (c LogoConfig) Enabled() bool {
	return c.Bucket != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}
