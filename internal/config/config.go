package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load is Parse for the server binary: any error is fatal and the enabled
// integrations are logged once.
func Load() Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("Invalid configuration: %s", err)
	}
	log.Info("Configuration loaded",
		"port", cfg.Port,
		"turso", cfg.Turso.PrimaryURL != "",
		"pubsub", cfg.ProjectID != "",
		"discord", cfg.Discord.Token != "",
		"slack", cfg.Slack.Token != "",
		"twitch", cfg.Twitch.ClientID != "",
		"logos", cfg.Logo.Enabled(),
		"push_oidc", cfg.Push.Audience != "",
	)
	return cfg
}

// Parse reads an optional .env file, then the environment, and normalizes
// the result. The CLI and seeder use it directly.
func Parse() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, reading from environment variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	if c.EA.Concurrency <= 0 {
		c.EA.Concurrency = 1
	}
	if c.EA.Retries < 0 {
		c.EA.Retries = 0
	}
	if c.EA.Backoff < 0 {
		return errors.New("EA_BACKOFF must not be negative")
	}
	if c.Auth.TTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	c.Logo.PublicBaseURL = strings.TrimRight(c.Logo.PublicBaseURL, "/")
	if c.Logo.Bucket != "" && !c.Logo.Enabled() {
		log.Warn("LOGO_BUCKET is set without credentials, logo uploads stay disabled")
	}
	if c.Turso.AuthToken != "" && c.Turso.PrimaryURL == "" {
		log.Warn("TURSO_AUTH_TOKEN is set without TURSO_PRIMARY_URL, using local database", "db", c.DBName)
	}
	return nil
}
