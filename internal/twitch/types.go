package twitch

import (
	"context"

	"github.com/mauv0809/pro-clubs-league/internal/discord"
)

// Stream is one live stream reported by Helix.
type Stream struct {
	UserLogin string `json:"user_login"`
	UserName  string `json:"user_name"`
	Title     string `json:"title"`
	GameName  string `json:"game_name"`
	Viewers   int    `json:"viewer_count"`
	StartedAt string `json:"started_at"`
}

// StreamClient looks up live streams.
type StreamClient interface {
	LiveStreams(ctx context.Context, logins []string) (map[string]Stream, error)
}

// Store is the part of the link store that Refresh writes to.
type Store interface {
	ListTwitchUsers(ctx context.Context, liveOnly bool) ([]discord.TwitchUser, error)
	SetTwitchLive(ctx context.Context, login string, live bool, title string) error
}

// RefreshReport summarizes a Refresh run.
type RefreshReport struct {
	Checked int      `json:"checked"`
	Live    []string `json:"live"`
	Changed int      `json:"changed"`
}
