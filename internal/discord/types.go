package discord

import (
	"database/sql"
	"sync"
	"time"

	"github.com/mauv0809/pro-clubs-league/internal/league"
)

// store handles the Discord and Twitch link tables.
type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// BotConfig is the per-guild bot configuration.
type BotConfig struct {
	GuildID                string `json:"guild_id"`
	ResultsChannelID       string `json:"results_channel_id"`
	AnnouncementsChannelID string `json:"announcements_channel_id"`
	RegisteredRoleID       string `json:"registered_role_id"`
	IsActive               bool   `json:"is_active"`
	UpdatedAt              int64  `json:"updated_at"`
}

// TeamRole maps a league team to a guild role.
type TeamRole struct {
	GuildID  string `json:"guild_id"`
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	RoleID   string `json:"role_id"`
}

// ManagementRole maps a roster role (captain, gm, ...) to a guild role.
type ManagementRole struct {
	GuildID    string            `json:"guild_id"`
	PlayerRole league.PlayerRole `json:"player_role"`
	RoleID     string            `json:"role_id"`
}

// DiscordUser links a league user to a Discord account.
type DiscordUser struct {
	UserID          string `json:"user_id"`
	GamerTag        string `json:"gamer_tag"`
	DiscordID       string `json:"discord_id"`
	DiscordUsername string `json:"discord_username"`
	LinkedAt        int64  `json:"linked_at"`
}

// TwitchUser links a league user to a Twitch channel.
type TwitchUser struct {
	UserID      string `json:"user_id"`
	GamerTag    string `json:"gamer_tag"`
	TwitchLogin string `json:"twitch_login"`
	IsLive      bool   `json:"is_live"`
	StreamTitle string `json:"stream_title"`
	CheckedAt   int64  `json:"checked_at"`
}

// Status is a snapshot of the bot's gateway connection.
type Status struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Username   string `json:"username,omitempty"`
	GuildCount int    `json:"guild_count"`
	LatencyMs  int64  `json:"latency_ms"`
}

// MemberChange lists the roles added to and removed from one member.
type MemberChange struct {
	DiscordID string   `json:"discord_id"`
	GamerTag  string   `json:"gamer_tag"`
	Added     []string `json:"added"`
	Removed   []string `json:"removed"`
}

// RoleSyncReport summarizes a SyncRoles run.
type RoleSyncReport struct {
	GuildID string         `json:"guild_id"`
	Users   int            `json:"users"`
	Changes []MemberChange `json:"changes"`
	Errors  []string       `json:"errors"`
	DryRun  bool           `json:"dry_run"`
}
