package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/mauv0809/pro-clubs-league/internal/league"
)

// Store defines the bot panel's persistence.
type Store interface {
	GetBotConfig(ctx context.Context, guildID string) (*BotConfig, error)
	UpsertBotConfig(ctx context.Context, cfg BotConfig) (*BotConfig, error)

	ListTeamRoles(ctx context.Context, guildID string) ([]TeamRole, error)
	SetTeamRole(ctx context.Context, guildID, teamID, roleID string) error
	DeleteTeamRole(ctx context.Context, guildID, teamID string) error

	ListManagementRoles(ctx context.Context, guildID string) ([]ManagementRole, error)
	SetManagementRole(ctx context.Context, guildID string, role league.PlayerRole, roleID string) error
	DeleteManagementRole(ctx context.Context, guildID string, role league.PlayerRole) error

	LinkDiscordUser(ctx context.Context, userID, discordID, username string) (*DiscordUser, error)
	ListDiscordUsers(ctx context.Context) ([]DiscordUser, error)
	UnlinkDiscordUser(ctx context.Context, userID string) error

	LinkTwitchUser(ctx context.Context, userID, login string) (*TwitchUser, error)
	ListTwitchUsers(ctx context.Context, liveOnly bool) ([]TwitchUser, error)
	UnlinkTwitchUser(ctx context.Context, userID string) error
	SetTwitchLive(ctx context.Context, login string, live bool, title string) error
}

// Session is the slice of the discordgo session the bot uses.
type Session interface {
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	Snapshot() Status
}

// RosterStore resolves a user's roster entry.
type RosterStore interface {
	GetPlayerByUserID(ctx context.Context, userID string) (*league.Player, error)
}
