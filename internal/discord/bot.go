package discord

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/mauv0809/pro-clubs-league/internal/league"
	"github.com/mauv0809/pro-clubs-league/internal/metrics"
)

// liveSession adapts a gateway session to Session.
type liveSession struct {
	*discordgo.Session
}

func (s liveSession) Snapshot() Status {
	st := Status{Configured: true, Connected: s.DataReady}
	if s.DataReady {
		st.LatencyMs = s.HeartbeatLatency().Milliseconds()
	}
	if s.State != nil {
		s.State.RLock()
		if s.State.User != nil {
			st.Username = s.State.User.Username
		}
		st.GuildCount = len(s.State.Guilds)
		s.State.RUnlock()
	}
	return st
}

// Bot drives the league's Discord integration.
type Bot struct {
	session Session
	gateway *discordgo.Session
	store   Store
	roster  RosterStore
	metrics metrics.Metrics
	guildID string
}

// New creates a bot for token. The gateway connection is opened by Start.
func New(token, guildID string, store Store, roster RosterStore, metrics metrics.Metrics) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers
	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Info("Discord bot is ready", "user", r.User.Username, "guilds", len(r.Guilds))
	})

	b := NewWithSession(liveSession{session}, guildID, store, roster, metrics)
	b.gateway = session
	return b, nil
}

// NewWithSession creates a bot around an existing session. Used by tests.
func NewWithSession(session Session, guildID string, store Store, roster RosterStore, metrics metrics.Metrics) *Bot {
	return &Bot{
		session: session,
		store:   store,
		roster:  roster,
		metrics: metrics,
		guildID: guildID,
	}
}

// Start opens the gateway connection.
func (b *Bot) Start() error {
	if b.gateway == nil {
		return nil
	}
	if err := b.gateway.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	log.Info("Connected to Discord", "guildID", b.guildID)
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	if b.gateway == nil {
		return nil
	}
	return b.gateway.Close()
}

// GuildID is the default guild the bot manages.
func (b *Bot) GuildID() string {
	return b.guildID
}

// Status reports the bot's connection state.
func (b *Bot) Status(ctx context.Context) (Status, error) {
	if b == nil || b.session == nil {
		return Status{}, nil
	}
	return b.session.Snapshot(), nil
}

// SyncRoles gives every linked member the role of their team and of their
// management position, and removes mapped roles they no longer hold.
// Roles that are not mapped by the panel are never touched.
func (b *Bot) SyncRoles(ctx context.Context, guildID string, dryRun bool) (*RoleSyncReport, error) {
	if guildID == "" {
		guildID = b.guildID
	}
	if guildID == "" {
		return nil, league.Validationf("guild id is required")
	}

	var registeredRole string
	cfg, err := b.store.GetBotConfig(ctx, guildID)
	switch {
	case err == nil:
		registeredRole = cfg.RegisteredRoleID
	case !errors.Is(err, league.ErrNotFound):
		return nil, err
	}

	teamRoles, err := b.store.ListTeamRoles(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team roles: %w", err)
	}
	mgmtRoles, err := b.store.ListManagementRoles(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list management roles: %w", err)
	}
	users, err := b.store.ListDiscordUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list discord users: %w", err)
	}

	byTeam := map[string]string{}
	byPosition := map[league.PlayerRole]string{}
	managed := map[string]bool{}
	for _, r := range teamRoles {
		byTeam[r.TeamID] = r.RoleID
		managed[r.RoleID] = true
	}
	for _, r := range mgmtRoles {
		byPosition[r.PlayerRole] = r.RoleID
		managed[r.RoleID] = true
	}
	if registeredRole != "" {
		managed[registeredRole] = true
	}

	report := &RoleSyncReport{GuildID: guildID, Users: len(users), Changes: []MemberChange{}, Errors: []string{}, DryRun: dryRun}
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		desired := map[string]bool{}
		player, err := b.roster.GetPlayerByUserID(ctx, u.UserID)
		switch {
		case err == nil:
			if registeredRole != "" {
				desired[registeredRole] = true
			}
			if role, ok := byTeam[player.TeamID]; ok && player.TeamID != "" {
				desired[role] = true
			}
			if role, ok := byPosition[player.Role]; ok {
				desired[role] = true
			}
		case !errors.Is(err, league.ErrNotFound):
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", u.GamerTag, err))
			continue
		}

		member, err := b.session.GuildMember(guildID, u.DiscordID)
		if err != nil {
			log.Warn("Failed to load guild member", "error", err, "discordID", u.DiscordID)
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", u.GamerTag, err))
			continue
		}
		current := map[string]bool{}
		for _, r := range member.Roles {
			current[r] = true
		}

		change := MemberChange{DiscordID: u.DiscordID, GamerTag: u.GamerTag, Added: []string{}, Removed: []string{}}
		for role := range desired {
			if !current[role] {
				change.Added = append(change.Added, role)
			}
		}
		for role := range current {
			if managed[role] && !desired[role] {
				change.Removed = append(change.Removed, role)
			}
		}
		if len(change.Added) == 0 && len(change.Removed) == 0 {
			continue
		}
		sort.Strings(change.Added)
		sort.Strings(change.Removed)

		if !dryRun {
			b.apply(guildID, &change, report)
		}
		report.Changes = append(report.Changes, change)
	}

	log.Info("Synced Discord roles", "guildID", guildID, "users", report.Users, "changed", len(report.Changes),
		"errors", len(report.Errors), "dryRun", dryRun)
	return report, nil
}

func (b *Bot) apply(guildID string, change *MemberChange, report *RoleSyncReport) {
	for _, role := range change.Added {
		if err := b.session.GuildMemberRoleAdd(guildID, change.DiscordID, role); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: add %s: %v", change.GamerTag, role, err))
		}
	}
	for _, role := range change.Removed {
		if err := b.session.GuildMemberRoleRemove(guildID, change.DiscordID, role); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: remove %s: %v", change.GamerTag, role, err))
		}
	}
}
