package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/mauv0809/pro-clubs-league/internal/league"
	"github.com/mauv0809/pro-clubs-league/internal/notifier"
	"github.com/mauv0809/pro-clubs-league/internal/stats"
)

// Channel is the metrics label used for Discord deliveries.
const Channel = "discord"

const (
	colorResult    = 0x1f8b4c
	colorStandings = 0x206694
	standingsRows  = 10
)

// StandingsFunc loads the current league table.
type StandingsFunc func(ctx context.Context) ([]stats.Standing, error)

var _ notifier.Notifier = (*Notifier)(nil)

// Notifier posts match results and refreshed standings to the guild's results channel.
type Notifier struct {
	bot       *Bot
	standings StandingsFunc
}

func NewNotifier(bot *Bot, standings StandingsFunc) *Notifier {
	return &Notifier{bot: bot, standings: standings}
}

func (n *Notifier) SendMatchResult(ctx context.Context, result notifier.MatchResult, dryRun bool) error {
	return n.send(ctx, FormatMatchResult(result), dryRun)
}

// SendSyncSummary posts the standings when the run recorded new results.
func (n *Notifier) SendSyncSummary(ctx context.Context, summary notifier.SyncSummary, dryRun bool) error {
	if summary.ResultsLinked == 0 || n.standings == nil {
		return nil
	}
	table, err := n.standings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load standings: %w", err)
	}
	return n.send(ctx, FormatStandings(table), dryRun || summary.DryRun)
}

// SendImportSummary is a no-op; imports are reported on the ops channel.
func (n *Notifier) SendImportSummary(ctx context.Context, summary notifier.ImportSummary, dryRun bool) error {
	return nil
}

func (n *Notifier) send(ctx context.Context, embed *discordgo.MessageEmbed, dryRun bool) error {
	cfg, err := n.bot.store.GetBotConfig(ctx, n.bot.guildID)
	if err != nil {
		if errors.Is(err, league.ErrNotFound) {
			log.Debug("No bot config, skipping Discord post", "guildID", n.bot.guildID)
			return nil
		}
		return err
	}
	if !cfg.IsActive || cfg.ResultsChannelID == "" {
		log.Debug("Results channel not configured, skipping Discord post", "guildID", cfg.GuildID)
		return nil
	}

	if dryRun {
		log.Info("[Dry Run] Would send Discord embed", "channel", cfg.ResultsChannelID, "title", embed.Title)
		return nil
	}

	if _, err := n.bot.session.ChannelMessageSendEmbed(cfg.ResultsChannelID, embed); err != nil {
		n.bot.metrics.IncNotifFailed(Channel)
		log.Error("Failed to send Discord embed", "error", err, "channel", cfg.ResultsChannelID)
		return fmt.Errorf("failed to send embed: %w", err)
	}
	n.bot.metrics.IncNotifSent(Channel)
	log.Info("Sent Discord embed", "channel", cfg.ResultsChannelID, "title", embed.Title)
	return nil
}

// FormatMatchResult builds the final-score embed.
func FormatMatchResult(r notifier.MatchResult) *discordgo.MessageEmbed {
	title := fmt.Sprintf("%s %d - %d %s", r.HomeTeam, r.HomeScore, r.AwayScore, r.AwayTeam)
	if r.Overtime {
		title += " (OT)"
	}
	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: colorResult,
	}
	if winner := r.Winner(); winner != "" {
		embed.Description = winner + " win"
	}
	if len(r.Stars) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Stars",
			Value: strings.Join(r.Stars, "\n"),
		})
	}
	if r.SeasonName != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: r.SeasonName}
	}
	if r.PlayedAt > 0 {
		embed.Timestamp = time.Unix(r.PlayedAt, 0).UTC().Format(time.RFC3339)
	}
	return embed
}

// FormatStandings builds a compact table of the top teams.
func FormatStandings(table []stats.Standing) *discordgo.MessageEmbed {
	var b strings.Builder
	b.WriteString("```\n")
	fmt.Fprintf(&b, "%-3s %-18s %3s %3s %3s %3s %4s\n", "#", "Team", "GP", "W", "L", "OTL", "PTS")
	for i, s := range table {
		if i == standingsRows {
			break
		}
		fmt.Fprintf(&b, "%-3d %-18s %3d %3d %3d %3d %4d\n", i+1, truncate(s.TeamName, 18),
			s.GamesPlayed, s.Wins, s.Losses, s.OvertimeLosses, s.Points)
	}
	b.WriteString("```")
	return &discordgo.MessageEmbed{
		Title:       "Standings",
		Description: b.String(),
		Color:       colorStandings,
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
