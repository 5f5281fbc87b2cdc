package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pro-clubs-league/internal/metrics"
	"github.com/mauv0809/pro-clubs-league/internal/notifier"
	"github.com/slack-go/slack"
)

// Channel is the metrics label used for Slack deliveries.
const Channel = "slack"

// maxReasons caps how many skip reasons an import summary lists.
const maxReasons = 5

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier posts league operations messages to a Slack channel.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncNotifFailed(Channel)
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotifSent(Channel)
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendMatchResult(ctx context.Context, result notifier.MatchResult, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatMatchResult(result), dryRun)
	return err
}

func (s *Notifier) SendSyncSummary(ctx context.Context, summary notifier.SyncSummary, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatSyncSummary(summary), dryRun)
	return err
}

func (s *Notifier) SendImportSummary(ctx context.Context, summary notifier.ImportSummary, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatImportSummary(summary), dryRun)
	return err
}

func plainSection(text string) slack.Block {
	return slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil)
}

// formatMatchResult creates the Slack message for a recorded league result using Block Kit.
func (s *Notifier) formatMatchResult(r notifier.MatchResult) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏒 Final score 🏒", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	score := fmt.Sprintf("%s %d - %d %s", r.HomeTeam, r.HomeScore, r.AwayScore, r.AwayTeam)
	if r.Overtime {
		score += " (OT)"
	}
	blocks = append(blocks, plainSection(score))

	if len(r.Stars) > 0 {
		stars := make([]string, 0, len(r.Stars))
		for _, star := range r.Stars {
			stars = append(stars, fmt.Sprintf("• %s", star))
		}
		blocks = append(blocks, plainSection("Stars:\n"+strings.Join(stars, "\n")))
	}

	var contextElements []slack.MixedElement
	if r.SeasonName != "" {
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", r.SeasonName, true, false))
	}
	if r.EAMatchID != "" {
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", "EA match "+r.EAMatchID, true, false))
	}
	if len(contextElements) > 0 {
		blocks = append(blocks, slack.NewContextBlock("", contextElements...))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatSyncSummary creates the Slack message for an EA sync run.
func (s *Notifier) formatSyncSummary(sum notifier.SyncSummary) slack.Message {
	blocks := make([]slack.Block, 0)

	title := "🔄 EA sync finished"
	if sum.DryRun {
		title += " (dry run)"
	}
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", title, true, false)))

	details := fmt.Sprintf("Clubs: %d\nMatches fetched: %d\nMatches stored: %d\nResults linked: %d\nDuration: %dms",
		sum.Clubs, sum.MatchesFetched, sum.MatchesStored, sum.ResultsLinked, sum.DurationMs)
	blocks = append(blocks, plainSection(details))

	if len(sum.Failures) > 0 {
		failures := make([]string, 0, len(sum.Failures))
		for _, f := range sum.Failures {
			failures = append(failures, fmt.Sprintf("• %s", f))
		}
		blocks = append(blocks, plainSection("Failures:\n"+strings.Join(failures, "\n")))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatImportSummary creates the Slack message for a CSV import.
func (s *Notifier) formatImportSummary(sum notifier.ImportSummary) slack.Message {
	blocks := make([]slack.Block, 0)

	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", "📥 Stats import", true, false)))
	blocks = append(blocks, plainSection(fmt.Sprintf("Season: %s\nKind: %s\nImported: %d\nSkipped: %d",
		sum.SeasonID, sum.Kind, sum.Imported, sum.Skipped)))

	if len(sum.Reasons) > 0 {
		reasons := sum.Reasons
		if len(reasons) > maxReasons {
			reasons = reasons[:maxReasons]
		}
		lines := make([]string, 0, len(reasons))
		for _, r := range reasons {
			lines = append(lines, fmt.Sprintf("• %s", r))
		}
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}
