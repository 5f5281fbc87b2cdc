package notifier

import "context"

// Notifier defines a high-level interface for sending notifications about league events.
// This decouples the rest of the application from the specific provider (Slack, Discord).
type Notifier interface {
	// For completed league matches
	SendMatchResult(ctx context.Context, result MatchResult, dryRun bool) error
	// For EA sync runs
	SendSyncSummary(ctx context.Context, summary SyncSummary, dryRun bool) error
	// For CSV stat imports
	SendImportSummary(ctx context.Context, summary ImportSummary, dryRun bool) error
}
