package notifier

import (
	"context"
	"errors"
)

// Multi fans a notification out to every wrapped notifier and joins their errors.
type Multi []Notifier

var _ Notifier = Multi{}

func (m Multi) SendMatchResult(ctx context.Context, result MatchResult, dryRun bool) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.SendMatchResult(ctx, result, dryRun))
	}
	return errors.Join(errs...)
}

func (m Multi) SendSyncSummary(ctx context.Context, summary SyncSummary, dryRun bool) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.SendSyncSummary(ctx, summary, dryRun))
	}
	return errors.Join(errs...)
}

func (m Multi) SendImportSummary(ctx context.Context, summary ImportSummary, dryRun bool) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.SendImportSummary(ctx, summary, dryRun))
	}
	return errors.Join(errs...)
}
