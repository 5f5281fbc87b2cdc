package ea

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 500 * time.Millisecond
)

type backoffFunc func(attempt int) time.Duration

// retryingClient wraps an EAClient with linear backoff retries.
type retryingClient struct {
	inner       EAClient
	maxAttempts int
	backoffFn   backoffFunc
}

// NewRetryingClient wraps inner with retries. Non-positive arguments select the defaults.
func NewRetryingClient(inner EAClient, maxAttempts int, backoff time.Duration) EAClient {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	return &retryingClient{
		inner:       inner,
		maxAttempts: maxAttempts,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
	}
}

func (r *retryingClient) GetClubMatches(ctx context.Context, clubID string) ([]RawMatch, error) {
	var matches []RawMatch
	err := r.do(ctx, "GetClubMatches", func() error {
		var err error
		matches, err = r.inner.GetClubMatches(ctx, clubID)
		return err
	})
	return matches, err
}

func (r *retryingClient) SearchClubs(ctx context.Context, name string) ([]ClubInfo, error) {
	var clubs []ClubInfo
	err := r.do(ctx, "SearchClubs", func() error {
		var err error
		clubs, err = r.inner.SearchClubs(ctx, name)
		return err
	})
	return clubs, err
}

func (r *retryingClient) do(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == r.maxAttempts {
			break
		}
		log.Warn("EA request failed, retrying", "op", op, "attempt", attempt, "maxAttempts", r.maxAttempts, "error", lastErr)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.backoffFn(attempt)):
		}
	}
	log.Error("EA request failed", "op", op, "attempts", r.maxAttempts, "error", lastErr)
	return lastErr
}
