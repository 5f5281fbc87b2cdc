package twitch

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// Refresher keeps the live flag of linked channels current.
type Refresher struct {
	client StreamClient
	store  Store
}

func NewRefresher(client StreamClient, store Store) *Refresher {
	return &Refresher{client: client, store: store}
}

// Refresh checks every linked channel and stores its live state and title.
func (r *Refresher) Refresh(ctx context.Context) (*RefreshReport, error) {
	users, err := r.store.ListTwitchUsers(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list twitch users: %w", err)
	}
	report := &RefreshReport{Checked: len(users), Live: []string{}}
	if len(users) == 0 {
		return report, nil
	}

	logins := make([]string, 0, len(users))
	for _, u := range users {
		logins = append(logins, u.TwitchLogin)
	}
	live, err := r.client.LiveStreams(ctx, logins)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		stream, isLive := live[u.TwitchLogin]
		if isLive {
			report.Live = append(report.Live, u.TwitchLogin)
		}
		if isLive == u.IsLive && stream.Title == u.StreamTitle {
			continue
		}
		if err := r.store.SetTwitchLive(ctx, u.TwitchLogin, isLive, stream.Title); err != nil {
			return report, err
		}
		report.Changed++
	}
	log.Info("Refreshed Twitch live status", "checked", report.Checked, "live", len(report.Live), "changed", report.Changed)
	return report, nil
}
