package pubsub

import (
	"sync"

	"cloud.google.com/go/pubsub"
)

// EventType doubles as the Pub/Sub topic name.
type EventType string

const (
	EventRecalculateStats EventType = "recalculate-season-stats"
	EventSyncRoles        EventType = "sync-discord-roles"
)

// Reasons carried by RecalculateStatsEvent.
const (
	ReasonEASync = "ea-sync"
	ReasonAdmin  = "admin"
)

// RecalculateStatsEvent asks for a season's stats to be rebuilt from EA rows.
// An empty SeasonID means the current season.
type RecalculateStatsEvent struct {
	SeasonID string `msgpack:"season_id" json:"season_id"`
	Reason   string `msgpack:"reason" json:"reason"`
	DryRun   bool   `msgpack:"dry_run" json:"dry_run"`
}

// SyncRolesEvent asks for Discord roles to be reconciled with rosters.
type SyncRolesEvent struct {
	GuildID string `msgpack:"guild_id" json:"guild_id"`
	DryRun  bool   `msgpack:"dry_run" json:"dry_run"`
}

type cloudPublisher struct {
	mu     sync.Mutex
	client *pubsub.Client
	topics map[EventType]*pubsub.Topic
}
