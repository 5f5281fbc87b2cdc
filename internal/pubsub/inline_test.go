package pubsub

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInlineClientDelivers(t *testing.T) {
	c := NewInline()

	var got RecalculateStatsEvent
	c.Handle(EventRecalculateStats, func(ctx context.Context, data []byte) error {
		return c.Decode(data, &got)
	})

	err := c.Publish(context.Background(), EventRecalculateStats, RecalculateStatsEvent{SeasonID: "s1", Reason: ReasonEASync})
	require.NoError(t, err)
	assert.Equal(t, RecalculateStatsEvent{SeasonID: "s1", Reason: ReasonEASync}, got)
}

func TestInlineClientPropagatesHandlerErrors(t *testing.T) {
	c := NewInline()
	c.Handle(EventSyncRoles, func(ctx context.Context, data []byte) error {
		return errors.New("discord down")
	})

	err := c.Publish(context.Background(), EventSyncRoles, SyncRolesEvent{GuildID: "g1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discord down")
}

func TestInlineClientDropsUnhandledTopics(t *testing.T) {
	c := NewInline()
	assert.NoError(t, c.Publish(context.Background(), EventSyncRoles, SyncRolesEvent{}))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	c := NewInline()
	var ev SyncRolesEvent
	assert.Error(t, c.Decode([]byte{0xc1}, &ev))
}

func TestMockDecodesByDefault(t *testing.T) {
	m := NewMock()
	payload, err := encodeForTest(SyncRolesEvent{GuildID: "g1", DryRun: true})
	require.NoError(t, err)

	var ev SyncRolesEvent
	require.NoError(t, m.Decode(payload, &ev))
	assert.True(t, ev.DryRun)
	assert.Equal(t, 1, m.Decoded)
}

func TestMockRecordsTopics(t *testing.T) {
	m := NewMock()
	m.PublishErr = errors.New("quota")

	assert.Error(t, m.Publish(context.Background(), EventSyncRoles, SyncRolesEvent{}))
	assert.Equal(t, []EventType{EventSyncRoles}, m.Topics())
}
