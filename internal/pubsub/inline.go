package pubsub

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// Handler consumes an encoded event payload.
type Handler func(ctx context.Context, data []byte) error

// InlineClient delivers events to in-process handlers. It stands in for
// Pub/Sub when no GCP project is configured.
type InlineClient struct {
	mu       sync.RWMutex
	handlers map[EventType]Handler
}

var _ Publisher = (*InlineClient)(nil)

func NewInline() *InlineClient {
	return &InlineClient{handlers: map[EventType]Handler{}}
}

// Handle registers the handler for a topic, replacing any previous one.
func (c *InlineClient) Handle(topic EventType, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[topic] = h
}

// Publish encodes the event as the cloud publisher would and runs the
// topic's handler synchronously. Topics without a handler are dropped.
func (c *InlineClient) Publish(ctx context.Context, topic EventType, event any) error {
	payload, err := encode(event)
	if err != nil {
		return err
	}

	c.mu.RLock()
	h, ok := c.handlers[topic]
	c.mu.RUnlock()
	if !ok {
		log.Warn("No inline handler for topic, dropping event", "topic", topic)
		return nil
	}
	if err := h(ctx, payload); err != nil {
		return fmt.Errorf("inline handler for %s: %w", topic, err)
	}
	log.Debug("Delivered inline event", "topic", topic)
	return nil
}

func (c *InlineClient) Decode(data []byte, out any) error {
	return decode(data, out)
}
