package pubsub

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// New connects to Google Cloud Pub/Sub for projectID. The returned func
// flushes pending publishes and closes the client.
func New(ctx context.Context, projectID string) (Publisher, func(), error) {
	c, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	p := &cloudPublisher{client: c, topics: map[EventType]*pubsub.Topic{}}
	teardown := func() {
		p.mu.Lock()
		for _, t := range p.topics {
			t.Stop()
		}
		p.mu.Unlock()
		if err := c.Close(); err != nil {
			log.Error("Failed to close pubsub client", "error", err)
		}
	}
	return p, teardown, nil
}

// topic caches one handle per event type so publish batching is shared.
func (p *cloudPublisher) topic(name EventType) *pubsub.Topic {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.topics[name]
	if !ok {
		t = p.client.Topic(string(name))
		p.topics[name] = t
	}
	return t
}

// Publish blocks until the server acknowledges the event or ctx is done.
func (p *cloudPublisher) Publish(ctx context.Context, topic EventType, event any) error {
	payload, err := encode(event)
	if err != nil {
		return err
	}
	serverID, err := p.topic(topic).Publish(ctx, &pubsub.Message{Data: payload}).Get(ctx)
	if err != nil {
		log.Error("Failed to publish event", "error", err, "topic", topic)
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	log.Info("Published event", "topic", topic, "serverID", serverID, "bytes", len(payload))
	return nil
}

func (p *cloudPublisher) Decode(data []byte, out any) error {
	return decode(data, out)
}

func encode(event any) ([]byte, error) {
	payload, err := msgpack.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return payload, nil
}

func decode(data []byte, out any) error {
	if err := msgpack.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	return nil
}
