package pubsub

import "context"

// Publisher fans league events out to their consumers. Payloads are
// MessagePack on the wire; Decode reverses that for push deliveries.
type Publisher interface {
	Publish(ctx context.Context, topic EventType, event any) error
	Decode(data []byte, out any) error
}
