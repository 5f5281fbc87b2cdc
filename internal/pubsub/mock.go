package pubsub

import (
	"context"
	"sync"
)

// Mock records published events and decodes payloads for real unless
// DecodeFunc overrides it. It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	PublishErr error
	DecodeFunc func(data []byte, out any) error

	Published []Published
	Decoded   int
}

// Published is one recorded call to Publish.
type Published struct {
	Topic EventType
	Event any
}

var _ Publisher = (*Mock)(nil)

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Publish(_ context.Context, topic EventType, event any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, Published{Topic: topic, Event: event})
	return m.PublishErr
}

func (m *Mock) Decode(data []byte, out any) error {
	m.mu.Lock()
	m.Decoded++
	fn := m.DecodeFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(data, out)
	}
	return decode(data, out)
}

// Topics lists the topics published to, in order.
func (m *Mock) Topics() []EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	topics := make([]EventType, len(m.Published))
	for i, p := range m.Published {
		topics[i] = p.Topic
	}
	return topics
}
