package realtime

import (
	"context"
	"sync"
)

const memoryBufferSize = 64

// MemoryBroker fans messages out inside one process.
type MemoryBroker struct {
	mu     sync.Mutex
	topics map[string]map[*memorySubscription]struct{}
}

func NewMemory() *MemoryBroker {
	return &MemoryBroker{
		topics: make(map[string]map[*memorySubscription]struct{}),
	}
}

func (b *MemoryBroker) Publish(ctx context.Context, topic string, msg Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.topics[topic] {
		select {
		case sub.ch <- msg:
		default:
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, topic string) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &memorySubscription{
		broker: b,
		topic:  topic,
		ch:     make(chan Message, memoryBufferSize),
	}
	if b.topics[topic] == nil {
		b.topics[topic] = make(map[*memorySubscription]struct{})
	}
	b.topics[topic][sub] = struct{}{}

	return sub, nil
}

func (b *MemoryBroker) Subscribers(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.topics[topic])
}

type memorySubscription struct {
	broker *MemoryBroker
	topic  string
	ch     chan Message
	closed bool
}

func (s *memorySubscription) Channel() <-chan Message {
	return s.ch
}

func (s *memorySubscription) Close() error {
	s.broker.mu.Lock()
	defer s.broker.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	delete(s.broker.topics[s.topic], s)
	if len(s.broker.topics[s.topic]) == 0 {
		delete(s.broker.topics, s.topic)
	}
	close(s.ch)
	return nil
}
