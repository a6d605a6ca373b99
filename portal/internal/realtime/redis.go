package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

type RedisBroker struct {
	redis *redis.Client
}

func NewRedis(redis *redis.Client) *RedisBroker {
	return &RedisBroker{
		redis: redis,
	}
}

func (b *RedisBroker) Publish(ctx context.Context, topic string, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := b.redis.Publish(ctx, topic, data).Result(); err != nil {
		return err
	}
	return nil
}

func (b *RedisBroker) Subscribe(ctx context.Context, topic string) (Subscription, error) {
	pubsub := b.redis.Subscribe(ctx, topic)
	// Wait for the subscription to be confirmed so that nothing published afterwards is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		out:    make(chan Message),
		done:   make(chan struct{}),
	}
	go sub.forward()

	return sub, nil
}

type redisSubscription struct {
	pubsub    *redis.PubSub
	out       chan Message
	done      chan struct{}
	closeOnce sync.Once
}

func (s *redisSubscription) forward() {
	defer close(s.out)

	for msg := range s.pubsub.Channel() {
		var outMsg Message
		if err := json.Unmarshal([]byte(msg.Payload), &outMsg); err != nil {
			slog.Debug("Dropping malformed realtime message", slog.String("channel", msg.Channel), slog.Any("error", err))
			continue
		}

		select {
		case s.out <- outMsg:
		case <-s.done:
			return
		}
	}
}

func (s *redisSubscription) Channel() <-chan Message {
	return s.out
}

func (s *redisSubscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.pubsub.Close()
	})
	return err
}
