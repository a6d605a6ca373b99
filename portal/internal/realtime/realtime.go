package realtime

import (
	"context"
	"encoding/json"

	potel "github.com/aiuniverse/universe/internal/otel"
)

type Message struct {
	Event       string          `json:"event"`
	Sender      string          `json:"sender,omitempty"`
	TraceParent string          `json:"traceparent,omitempty"`
	Payload     json.RawMessage `json:"payload"`
}

func NewMessage(ctx context.Context, event, sender string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Event:       event,
		Sender:      sender,
		TraceParent: potel.TraceContextFromContext(ctx),
		Payload:     data,
	}, nil
}

// Context returns ctx carrying the trace the message was published from.
func (m Message) Context(ctx context.Context) context.Context {
	return potel.ContextFromTraceContext(ctx, m.TraceParent)
}

type Subscription interface {
	Channel() <-chan Message
	Close() error
}

type Broker interface {
	Publish(ctx context.Context, topic string, msg Message) error
	Subscribe(ctx context.Context, topic string) (Subscription, error)
}

func ChatTopic(worldID string) string {
	return "chat:" + worldID
}

func WorldTopic(worldID string) string {
	return "world:" + worldID
}
