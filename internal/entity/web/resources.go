package web

import (
	"encoding/json"
	"time"

	"github.com/aiuniverse/universe/internal/entity"
)

type TrackRequest struct {
	EventName  string         `json:"eventName"`
	Properties map[string]any `json:"properties"`
}

type AnalyticsEvent struct {
	ID         string         `json:"id"`
	WorldID    string         `json:"worldId"`
	UserID     string         `json:"userId,omitempty"`
	EventName  string         `json:"eventName"`
	Properties map[string]any `json:"properties"`
	Timestamp  time.Time      `json:"timestamp"`
}

type Translation struct {
	ID           string          `json:"id"`
	WorldID      string          `json:"worldId"`
	LanguageCode string          `json:"languageCode"`
	Content      json.RawMessage `json:"content"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type Subscription struct {
	ID        string                    `json:"id"`
	UserID    string                    `json:"userId"`
	WorldID   string                    `json:"worldId"`
	Status    entity.SubscriptionStatus `json:"status"`
	Amount    float64                   `json:"amount"`
	StartedAt time.Time                 `json:"startedAt"`
	ExpiresAt *time.Time                `json:"expiresAt,omitempty"`
}

type FileObject struct {
	Name         string    `json:"name"`
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
	PublicURL    string    `json:"publicUrl,omitempty"`
}

type SignedURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ChatMessage struct {
	ID        string          `json:"id"`
	Content   string          `json:"content"`
	Role      entity.ChatRole `json:"role"`
	Timestamp time.Time       `json:"timestamp"`
	WorldID   string          `json:"worldId"`
	UserID    string          `json:"userId,omitempty"`
}

type ChatFrameType string

const (
	ChatFrameMessage ChatFrameType = "message"
	ChatFrameTyping  ChatFrameType = "typing"
)

type ChatEnvelope struct {
	Type    ChatFrameType   `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type TypingState struct {
	Typing bool `json:"typing"`
}

// MemeEntry and NFTIdentity are part of the public data model but no endpoint serves them yet.
type MemeEntry struct {
	ID        string    `json:"id"`
	WorldID   string    `json:"worldId"`
	UserID    string    `json:"userId"`
	ImageURL  string    `json:"imageUrl"`
	Caption   string    `json:"caption"`
	Votes     int       `json:"votes"`
	CreatedAt time.Time `json:"createdAt"`
}

type NFTIdentity struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	TokenID         string    `json:"tokenId"`
	ContractAddress string    `json:"contractAddress"`
	Metadata        any       `json:"metadata"`
	CreatedAt       time.Time `json:"createdAt"`
}
