package model

import (
	"encoding/json"
	"time"

	"github.com/aiuniverse/universe/internal/entity"
	"github.com/uptrace/bun"
)

// Account holds sign-in credentials. The matching profile lives in User.
type Account struct {
	bun.BaseModel `bun:"table:accounts"`

	ID        string    `bun:"id,pk,type:uuid"`
	Email     string    `bun:"email,notnull,unique"`
	Password  string    `bun:"password,type:varchar(72),notnull"`
	Admin     bool      `bun:"admin,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID        string      `bun:"id,pk,type:uuid"`
	Email     string      `bun:"email,notnull,unique"`
	Name      string      `bun:"name,notnull"`
	AvatarURL string      `bun:"avatar_url,notnull"`
	Plan      entity.Plan `bun:"plan,type:varchar(16),notnull"`
	CreatedAt time.Time   `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time   `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type WorldTheme struct {
	Color string `json:"color"`
	Mode  string `json:"mode"`
}

type WorldFeatures struct {
	Chat         bool `json:"chat"`
	Voice        bool `json:"voice"`
	Video        bool `json:"video"`
	NFT          bool `json:"nft"`
	Crypto       bool `json:"crypto"`
	Events       bool `json:"events"`
	Translations bool `json:"translations"`
	Social       bool `json:"social"`
}

type WorldPricing struct {
	Free    bool    `json:"free"`
	Premium bool    `json:"premium"`
	Price   float64 `json:"price"`
}

type World struct {
	bun.BaseModel `bun:"table:ai_worlds,alias:w"`

	ID          string        `bun:"id,pk,type:uuid"`
	UserID      string        `bun:"user_id,type:uuid,notnull"`
	Title       string        `bun:"title,notnull"`
	Description string        `bun:"description,notnull"`
	Slug        string        `bun:"slug,notnull,unique"`
	Domain      string        `bun:"domain,notnull"`
	Theme       WorldTheme    `bun:"theme,type:jsonb,notnull"`
	Features    WorldFeatures `bun:"features,type:jsonb,notnull"`
	Pricing     WorldPricing  `bun:"pricing,type:jsonb,notnull"`
	Public      bool          `bun:"public,notnull"`
	CreatedAt   time.Time     `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time     `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type WorldEvent struct {
	bun.BaseModel `bun:"table:world_events,alias:e"`

	ID          string           `bun:"id,pk,type:uuid"`
	WorldID     string           `bun:"world_id,type:uuid,notnull"`
	EventType   entity.EventType `bun:"event_type,type:varchar(16),notnull"`
	Title       string           `bun:"title,notnull"`
	Description string           `bun:"description,notnull"`
	StartTime   bun.NullTime     `bun:"start_time"`
	EndTime     bun.NullTime     `bun:"end_time"`
	RiverID     string           `bun:"river_id,notnull"`
	TicketPrice float64          `bun:"ticket_price,notnull"`
	CreatedAt   time.Time        `bun:"created_at,nullzero,notnull,default:current_timestamp"`

	World *World `bun:"rel:belongs-to,join:world_id=id"`
}

type AnalyticsEvent struct {
	bun.BaseModel `bun:"table:analytics_events"`

	ID         string         `bun:"id,pk,type:uuid"`
	WorldID    string         `bun:"world_id,type:uuid,notnull"`
	UserID     *string        `bun:"user_id,type:uuid"`
	EventName  string         `bun:"event_name,notnull"`
	Properties map[string]any `bun:"properties,type:jsonb,notnull"`
	Timestamp  time.Time      `bun:"timestamp,nullzero,notnull,default:current_timestamp"`
}

type Translation struct {
	bun.BaseModel `bun:"table:translations"`

	ID           string          `bun:"id,pk,type:uuid"`
	WorldID      string          `bun:"world_id,type:uuid,notnull,unique:world_language"`
	LanguageCode string          `bun:"language_code,type:varchar(16),notnull,unique:world_language"`
	Content      json.RawMessage `bun:"content,type:jsonb,notnull"`
	UpdatedAt    time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type Subscription struct {
	bun.BaseModel `bun:"table:subscriptions"`

	ID        string                    `bun:"id,pk,type:uuid"`
	UserID    string                    `bun:"user_id,type:uuid,notnull"`
	WorldID   string                    `bun:"world_id,type:uuid,notnull"`
	Status    entity.SubscriptionStatus `bun:"status,type:varchar(16),notnull"`
	Amount    float64                   `bun:"amount,notnull"`
	StartedAt time.Time                 `bun:"started_at,nullzero,notnull,default:current_timestamp"`
	ExpiresAt bun.NullTime              `bun:"expires_at"`
}
