package entity

type ErrorCode int

const (
	ErrBadRequest   ErrorCode = 1
	ErrInternal     ErrorCode = 2
	ErrCredential   ErrorCode = 3
	ErrPasswordRule ErrorCode = 8
	ErrDupEmail     ErrorCode = 9
	ErrRequiresAuth ErrorCode = 10
	ErrInvalidEmail ErrorCode = 11
	ErrNotFound     ErrorCode = 12
	ErrDupSlug      ErrorCode = 13
	ErrPermission   ErrorCode = 14
	ErrWorldGone    ErrorCode = 15
	ErrStorage      ErrorCode = 16
	ErrFeatureOff   ErrorCode = 17
)

type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanPro, PlanEnterprise:
		return true
	}
	return false
}

type EventType string

const (
	EventMeetup     EventType = "meetup"
	EventWorkshop   EventType = "workshop"
	EventConference EventType = "conference"
)

func (t EventType) Valid() bool {
	switch t {
	case EventMeetup, EventWorkshop, EventConference:
		return true
	}
	return false
}

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionInactive  SubscriptionStatus = "inactive"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
	RoleSystem    ChatRole = "system"
)
