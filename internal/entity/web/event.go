package web

import (
	"time"

	"github.com/aiuniverse/universe/internal/entity"
)

type EventWorld struct {
	Title  string `json:"title"`
	UserID string `json:"userId"`
}

type Event struct {
	ID          string           `json:"id"`
	WorldID     string           `json:"worldId"`
	EventType   entity.EventType `json:"eventType"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	StartTime   *time.Time       `json:"startTime,omitempty"`
	EndTime     *time.Time       `json:"endTime,omitempty"`
	RiverID     string           `json:"riverId"`
	TicketPrice float64          `json:"ticketPrice"`
	CreatedAt   time.Time        `json:"createdAt"`
	World       *EventWorld      `json:"world,omitempty"`
}

type EventInput struct {
	WorldID     string           `json:"worldId"`
	EventType   entity.EventType `json:"eventType"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	StartTime   *time.Time       `json:"startTime,omitempty"`
	EndTime     *time.Time       `json:"endTime,omitempty"`
	RiverID     string           `json:"riverId"`
	TicketPrice float64          `json:"ticketPrice"`
}

type EventPatch struct {
	EventType   *entity.EventType `json:"eventType,omitempty"`
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	StartTime   *time.Time        `json:"startTime,omitempty"`
	EndTime     *time.Time        `json:"endTime,omitempty"`
	RiverID     *string           `json:"riverId,omitempty"`
	TicketPrice *float64          `json:"ticketPrice,omitempty"`
}

func (p EventPatch) ApplyTo(e *Event) {
	if p.EventType != nil {
		e.EventType = *p.EventType
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.StartTime != nil {
		t := *p.StartTime
		e.StartTime = &t
	}
	if p.EndTime != nil {
		t := *p.EndTime
		e.EndTime = &t
	}
	if p.RiverID != nil {
		e.RiverID = *p.RiverID
	}
	if p.TicketPrice != nil {
		e.TicketPrice = *p.TicketPrice
	}
}
