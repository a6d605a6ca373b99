package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/aiuniverse/universe/portal/internal/db/model"
	"github.com/aiuniverse/universe/portal/internal/worlds"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrNotFound    = errors.New("event not found")
	ErrPermission  = errors.New("permission denied for event")
	ErrWorldGone   = errors.New("world of the event no longer exists")
	ErrInvalidType = errors.New("unknown event type")
	ErrNoTitle     = errors.New("event title is required")
	ErrTimeRange   = errors.New("event ends before it starts")
)

type EventService struct {
	repo   Repository
	worlds WorldFinder
	now    func() time.Time
}

func New(repo Repository, worlds WorldFinder) *EventService {
	return &EventService{
		repo:   repo,
		worlds: worlds,
		now:    time.Now,
	}
}

// List returns the events viewerID may see, ordered by start time: those of
// one world when worldID is given, otherwise of every public world and of the
// viewer's own. A private world of someone else is reported as not found.
func (s *EventService) List(ctx context.Context, viewerID, worldID string) ([]model.WorldEvent, error) {
	if worldID != "" {
		world, err := s.worlds.Find(ctx, worldID)
		if err != nil {
			return nil, err
		}
		if !world.Public && world.UserID != viewerID {
			return nil, worlds.ErrNotFound
		}
	}
	return s.repo.List(ctx, viewerID, worldID)
}

func (s *EventService) Upcoming(ctx context.Context, limit int) ([]model.WorldEvent, error) {
	return s.repo.ListUpcoming(ctx, limit)
}

func (s *EventService) ownedWorld(ctx context.Context, userID, worldID string) (*model.World, error) {
	world, err := s.worlds.Find(ctx, worldID)
	if err != nil {
		if errors.Is(err, worlds.ErrNotFound) {
			return nil, ErrWorldGone
		}
		return nil, err
	}
	if world.UserID != userID {
		return nil, ErrPermission
	}
	return world, nil
}

func validate(e *web.Event) error {
	if !e.EventType.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(e.Title) == "" {
		return ErrNoTitle
	}
	if e.StartTime != nil && e.EndTime != nil && e.EndTime.Before(*e.StartTime) {
		return ErrTimeRange
	}
	return nil
}

func (s *EventService) Create(ctx context.Context, userID string, input web.EventInput) (*model.WorldEvent, error) {
	world, err := s.ownedWorld(ctx, userID, input.WorldID)
	if err != nil {
		return nil, err
	}

	if input.EventType == "" {
		input.EventType = entity.EventMeetup
	}
	candidate := web.Event{
		ID:          uuid.NewString(),
		WorldID:     world.ID,
		EventType:   input.EventType,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		RiverID:     input.RiverID,
		TicketPrice: input.TicketPrice,
		CreatedAt:   s.now().UTC(),
	}
	if err := validate(&candidate); err != nil {
		return nil, err
	}

	event := fromWeb(candidate)
	if err := s.repo.Insert(ctx, event); err != nil {
		return nil, err
	}
	event.World = world

	return event, nil
}

func (s *EventService) owned(ctx context.Context, userID, id string) (*model.WorldEvent, error) {
	event, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.World == nil {
		return nil, ErrWorldGone
	}
	if event.World.UserID != userID {
		return nil, ErrPermission
	}
	return event, nil
}

func (s *EventService) Update(ctx context.Context, userID, id string, patch web.EventPatch) (*model.WorldEvent, error) {
	current, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	merged := ToWeb(current)
	patch.ApplyTo(&merged)
	merged.Title = strings.TrimSpace(merged.Title)
	if err := validate(&merged); err != nil {
		return nil, err
	}

	event := fromWeb(merged)
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}
	event.World = current.World

	return event, nil
}

func (s *EventService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func toTimePtr(t bun.NullTime) *time.Time {
	if t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

func toNullTime(t *time.Time) bun.NullTime {
	if t == nil {
		return bun.NullTime{}
	}
	return bun.NullTime{Time: t.UTC()}
}

func ToWeb(e *model.WorldEvent) web.Event {
	result := web.Event{
		ID:          e.ID,
		WorldID:     e.WorldID,
		EventType:   e.EventType,
		Title:       e.Title,
		Description: e.Description,
		StartTime:   toTimePtr(e.StartTime),
		EndTime:     toTimePtr(e.EndTime),
		RiverID:     e.RiverID,
		TicketPrice: e.TicketPrice,
		CreatedAt:   e.CreatedAt,
	}
	if e.World != nil {
		result.World = &web.EventWorld{
			Title:  e.World.Title,
			UserID: e.World.UserID,
		}
	}
	return result
}

func ToWebList(events []model.WorldEvent) []web.Event {
	result := make([]web.Event, 0, len(events))
	for i := range events {
		result = append(result, ToWeb(&events[i]))
	}
	return result
}

func fromWeb(e web.Event) *model.WorldEvent {
	return &model.WorldEvent{
		ID:          e.ID,
		WorldID:     e.WorldID,
		EventType:   e.EventType,
		Title:       e.Title,
		Description: e.Description,
		StartTime:   toNullTime(e.StartTime),
		EndTime:     toNullTime(e.EndTime),
		RiverID:     e.RiverID,
		TicketPrice: e.TicketPrice,
		CreatedAt:   e.CreatedAt,
	}
}
