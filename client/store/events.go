package store

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/aiuniverse/universe/client/api"
	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/internal/entity/web"
)

const (
	msgLoadEvents         = "Failed to load events. Please try again."
	msgNoEventPermission  = "You do not have permission to create events in this world."
	msgWorldUnavailable   = "The selected world is no longer available."
	msgCreateEvent        = "Failed to create event. Please try again."
	msgCreateEventOffline = "Failed to create event. Please check your connection and try again."
	msgUpdateEvent        = "Failed to update event. Please try again."
	msgDeleteEvent        = "Failed to delete event. Please try again."
)

type EventState struct {
	Events  []web.Event
	Loading bool
	Error   string
}

type EventStore struct {
	notifier
	api EventAPI

	mu    sync.Mutex
	state EventState
}

func NewEventStore(api EventAPI) *EventStore {
	return &EventStore{
		api: api,
	}
}

func (s *EventStore) State() EventState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state
	state.Events = slices.Clone(state.Events)
	return state
}

func (s *EventStore) set(fn func(state *EventState)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
	s.notify()
}

func (s *EventStore) start() {
	s.set(func(state *EventState) {
		state.Loading = true
		state.Error = ""
	})
}

func (s *EventStore) fail(err error, message string) error {
	slog.Debug("Event request failed", slog.Any("error", err))
	s.set(func(state *EventState) {
		state.Loading = false
		state.Error = message
	})
	return errors.New(message)
}

// createEventMessage maps a failed create to what the user is shown.
func createEventMessage(err error) string {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		return msgCreateEventOffline
	}
	switch apiErr.Code {
	case entity.ErrPermission:
		return msgNoEventPermission
	case entity.ErrWorldGone:
		return msgWorldUnavailable
	}
	return msgCreateEvent
}

// FetchEvents loads one world's events, or every event when worldID is empty.
func (s *EventStore) FetchEvents(ctx context.Context, worldID string) error {
	s.start()

	events, err := s.api.ListEvents(ctx, worldID)
	if err != nil {
		return s.fail(err, msgLoadEvents)
	}

	s.set(func(state *EventState) {
		state.Events = events
		state.Loading = false
	})
	return nil
}

func (s *EventStore) CreateEvent(ctx context.Context, input web.EventInput) (*web.Event, error) {
	s.start()

	event, err := s.api.CreateEvent(ctx, input)
	if err != nil {
		return nil, s.fail(err, createEventMessage(err))
	}

	s.set(func(state *EventState) {
		state.Events = append([]web.Event{*event}, state.Events...)
		state.Loading = false
	})
	return event, nil
}

func (s *EventStore) UpdateEvent(ctx context.Context, id string, patch web.EventPatch) error {
	s.start()

	if _, err := s.api.UpdateEvent(ctx, id, patch); err != nil {
		return s.fail(err, msgUpdateEvent)
	}

	s.set(func(state *EventState) {
		for i := range state.Events {
			if state.Events[i].ID == id {
				patch.ApplyTo(&state.Events[i])
			}
		}
		state.Loading = false
	})
	return nil
}

func (s *EventStore) DeleteEvent(ctx context.Context, id string) error {
	s.start()

	if err := s.api.DeleteEvent(ctx, id); err != nil {
		return s.fail(err, msgDeleteEvent)
	}

	s.set(func(state *EventState) {
		state.Events = slices.DeleteFunc(state.Events, func(e web.Event) bool {
			return e.ID == id
		})
		state.Loading = false
	})
	return nil
}

func (s *EventStore) ClearError() {
	s.set(func(state *EventState) {
		state.Error = ""
	})
}
