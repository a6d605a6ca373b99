package store

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/aiuniverse/universe/internal/entity/web"
)

type WorldState struct {
	Worlds       []web.World
	CurrentWorld *web.World
	Loading      bool
	Error        string
}

type WorldStore struct {
	notifier
	api WorldAPI

	mu    sync.Mutex
	state WorldState
}

func NewWorldStore(api WorldAPI) *WorldStore {
	return &WorldStore{
		api: api,
	}
}

func (s *WorldStore) State() WorldState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state
	state.Worlds = slices.Clone(state.Worlds)
	if state.CurrentWorld != nil {
		w := *state.CurrentWorld
		state.CurrentWorld = &w
	}
	return state
}

func (s *WorldStore) set(fn func(state *WorldState)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
	s.notify()
}

func (s *WorldStore) start() {
	s.set(func(state *WorldState) {
		state.Loading = true
		state.Error = ""
	})
}

func (s *WorldStore) fail(err error, fallback string) error {
	message := messageOf(err, fallback)
	s.set(func(state *WorldState) {
		state.Loading = false
		state.Error = message
	})
	return errors.New(message)
}

// FetchWorlds loads the signed-in user's worlds when mine is set, public worlds otherwise.
func (s *WorldStore) FetchWorlds(ctx context.Context, mine bool) error {
	s.start()

	worlds, err := s.api.ListWorlds(ctx, mine)
	if err != nil {
		return s.fail(err, "Failed to fetch worlds")
	}

	s.set(func(state *WorldState) {
		state.Worlds = worlds
		state.Loading = false
	})
	return nil
}

func (s *WorldStore) FetchWorld(ctx context.Context, slug string) error {
	s.start()

	world, err := s.api.GetWorldBySlug(ctx, slug)
	if err != nil {
		return s.fail(err, "Failed to fetch world")
	}

	s.set(func(state *WorldState) {
		state.CurrentWorld = world
		state.Loading = false
	})
	return nil
}

// CreateWorld prepends the new world and makes it current.
func (s *WorldStore) CreateWorld(ctx context.Context, input web.WorldInput) (*web.World, error) {
	s.start()

	world, err := s.api.CreateWorld(ctx, input)
	if err != nil {
		return nil, s.fail(err, "Failed to create world")
	}

	s.set(func(state *WorldState) {
		state.Worlds = append([]web.World{*world}, state.Worlds...)
		current := *world
		state.CurrentWorld = &current
		state.Loading = false
	})
	return world, nil
}

// UpdateWorld replaces the list entry and the current world with what the portal stored.
func (s *WorldStore) UpdateWorld(ctx context.Context, id string, patch web.WorldPatch) (*web.World, error) {
	s.start()

	world, err := s.api.UpdateWorld(ctx, id, patch)
	if err != nil {
		return nil, s.fail(err, "Failed to update world")
	}

	s.set(func(state *WorldState) {
		for i := range state.Worlds {
			if state.Worlds[i].ID == world.ID {
				state.Worlds[i] = *world
			}
		}
		if state.CurrentWorld != nil && state.CurrentWorld.ID == world.ID {
			current := *world
			state.CurrentWorld = &current
		}
		state.Loading = false
	})
	return world, nil
}

func (s *WorldStore) DeleteWorld(ctx context.Context, id string) error {
	s.start()

	if err := s.api.DeleteWorld(ctx, id); err != nil {
		return s.fail(err, "Failed to delete world")
	}

	s.set(func(state *WorldState) {
		state.Worlds = slices.DeleteFunc(state.Worlds, func(w web.World) bool {
			return w.ID == id
		})
		if state.CurrentWorld != nil && state.CurrentWorld.ID == id {
			state.CurrentWorld = nil
		}
		state.Loading = false
	})
	return nil
}

func (s *WorldStore) SetCurrentWorld(world *web.World) {
	s.set(func(state *WorldState) {
		if world == nil {
			state.CurrentWorld = nil
			return
		}
		current := *world
		state.CurrentWorld = &current
	})
}

func (s *WorldStore) ClearError() {
	s.set(func(state *WorldState) {
		state.Error = ""
	})
}
