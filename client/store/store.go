package store

//go:generate go tool mockgen -destination store_mock.go -package store . AuthAPI,WorldAPI,EventAPI,ChatConn

import (
	"context"
	"errors"
	"sync"

	"github.com/aiuniverse/universe/client/api"
	"github.com/aiuniverse/universe/internal/entity/web"
)

type AuthAPI interface {
	SignUp(ctx context.Context, req web.SignUpRequest) (*web.SessionData, error)
	SignIn(ctx context.Context, email, password string) (*web.SessionData, error)
	SignOut(ctx context.Context) error
	Session(ctx context.Context) (*web.SessionData, error)
	UpdateProfile(ctx context.Context, update web.ProfileUpdate) (*web.User, error)
	ResetPassword(ctx context.Context, email string) error
	SetToken(token string)
}

type WorldAPI interface {
	ListWorlds(ctx context.Context, mine bool) ([]web.World, error)
	GetWorldBySlug(ctx context.Context, slug string) (*web.World, error)
	CreateWorld(ctx context.Context, input web.WorldInput) (*web.World, error)
	UpdateWorld(ctx context.Context, id string, patch web.WorldPatch) (*web.World, error)
	DeleteWorld(ctx context.Context, id string) error
}

type EventAPI interface {
	ListEvents(ctx context.Context, worldID string) ([]web.Event, error)
	CreateEvent(ctx context.Context, input web.EventInput) (*web.Event, error)
	UpdateEvent(ctx context.Context, id string, patch web.EventPatch) (*web.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

var (
	_ AuthAPI  = (*api.Client)(nil)
	_ WorldAPI = (*api.Client)(nil)
	_ EventAPI = (*api.Client)(nil)
)

// notifier calls the subscribed listeners after each state change.
type notifier struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func()
}

// Subscribe registers fn and returns a function removing it again.
func (n *notifier) Subscribe(fn func()) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.listeners == nil {
		n.listeners = make(map[int]func())
	}
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}

func (n *notifier) notify() {
	n.mu.Lock()
	listeners := make([]func(), 0, len(n.listeners))
	for _, fn := range n.listeners {
		listeners = append(listeners, fn)
	}
	n.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// messageOf returns the message the portal reported, or fallback for any other failure.
func messageOf(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
