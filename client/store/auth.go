package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aiuniverse/universe/client/api"
	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/internal/entity/web"
)

var ErrNoUser = errors.New("No user logged in")

const unexpectedError = "An unexpected error occurred"

type AuthState struct {
	User    *web.User
	Token   string
	Loading bool
	Error   string
}

type AuthStore struct {
	notifier
	api       AuthAPI
	persister Persister

	mu    sync.Mutex
	state AuthState
}

// NewAuthStore starts in the loading state until Restore resolves the persisted session.
func NewAuthStore(api AuthAPI, persister Persister) *AuthStore {
	return &AuthStore{
		api:       api,
		persister: persister,
		state: AuthState{
			Loading: true,
		},
	}
}

func (s *AuthStore) State() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state
	if state.User != nil {
		u := *state.User
		state.User = &u
	}
	return state
}

func (s *AuthStore) set(fn func(state *AuthState)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
	s.notify()
}

func (s *AuthStore) start() {
	s.set(func(state *AuthState) {
		state.Loading = true
		state.Error = ""
	})
}

func (s *AuthStore) fail(err error, fallback string) error {
	message := messageOf(err, fallback)
	s.set(func(state *AuthState) {
		state.Loading = false
		state.Error = message
	})
	return errors.New(message)
}

func (s *AuthStore) save(session *web.SessionData) {
	if s.persister == nil {
		return
	}
	if err := s.persister.Update(func(state *State) {
		state.Session = session
	}); err != nil {
		slog.Warn("Failed to persist session", slog.Any("error", err))
	}
}

func (s *AuthStore) apply(session *web.SessionData) {
	if session == nil || !session.LoggedIn {
		s.api.SetToken("")
		s.set(func(state *AuthState) {
			state.User = nil
			state.Token = ""
			state.Loading = false
		})
		s.save(nil)
		return
	}

	s.api.SetToken(session.AccessToken)
	s.set(func(state *AuthState) {
		state.User = session.User
		state.Token = session.AccessToken
		state.Loading = false
		state.Error = ""
	})
	s.save(session)
}

// Restore reloads the persisted session and asks the portal whether it is still valid.
func (s *AuthStore) Restore(ctx context.Context) error {
	s.start()

	var persisted State
	if s.persister != nil {
		var err error
		persisted, err = s.persister.Load()
		if err != nil {
			slog.Warn("Failed to load persisted state", slog.Any("error", err))
		}
	}
	if persisted.Session == nil || persisted.Session.AccessToken == "" {
		s.apply(nil)
		return nil
	}

	s.api.SetToken(persisted.Session.AccessToken)
	session, err := s.api.Session(ctx)
	if err != nil {
		if api.IsCode(err, entity.ErrRequiresAuth) {
			s.apply(nil)
			return s.fail(err, "Authentication error")
		}

		// The portal could not be asked; keep the session for the next attempt.
		s.set(func(state *AuthState) {
			state.User = persisted.Session.User
			state.Token = persisted.Session.AccessToken
		})
		return s.fail(err, "Authentication error")
	}
	if session.LoggedIn && session.AccessToken == "" {
		session.AccessToken = persisted.Session.AccessToken
	}
	s.apply(session)

	return nil
}

func (s *AuthStore) SignIn(ctx context.Context, email, password string) error {
	s.start()

	session, err := s.api.SignIn(ctx, email, password)
	if err != nil {
		s.set(func(state *AuthState) {
			state.User = nil
		})
		return s.fail(err, unexpectedError)
	}

	s.apply(session)
	return nil
}

func (s *AuthStore) SignUp(ctx context.Context, email, password, name, avatarURL string) error {
	s.start()

	session, err := s.api.SignUp(ctx, web.SignUpRequest{
		Email:     email,
		Password:  password,
		Name:      name,
		AvatarURL: avatarURL,
	})
	if err != nil {
		return s.fail(err, unexpectedError)
	}

	s.apply(session)
	return nil
}

func (s *AuthStore) SignOut(ctx context.Context) error {
	s.start()

	if err := s.api.SignOut(ctx); err != nil {
		return s.fail(err, "Failed to sign out")
	}

	s.apply(nil)
	return nil
}

func (s *AuthStore) UpdateProfile(ctx context.Context, update web.ProfileUpdate) error {
	if s.State().User == nil {
		return ErrNoUser
	}

	s.start()

	user, err := s.api.UpdateProfile(ctx, update)
	if err != nil {
		return s.fail(err, "Failed to update profile")
	}

	s.set(func(state *AuthState) {
		state.User = user
		state.Loading = false
	})
	if token := s.State().Token; token != "" {
		s.save(&web.SessionData{LoggedIn: true, AccessToken: token, User: user})
	}

	return nil
}

func (s *AuthStore) ResetPassword(ctx context.Context, email string) error {
	s.start()

	if err := s.api.ResetPassword(ctx, email); err != nil {
		return s.fail(err, "Failed to send reset email")
	}

	s.set(func(state *AuthState) {
		state.Loading = false
	})
	return nil
}

func (s *AuthStore) ClearError() {
	s.set(func(state *AuthState) {
		state.Error = ""
	})
}

// IsAuthError reports whether err means the session is gone.
func IsAuthError(err error) bool {
	return api.IsCode(err, entity.ErrRequiresAuth)
}
