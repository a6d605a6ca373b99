package auth

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/aiuniverse/universe/portal/internal/db/model"
	"github.com/aiuniverse/universe/portal/internal/kvs"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/bcrypt"
)

type Scope string

const (
	ScopeUser  Scope = "user"
	ScopeAdmin Scope = "admin"
)

const (
	tokenTTL          = 30 * 24 * time.Hour
	minPasswordLength = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Token struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userID"`
	Scopes    []Scope   `json:"scopes"`
	CreatedAt time.Time `json:"createdAt"`
}

func (t *Token) HasScope(scope Scope) bool {
	for _, s := range t.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

type AuthService struct {
	kvs   kvs.KeyValueStore
	users UserRepository
	now   func() time.Time
}

func New(kvs kvs.KeyValueStore, users UserRepository) *AuthService {
	return &AuthService{
		kvs:   kvs,
		users: users,
		now:   time.Now,
	}
}

func IsAllowedPassword(password string) bool {
	return len(password) >= minPasswordLength
}

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (a *AuthService) CreateToken(ctx context.Context, userID string, scopes []Scope) (*Token, error) {
	token := &Token{
		Token:     base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(securecookie.GenerateRandomKey(32)),
		UserID:    userID,
		Scopes:    scopes,
		CreatedAt: a.now(),
	}

	if err := a.kvs.Set(ctx, "token:"+token.Token, token, tokenTTL); err != nil {
		return nil, err
	}

	return token, nil
}

func (a *AuthService) Get(ctx context.Context, token string) (*Token, error) {
	if token == "" {
		return nil, ErrRequiresAuth
	}

	var t Token
	if err := a.kvs.Get(ctx, "token:"+token, &t); err != nil {
		if errors.Is(err, kvs.ErrNotFound) {
			return nil, ErrRequiresAuth
		}
		return nil, err
	}

	return &t, nil
}

func (a *AuthService) RevokeToken(ctx context.Context, token string) error {
	return a.kvs.Del(ctx, "token:"+token)
}

// GetFromRequest resolves the bearer token carried in the Authorization header.
func (a *AuthService) GetFromRequest(ctx context.Context, r *http.Request) (*Token, error) {
	return a.Get(ctx, BearerToken(r))
}

func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func scopesFor(account *model.Account) []Scope {
	if account.Admin {
		return []Scope{ScopeUser, ScopeAdmin}
	}
	return []Scope{ScopeUser}
}

func (a *AuthService) SignUp(ctx context.Context, req web.SignUpRequest) (*model.User, *Token, error) {
	email := NormalizeEmail(req.Email)
	if !IsValidEmail(email) {
		return nil, nil, ErrInvalidEmail
	}
	if !IsAllowedPassword(req.Password) {
		return nil, nil, ErrPasswordRule
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	now := a.now().UTC()
	account := &model.Account{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  hashed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	user := &model.User{
		ID:        account.ID,
		Email:     email,
		Name:      strings.TrimSpace(req.Name),
		AvatarURL: strings.TrimSpace(req.AvatarURL),
		Plan:      entity.PlanFree,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.users.InsertUser(ctx, account, user); err != nil {
		return nil, nil, err
	}

	token, err := a.CreateToken(ctx, account.ID, scopesFor(account))
	if err != nil {
		return nil, nil, err
	}

	return user, token, nil
}

func (a *AuthService) SignIn(ctx context.Context, email, password string) (*model.User, *Token, error) {
	account, err := a.users.FindAccountByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrCredential
		}
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)) != nil {
		return nil, nil, ErrCredential
	}

	user, err := a.ensureProfile(ctx, account)
	if err != nil {
		return nil, nil, err
	}

	token, err := a.CreateToken(ctx, account.ID, scopesFor(account))
	if err != nil {
		return nil, nil, err
	}

	return user, token, nil
}

// ensureProfile creates the profile row for accounts which never got one,
// e.g. accounts added from the admin CLI.
func (a *AuthService) ensureProfile(ctx context.Context, account *model.Account) (*model.User, error) {
	user, err := a.users.FindProfile(ctx, account.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := a.now().UTC()
	user = &model.User{
		ID:        account.ID,
		Email:     account.Email,
		Plan:      entity.PlanFree,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.users.InsertProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("create missing profile: %w", err)
	}
	slog.Info("Created missing profile", slog.String("user_id", account.ID))

	return user, nil
}

func (a *AuthService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return a.RevokeToken(ctx, token)
}

// Session returns the user owning token.
func (a *AuthService) Session(ctx context.Context, token string) (*model.User, *Token, error) {
	t, err := a.Get(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	user, err := a.users.FindProfile(ctx, t.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrRequiresAuth
		}
		return nil, nil, err
	}

	return user, t, nil
}

func (a *AuthService) UpdateProfile(ctx context.Context, userID string, update web.ProfileUpdate) (*model.User, error) {
	user, err := a.users.FindProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = strings.TrimSpace(*update.Name)
	}
	if update.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*update.AvatarURL)
	}
	if update.Plan != nil {
		if !update.Plan.Valid() {
			return nil, fmt.Errorf("%w: unknown plan %q", ErrBadInput, *update.Plan)
		}
		user.Plan = *update.Plan
	}
	user.UpdatedAt = a.now().UTC()

	if err := a.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (a *AuthService) ResetPassword(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if !IsValidEmail(email) {
		return ErrInvalidEmail
	}
	// No mail transport is configured; the request is acknowledged without revealing whether the account exists.
	slog.Info("Password reset requested", slog.String("email", email))
	return nil
}

func ToWeb(user *model.User) web.User {
	return web.User{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Plan:      user.Plan,
		CreatedAt: user.CreatedAt,
	}
}
