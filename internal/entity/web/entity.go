package web

import (
	"time"

	"github.com/aiuniverse/universe/internal/entity"
)

type ErrorResponse struct {
	Success   bool             `json:"success"`
	ErrorCode entity.ErrorCode `json:"errorCode"`
	Message   string           `json:"message,omitempty"`
}

type SuccessfulResponse[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

type PasswordCredential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

type ResetPasswordRequest struct {
	Email string `json:"email"`
}

type User struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	AvatarURL string      `json:"avatarUrl"`
	Plan      entity.Plan `json:"plan"`
	CreatedAt time.Time   `json:"createdAt"`
}

type SessionData struct {
	LoggedIn    bool   `json:"loggedIn"`
	AccessToken string `json:"accessToken,omitempty"`
	User        *User  `json:"user,omitempty"`
}

type ProfileUpdate struct {
	Name      *string      `json:"name,omitempty"`
	AvatarURL *string      `json:"avatarUrl,omitempty"`
	Plan      *entity.Plan `json:"plan,omitempty"`
}
