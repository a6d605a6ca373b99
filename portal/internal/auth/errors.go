package auth

import (
	"errors"
	"strings"
)

var (
	ErrCredential   = errors.New("invalid login credentials")
	ErrDupEmail     = errors.New("user already registered")
	ErrPasswordRule = errors.New("password should be at least 6 characters")
	ErrInvalidEmail = errors.New("unable to validate email address: invalid format")
	ErrRequiresAuth = errors.New("auth session missing")
	ErrNotFound     = errors.New("user not found")
	ErrBadInput     = errors.New("invalid input")
)

var translations = []struct {
	keyword string
	message string
}{
	{"invalid login credentials", "Invalid email or password"},
	{"already registered", "An account with this email already exists"},
	{"password", "Password must be at least 6 characters"},
	{"email", "Please enter a valid email address"},
	{"auth session missing", "Please sign in to continue"},
}

// TranslateError turns an authentication failure into a message fit for end users.
// Unknown messages are returned unchanged.
func TranslateError(message string) string {
	lower := strings.ToLower(message)
	for _, t := range translations {
		if strings.Contains(lower, t.keyword) {
			return t.message
		}
	}
	return message
}
