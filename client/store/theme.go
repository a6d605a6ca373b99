package store

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

var ErrInvalidTheme = errors.New("theme must be light, dark or system")

func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// DetectSystemTheme reads AIU_THEME, then the terminal's COLORFGBG, and falls back to light.
func DetectSystemTheme() Theme {
	switch Theme(strings.ToLower(os.Getenv("AIU_THEME"))) {
	case ThemeDark:
		return ThemeDark
	case ThemeLight:
		return ThemeLight
	}

	// COLORFGBG is "fg;bg" or "fg;default;bg".
	if value := os.Getenv("COLORFGBG"); value != "" {
		parts := strings.Split(value, ";")
		if bg, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			if bg <= 6 || bg == 8 {
				return ThemeDark
			}
			return ThemeLight
		}
	}

	return ThemeLight
}

type ThemeStore struct {
	notifier
	persister Persister
	detect    func() Theme

	mu     sync.Mutex
	theme  Theme
	actual Theme
}

// NewThemeStore starts from the persisted theme when there is one, system otherwise.
func NewThemeStore(persister Persister) *ThemeStore {
	s := &ThemeStore{
		persister: persister,
		detect:    DetectSystemTheme,
		theme:     ThemeSystem,
	}

	if persister != nil {
		state, err := persister.Load()
		if err != nil {
			slog.Warn("Failed to load persisted theme", slog.Any("error", err))
		} else if state.Theme.Valid() {
			s.theme = state.Theme
		}
	}
	s.actual = s.resolve(s.theme)

	return s
}

func (s *ThemeStore) resolve(theme Theme) Theme {
	if theme == ThemeSystem {
		return s.detect()
	}
	return theme
}

func (s *ThemeStore) Theme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// ActualTheme is the theme in effect, never system.
func (s *ThemeStore) ActualTheme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actual
}

func (s *ThemeStore) SetTheme(theme Theme) error {
	if !theme.Valid() {
		return ErrInvalidTheme
	}

	s.mu.Lock()
	s.theme = theme
	s.actual = s.resolve(theme)
	s.mu.Unlock()
	s.notify()

	if s.persister == nil {
		return nil
	}
	return s.persister.Update(func(state *State) {
		state.Theme = theme
	})
}

// Refresh re-reads the system preference when following it.
func (s *ThemeStore) Refresh() {
	s.mu.Lock()
	changed := false
	if s.theme == ThemeSystem {
		actual := s.detect()
		changed = actual != s.actual
		s.actual = actual
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}
