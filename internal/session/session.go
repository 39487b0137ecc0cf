// Package session holds the active Last.fm username and UI theme, backed
// by the preference store.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aquafemi/libi/internal/store"
)

// Theme is the colour scheme used by the terminal UI.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ErrBlankUsername is returned when setting an empty username.
var ErrBlankUsername = errors.New("username is required")

// ParseTheme converts a string to a Theme.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	}
	return "", fmt.Errorf("unknown theme %q (want dark or light)", s)
}

// Prefs is the subset of the store a Session needs.
type Prefs interface {
	GetPref(ctx context.Context, key string) (string, bool, error)
	SetPref(ctx context.Context, key, value string) error
	DeletePref(ctx context.Context, key string) error
}

// Session is the current user and theme. Changes are written through to
// the store and announced to observers. It is safe for concurrent use.
type Session struct {
	mu        sync.RWMutex
	prefs     Prefs
	username  string
	theme     Theme
	observers []func(username string, theme Theme)
}

// Load reads the saved username and theme. A missing or unknown theme
// falls back to dark.
func Load(ctx context.Context, prefs Prefs) (*Session, error) {
	s := &Session{prefs: prefs, theme: ThemeDark}

	username, _, err := prefs.GetPref(ctx, store.KeyUsername)
	if err != nil {
		return nil, err
	}
	s.username = username

	theme, ok, err := prefs.GetPref(ctx, store.KeyTheme)
	if err != nil {
		return nil, err
	}
	if ok {
		if t, err := ParseTheme(theme); err == nil {
			s.theme = t
		}
	}

	return s, nil
}

// Username returns the active username, or "" when none is set.
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// Theme returns the active theme.
func (s *Session) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// OnChange registers fn to be called after the username or theme changes.
func (s *Session) OnChange(fn func(username string, theme Theme)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// SetUsername trims and saves name as the active username.
func (s *Session) SetUsername(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrBlankUsername
	}
	if err := s.prefs.SetPref(ctx, store.KeyUsername, name); err != nil {
		return fmt.Errorf("failed to save username: %w", err)
	}

	s.mu.Lock()
	s.username = name
	s.mu.Unlock()
	s.notify()
	return nil
}

// SetTheme saves theme as the active theme.
func (s *Session) SetTheme(ctx context.Context, theme Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}
	if err := s.prefs.SetPref(ctx, store.KeyTheme, string(theme)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}

	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()
	s.notify()
	return nil
}

// ToggleTheme switches between dark and light and returns the new theme.
func (s *Session) ToggleTheme(ctx context.Context) (Theme, error) {
	next := ThemeLight
	if s.Theme() == ThemeLight {
		next = ThemeDark
	}
	if err := s.SetTheme(ctx, next); err != nil {
		return s.Theme(), err
	}
	return next, nil
}

// Clear forgets the saved username. The theme is kept.
func (s *Session) Clear(ctx context.Context) error {
	if err := s.prefs.DeletePref(ctx, store.KeyUsername); err != nil {
		return fmt.Errorf("failed to clear username: %w", err)
	}

	s.mu.Lock()
	s.username = ""
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Session) notify() {
	s.mu.RLock()
	username, theme := s.username, s.theme
	observers := make([]func(string, Theme), len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	for _, fn := range observers {
		fn(username, theme)
	}
}
