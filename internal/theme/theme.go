// Package theme reads and writes the visual theme preference.
package theme

import (
	"context"
	"errors"
	"fmt"

	"tasklist/internal/kv"
	"tasklist/internal/models"
	"tasklist/internal/store"
)

// Key is the key the theme preference is stored under.
const Key = "theme"

// ErrUnknownTheme is returned by Set for a theme that is not supported.
var ErrUnknownTheme = errors.New("unknown theme")

// Service manages the theme preference. It shares the key-value store with
// the task snapshot but is otherwise independent of it.
type Service struct {
	kv kv.Store
}

// New creates a Service backed by store.
func New(store kv.Store) *Service {
	return &Service{kv: store}
}

// Current returns the stored theme. Absent or unsupported values resolve to
// the default theme. A read failure also returns the default, with a
// *store.PersistenceError.
func (s *Service) Current(ctx context.Context) (models.Theme, error) {
	value, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		return models.DefaultTheme, &store.PersistenceError{Op: "load", Key: Key, Err: err}
	}
	if !ok {
		return models.DefaultTheme, nil
	}
	return models.Theme(value).OrDefault(), nil
}

// Set stores t. The theme is returned even if it could not be persisted, so
// the caller can still apply it for the session.
func (s *Service) Set(ctx context.Context, t models.Theme) (models.Theme, error) {
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, t)
	}
	if err := s.kv.Set(ctx, Key, string(t)); err != nil {
		return t, &store.PersistenceError{Op: "save", Key: Key, Err: err}
	}
	return t, nil
}

// Reset removes the stored preference so Current falls back to the default.
// The default is returned even if the preference could not be removed.
func (s *Service) Reset(ctx context.Context) (models.Theme, error) {
	if err := s.kv.Delete(ctx, Key); err != nil {
		return models.DefaultTheme, &store.PersistenceError{Op: "delete", Key: Key, Err: err}
	}
	return models.DefaultTheme, nil
}

// ToggleDark switches to light when the current theme is dark and to dark otherwise.
func (s *Service) ToggleDark(ctx context.Context) (models.Theme, error) {
	current, err := s.Current(ctx)
	if err != nil && !errors.Is(err, store.ErrPersistence) {
		return current, err
	}

	next := models.ThemeDark
	if current == models.ThemeDark {
		next = models.ThemeLight
	}
	return s.Set(ctx, next)
}
