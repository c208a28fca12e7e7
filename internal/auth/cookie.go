// Package auth manages the credential cookie: the sole authentication
// mechanism is a cookie whose value is the username, validated against the
// user store on every read.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/parleyhq/parley/internal/model"
	"github.com/parleyhq/parley/internal/store"
)

const (
	// CookieName is the identity cookie name.
	CookieName = "username"

	// CookieMaxAge is the identity lifetime in seconds (one hour).
	CookieMaxAge = 3600
)

// Manager reads, writes and clears the identity cookie.
type Manager struct {
	users  store.Users
	secure bool
}

// NewManager creates a cookie manager. secure marks the cookie
// secure-transport-only and should be set in production deployments.
func NewManager(users store.Users, secure bool) *Manager {
	return &Manager{users: users, secure: secure}
}

// ReadIdentity returns the authenticated username from the request cookie.
// A missing cookie, an unknown user, or a store failure all yield
// ("", false); store failures are logged, never propagated.
func (m *Manager) ReadIdentity(ctx context.Context, r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	if _, err := m.users.Get(ctx, c.Value); err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			log.Error().Err(err).Msg("identity lookup failed")
		}
		return "", false
	}
	return c.Value, true
}

// WriteIdentity sets the identity cookie for the whole site, script-inaccessible,
// with a one hour lifetime.
func (m *Manager) WriteIdentity(w http.ResponseWriter, username string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    username,
		Path:     "/",
		MaxAge:   CookieMaxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearIdentity removes the identity cookie for the whole site.
func (m *Manager) ClearIdentity(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
