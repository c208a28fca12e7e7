package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/parleyhq/parley/internal/api/respond"
	"github.com/parleyhq/parley/internal/api/validate"
	"github.com/parleyhq/parley/internal/auth"
	"github.com/parleyhq/parley/internal/model"
	"github.com/parleyhq/parley/internal/store"
)

// AuthHandler serves login and logout.
type AuthHandler struct {
	users   store.Users
	cookies *auth.Manager
}

func NewAuthHandler(users store.Users, cookies *auth.Manager) *AuthHandler {
	return &AuthHandler{users: users, cookies: cookies}
}

// Login handles POST /api/login. The username arrives as a form field or a
// JSON body. The user must already exist; login never provisions.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username, err := validate.Username(h.usernameFromRequest(r))
	if err != nil {
		respond.WriteBadRequest(w, "username_required")
		return
	}

	if _, err := h.users.Get(r.Context(), username); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "user_not_found")
			return
		}
		log.Error().Stack().Err(err).Msg("login lookup failed")
		respond.WriteInternalError(w, "login_failure")
		return
	}

	h.cookies.WriteIdentity(w, username)
	respond.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout handles POST /api/logout; it clears the identity unconditionally.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.ClearIdentity(w)
	respond.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) usernameFromRequest(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		var in struct {
			Username string `json:"username"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err == nil {
			return in.Username
		}
		return ""
	}
	if err := r.ParseForm(); err != nil {
		return ""
	}
	return r.FormValue("username")
}
