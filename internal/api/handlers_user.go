package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/parleyhq/parley/internal/api/respond"
	"github.com/parleyhq/parley/internal/api/validate"
	"github.com/parleyhq/parley/internal/model"
	"github.com/parleyhq/parley/internal/store"
)

// UserHandler provisions and looks up accounts. Login requires a
// pre-existing user, so provisioning is the operator's entry point
// (parleyctl uses it).
type UserHandler struct {
	users store.Users
}

func NewUserHandler(users store.Users) *UserHandler { return &UserHandler{users: users} }

// CreateUser handles POST /api/users.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid_json")
		return
	}
	username, err := validate.Username(in.UserID)
	if err != nil {
		respond.WriteBadRequest(w, "username_required")
		return
	}

	if _, err := h.users.Get(r.Context(), username); err == nil {
		respond.WriteError(w, http.StatusConflict, "user_exists")
		return
	} else if !errors.Is(err, model.ErrNotFound) {
		log.Error().Stack().Err(err).Msg("user lookup failed")
		respond.WriteInternalError(w, "user_failure")
		return
	}

	out, err := h.users.Create(r.Context(), &model.User{ID: username})
	if err != nil {
		log.Error().Stack().Err(err).Msg("user create failed")
		respond.WriteInternalError(w, "user_failure")
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// GetUser handles GET /api/users/{userId}.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	u, err := h.users.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "user_not_found")
			return
		}
		log.Error().Stack().Err(err).Msg("user lookup failed")
		respond.WriteInternalError(w, "user_failure")
		return
	}
	respond.WriteJSON(w, http.StatusOK, u)
}
