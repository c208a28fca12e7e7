package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/parleyhq/parley/internal/api/respond"
	"github.com/parleyhq/parley/internal/api/validate"
	"github.com/parleyhq/parley/internal/auth"
	"github.com/parleyhq/parley/internal/chat"
	"github.com/parleyhq/parley/internal/event"
	"github.com/parleyhq/parley/internal/model"
)

// HistoryHandler serves the session-history read API.
type HistoryHandler struct {
	recon   *chat.Reconciler
	cookies *auth.Manager
}

func NewHistoryHandler(recon *chat.Reconciler, cookies *auth.Manager) *HistoryHandler {
	return &HistoryHandler{recon: recon, cookies: cookies}
}

// GetHistory handles GET /api/session-history?sessionId=<id>.
// Both an absent session and a session owned by another user answer 404 so
// the endpoint never confirms foreign session ids exist.
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.cookies.ReadIdentity(r.Context(), r)
	if !ok {
		respond.WriteUnauthorized(w, "authentication_required")
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	if err := validate.NonEmpty("sessionId", sessionID); err != nil {
		respond.WriteBadRequest(w, "session_id_required")
		return
	}

	evs, err := h.recon.History(r.Context(), userID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrAccessDenied):
			respond.WriteNotFound(w, "session_not_found")
		default:
			log.Error().Stack().Err(err).Str("session_id", sessionID).Msg("history fetch failed")
			respond.WriteInternalError(w, "history_failure")
		}
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string][]event.Event{"events": evs})
}
