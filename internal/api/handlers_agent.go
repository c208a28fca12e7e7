package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/parleyhq/parley/internal/api/respond"
	"github.com/parleyhq/parley/internal/auth"
	"github.com/parleyhq/parley/internal/chat"
	"github.com/parleyhq/parley/internal/model"
)

// AgentHandler serves the message-exchange endpoint.
type AgentHandler struct {
	recon   *chat.Reconciler
	cookies *auth.Manager
}

func NewAgentHandler(recon *chat.Reconciler, cookies *auth.Manager) *AgentHandler {
	return &AgentHandler{recon: recon, cookies: cookies}
}

// PostMessage handles POST /api/agent.
// Body validation runs before any session or runtime work; the identity
// check follows so malformed requests never touch the store.
func (h *AgentHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respond.WriteBadRequest(w, "unreadable_body")
		return
	}
	if len(body) == 0 {
		respond.WriteBadRequest(w, "empty_request_body")
		return
	}

	var req struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		respond.WriteBadRequest(w, "invalid_json")
		return
	}
	if len(req.Message) == 0 || string(req.Message) == "null" {
		respond.WriteBadRequest(w, "message_required")
		return
	}

	userID, ok := h.cookies.ReadIdentity(r.Context(), r)
	if !ok {
		respond.WriteUnauthorized(w, "authentication_required")
		return
	}

	out, err := h.recon.Exchange(r.Context(), userID, req.Message)
	if err != nil {
		if errors.Is(err, model.ErrValidation) {
			respond.WriteBadRequest(w, "invalid_message")
			return
		}
		log.Error().Stack().Err(err).Str("user_id", userID).Msg("agent exchange failed")
		respond.WriteInternalError(w, "agent_failure")
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
