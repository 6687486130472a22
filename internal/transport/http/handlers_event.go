package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"eventgate/internal/authz/models"
)

// Authorizer resolves the credential decision for an inbound event. A nil
// result with nil error means no usable credential exists.
type Authorizer interface {
	Resolve(ctx context.Context, coords models.Coordinates) (*models.AuthorizeResult, error)
}

// EventHandler receives inbound workspace events and gates them on an
// authorization decision before anything else runs.
type EventHandler struct {
	authorizer Authorizer
	logger     *slog.Logger
}

func NewEventHandler(authorizer Authorizer, logger *slog.Logger) *EventHandler {
	return &EventHandler{authorizer: authorizer, logger: logger}
}

// eventEnvelope is the outer shape of an inbound event delivery.
type eventEnvelope struct {
	Type         string `json:"type"`
	Challenge    string `json:"challenge,omitempty"`
	OrgID        string `json:"org_id,omitempty"`
	TeamID       string `json:"team_id,omitempty"`
	IsOrgInstall bool   `json:"is_org_install,omitempty"`
	Event        struct {
		Type string `json:"type"`
		User string `json:"user,omitempty"`
	} `json:"event"`
}

func (h *EventHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var envelope eventEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event payload"})
		return
	}

	// Endpoint ownership handshake: echo the challenge back.
	if envelope.Type == "url_verification" {
		writeJSON(w, http.StatusOK, map[string]string{"challenge": envelope.Challenge})
		return
	}

	coords := models.Coordinates{
		OrgID:        envelope.OrgID,
		TeamID:       envelope.TeamID,
		UserID:       envelope.Event.User,
		IsOrgInstall: envelope.IsOrgInstall,
	}

	result, err := h.authorizer.Resolve(r.Context(), coords)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "authorization resolution failed",
			"org_id", coords.OrgID, "team_id", coords.TeamID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if result == nil {
		// No credential for this workspace: reject before any business
		// logic runs.
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no authorization found"})
		return
	}

	h.logger.DebugContext(r.Context(), "event authorized",
		"team_id", result.TeamID, "bot_id", result.BotID, "event_type", envelope.Event.Type)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
