package httptransport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventgate/internal/authz/models"
)

type stubAuthorizer struct {
	result *models.AuthorizeResult
	err    error
	coords models.Coordinates
}

func (a *stubAuthorizer) Resolve(_ context.Context, coords models.Coordinates) (*models.AuthorizeResult, error) {
	a.coords = coords
	return a.result, a.err
}

func postEvent(t *testing.T, authorizer Authorizer, body string) *httptest.ResponseRecorder {
	t.Helper()
	handler := NewEventHandler(authorizer, slog.Default())
	router := NewRouter(handler, slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleEvent_Authorized(t *testing.T) {
	authorizer := &stubAuthorizer{result: &models.AuthorizeResult{TeamID: "T001", BotID: "B001", BotToken: "xoxb-1"}}
	rec := postEvent(t, authorizer, `{
		"type": "event_callback",
		"team_id": "T001",
		"event": {"type": "app_mention", "user": "W111"}
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.Coordinates{TeamID: "T001", UserID: "W111"}, authorizer.coords)
}

func TestHandleEvent_NoAuthorizationRejected(t *testing.T) {
	authorizer := &stubAuthorizer{}
	rec := postEvent(t, authorizer, `{
		"type": "event_callback",
		"team_id": "T404",
		"event": {"type": "app_mention", "user": "W111"}
	}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "no authorization found")
}

func TestHandleEvent_ResolutionErrorIs500(t *testing.T) {
	authorizer := &stubAuthorizer{err: errors.New("store down")}
	rec := postEvent(t, authorizer, `{
		"type": "event_callback",
		"team_id": "T001",
		"event": {"type": "app_mention"}
	}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleEvent_URLVerificationSkipsAuthorization(t *testing.T) {
	authorizer := &stubAuthorizer{err: errors.New("must not be called")}
	rec := postEvent(t, authorizer, `{"type": "url_verification", "challenge": "c-123"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "c-123")
	assert.Equal(t, models.Coordinates{}, authorizer.coords)
}

func TestHandleEvent_BadPayload(t *testing.T) {
	rec := postEvent(t, &stubAuthorizer{}, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
