package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventgate/internal/authz/models"
	"eventgate/internal/authz/service"
	"eventgate/pkg/platform/sentinel"
)

func TestCallableAuthorizer_PassesRequestThrough(t *testing.T) {
	var seen service.AuthorizeRequest
	fn := func(_ context.Context, req service.AuthorizeRequest) (*models.AuthorizeResult, error) {
		seen = req
		return &models.AuthorizeResult{TeamID: req.Coordinates.TeamID, BotToken: "xoxb-custom"}, nil
	}

	authorizer, err := service.NewCallableAuthorizer(fn,
		service.WithCallableExtras(map[string]any{"region": "eu"}))
	require.NoError(t, err)

	coords := models.Coordinates{TeamID: "T001", UserID: "W111"}
	result, err := authorizer.Resolve(context.Background(), coords)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "xoxb-custom", result.BotToken)
	assert.Equal(t, coords, seen.Coordinates)
	assert.Equal(t, "eu", seen.Extras["region"])
	assert.NotNil(t, seen.Logger)
}

func TestCallableAuthorizer_NilResultMeansNotFound(t *testing.T) {
	fn := func(context.Context, service.AuthorizeRequest) (*models.AuthorizeResult, error) {
		return nil, nil
	}
	authorizer, err := service.NewCallableAuthorizer(fn)
	require.NoError(t, err)

	result, err := authorizer.Resolve(context.Background(), models.Coordinates{TeamID: "T001"})
	require.NoError(t, err)
	assert.Nil(t, result)
}

// The caller's function verifying against the platform and getting rejected is the
// same expected outcome as the store-backed path: NotFound, no error.
func TestCallableAuthorizer_InvalidAuthMeansNotFound(t *testing.T) {
	fn := func(context.Context, service.AuthorizeRequest) (*models.AuthorizeResult, error) {
		return nil, fmt.Errorf("auth.test: token_revoked: %w", sentinel.ErrInvalidAuth)
	}
	authorizer, err := service.NewCallableAuthorizer(fn)
	require.NoError(t, err)

	result, err := authorizer.Resolve(context.Background(), models.Coordinates{TeamID: "T001"})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCallableAuthorizer_OtherErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	fn := func(context.Context, service.AuthorizeRequest) (*models.AuthorizeResult, error) {
		return nil, boom
	}
	authorizer, err := service.NewCallableAuthorizer(fn)
	require.NoError(t, err)

	_, err = authorizer.Resolve(context.Background(), models.Coordinates{TeamID: "T001"})
	assert.ErrorIs(t, err, boom)
}

func TestCallableAuthorizer_RequiresFunc(t *testing.T) {
	_, err := service.NewCallableAuthorizer(nil)
	assert.Error(t, err)
}
