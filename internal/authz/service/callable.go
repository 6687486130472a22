package service

import (
	"context"
	"errors"
	"log/slog"

	"eventgate/internal/authz/models"
	"eventgate/pkg/platform/sentinel"
)

// AuthorizeRequest is the explicit bag of values handed to a caller-supplied
// authorize function: the event coordinates plus the collaborators the
// function may want to call the platform with.
type AuthorizeRequest struct {
	Coordinates models.Coordinates
	Verifier    TokenVerifier
	Logger      *slog.Logger
	Extras      map[string]any
}

// AuthorizeFunc is a caller-supplied replacement for the store-backed
// resolution. Returning (nil, nil) means no credential; returning an error
// wrapping sentinel.ErrInvalidAuth is treated the same way.
type AuthorizeFunc func(ctx context.Context, req AuthorizeRequest) (*models.AuthorizeResult, error)

// CallableAuthorizer adapts an AuthorizeFunc to the resolver contract, for
// deployments that bring their own credential resolution instead of an
// installation store.
type CallableAuthorizer struct {
	fn       AuthorizeFunc
	verifier TokenVerifier
	logger   *slog.Logger
	extras   map[string]any
}

type CallableOption func(*CallableAuthorizer)

func WithCallableVerifier(verifier TokenVerifier) CallableOption {
	return func(a *CallableAuthorizer) {
		a.verifier = verifier
	}
}

func WithCallableLogger(logger *slog.Logger) CallableOption {
	return func(a *CallableAuthorizer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithCallableExtras attaches additional context values passed through to
// every invocation.
func WithCallableExtras(extras map[string]any) CallableOption {
	return func(a *CallableAuthorizer) {
		a.extras = extras
	}
}

// NewCallableAuthorizer wraps fn.
func NewCallableAuthorizer(fn AuthorizeFunc, opts ...CallableOption) (*CallableAuthorizer, error) {
	if fn == nil {
		return nil, errors.New("authorize function is required")
	}
	a := &CallableAuthorizer{
		fn:     fn,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a, nil
}

// Resolve invokes the caller's function. The function rejecting the stored
// credential is an expected outcome, not a failure, exactly as with the
// store-backed resolver.
func (a *CallableAuthorizer) Resolve(ctx context.Context, coords models.Coordinates) (*models.AuthorizeResult, error) {
	result, err := a.fn(ctx, AuthorizeRequest{
		Coordinates: coords,
		Verifier:    a.verifier,
		Logger:      a.logger,
		Extras:      a.extras,
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrInvalidAuth) {
			a.logger.DebugContext(ctx, "stored token is no longer valid",
				"org_id", coords.OrgID, "team_id", coords.TeamID)
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}
