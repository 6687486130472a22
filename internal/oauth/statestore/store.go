package statestore

import (
	"context"
	"time"
)

// DefaultTTL bounds how long an issued state value stays redeemable.
const DefaultTTL = 10 * time.Minute

// Store issues and redeems the anti-CSRF state parameter of the OAuth flow.
// A state value is single-use: the first Consume wins, every later attempt
// reports invalid.
type Store interface {
	// Issue mints a new state value and persists it.
	Issue(ctx context.Context) (string, error)
	// Consume redeems a state value. It reports whether the value was
	// issued by this store and is still inside its validity window; the
	// value is forgotten either way.
	Consume(ctx context.Context, state string) (bool, error)
}
