package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and API clients return
// these (optionally wrapped) so the resolver can translate them into
// authorization outcomes.
//
// These represent factual states about external resources, not validation
// failures:
// - ErrNotFound: record does not exist in the store
// - ErrNotImplemented: the store does not support this lookup at all
// - ErrInvalidAuth: the platform rejected a stored token (revoked/rotated)
// - ErrExpired: token or state value is past its expiry
// - ErrUnavailable: service or resource temporarily unavailable
var (
	ErrNotFound       = errors.New("not found")
	ErrNotImplemented = errors.New("not implemented")
	ErrInvalidAuth    = errors.New("invalid auth")
	ErrExpired        = errors.New("expired")
	ErrUnavailable    = errors.New("unavailable")
)
