package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// ErrLocked signals an active PIN lockout. Maps to 429.
	ErrLocked = errors.New("locked")

	// ErrStoreUnavailable signals that a backing store (Secrets Manager,
	// DynamoDB) failed or is misconfigured. Never conflated with ErrNotFound:
	// absence is reserved for confirmed non-existence. Maps to 503.
	ErrStoreUnavailable = errors.New("store unavailable")
)
