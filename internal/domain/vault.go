package domain

import "time"

// PinRecord holds the derived PIN hash and its salt. It is persisted as a
// JSON-encoded secret under the reserved "system"/"pin" slot, never in a
// database table, so the PIN material lives encrypted at rest alongside the
// values it protects. At most one PinRecord exists per user; setting a new
// PIN overwrites it.
type PinRecord struct {
	Hash []byte `json:"hash"`
	Salt []byte `json:"salt"`
}

// LockoutRecord tracks consecutive failed PIN attempts for one user.
// PK: user_id. ExpiresAt is a DynamoDB TTL so stale records are garbage
// collected; expiry of an active lockout is still detected lazily by
// comparing LockedUntil against the clock.
type LockoutRecord struct {
	UserID         string `dynamodbav:"user_id"`
	FailedAttempts int    `dynamodbav:"failed_attempts"`
	LockedUntil    int64  `dynamodbav:"locked_until"` // Unix seconds, 0 = not locked
	ExpiresAt      int64  `dynamodbav:"expires_at"`   // TTL (Unix seconds)
}

// LockoutStatus is the tracker's answer to "may this user attempt a PIN now".
type LockoutStatus struct {
	Locked       bool
	AttemptsLeft int
	UnlockTime   time.Time // zero unless Locked
}

// VerifyResult is the structured outcome of a PIN verification. It is always
// returned by value: verification failures are states, not Go errors, so the
// HTTP layer can map them to status codes without parsing error text.
type VerifyResult struct {
	Valid        bool
	Locked       bool
	NoPinSet     bool
	AttemptsLeft int
	UnlockTime   time.Time // zero unless Locked
	Message      string
}

// SecretResult is the structured outcome of a verify-and-fetch call. Value is
// populated only when Success is true; this is the single code path in the
// system that carries an unmasked secret value.
type SecretResult struct {
	Success  bool
	Value    string
	NotFound bool
	Verify   VerifyResult
}

// SetPinRequest is the payload for creating or replacing a PIN.
type SetPinRequest struct {
	Pin string `json:"pin" validate:"required"`
}

// VerifyPinRequest is the payload for a verify-only check.
type VerifyPinRequest struct {
	Pin string `json:"pin" validate:"required"`
}
