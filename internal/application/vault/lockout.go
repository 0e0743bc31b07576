package vault

import (
	"context"
	"errors"
	"time"

	"github.com/kinboard-api/internal/domain"
)

// counterTTL bounds how long an unfinished failure counter survives before
// DynamoDB's TTL sweeps it. Generous on purpose: lazy expiry of an active
// lockout is decided by LockedUntil, not by the TTL.
const counterTTL = 24 * time.Hour

// LockoutTracker enforces the attempt budget: maxAttempts consecutive
// failures lock the user out for lockoutDur. Expired lockouts are detected
// lazily on the next status check and cleared as if they never existed.
type LockoutTracker struct {
	store       LockoutStore
	maxAttempts int
	lockoutDur  time.Duration
	now         func() time.Time
}

func NewLockoutTracker(store LockoutStore, maxAttempts int, lockoutDur time.Duration) *LockoutTracker {
	return &LockoutTracker{
		store:       store,
		maxAttempts: maxAttempts,
		lockoutDur:  lockoutDur,
		now:         time.Now,
	}
}

// Status reports whether userID may attempt a PIN right now and how many
// attempts remain. Clearing of an expired lockout happens here.
func (t *LockoutTracker) Status(ctx context.Context, userID string) (domain.LockoutStatus, error) {
	rec, err := t.store.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.LockoutStatus{Locked: false, AttemptsLeft: t.maxAttempts}, nil
	}
	if err != nil {
		return domain.LockoutStatus{}, err
	}

	if rec.LockedUntil > 0 {
		until := time.Unix(rec.LockedUntil, 0)
		if t.now().Before(until) {
			return domain.LockoutStatus{Locked: true, AttemptsLeft: 0, UnlockTime: until}, nil
		}
		// Lockout has elapsed: drop the record and grant a fresh budget.
		if err := t.store.Delete(ctx, userID); err != nil {
			return domain.LockoutStatus{}, err
		}
		return domain.LockoutStatus{Locked: false, AttemptsLeft: t.maxAttempts}, nil
	}

	left := t.maxAttempts - rec.FailedAttempts
	if left < 0 {
		left = 0
	}
	return domain.LockoutStatus{Locked: false, AttemptsLeft: left}, nil
}

// RecordFailure counts one failed attempt. Reaching the budget transitions to
// Locked and stamps the unlock time. Callers must not invoke this while the
// user is already locked.
func (t *LockoutTracker) RecordFailure(ctx context.Context, userID string) (domain.LockoutStatus, error) {
	rec, err := t.store.IncrementFailure(ctx, userID, counterTTL)
	if err != nil {
		return domain.LockoutStatus{}, err
	}

	if rec.FailedAttempts >= t.maxAttempts {
		until := t.now().Add(t.lockoutDur)
		if err := t.store.SetLockedUntil(ctx, userID, until); err != nil {
			return domain.LockoutStatus{}, err
		}
		return domain.LockoutStatus{Locked: true, AttemptsLeft: 0, UnlockTime: until}, nil
	}

	return domain.LockoutStatus{Locked: false, AttemptsLeft: t.maxAttempts - rec.FailedAttempts}, nil
}

// Clear removes the lockout record unconditionally. Idempotent.
func (t *LockoutTracker) Clear(ctx context.Context, userID string) error {
	return t.store.Delete(ctx, userID)
}

// MaxAttempts returns the configured attempt budget.
func (t *LockoutTracker) MaxAttempts() int { return t.maxAttempts }
