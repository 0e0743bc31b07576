package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kinboard-api/internal/domain"
	"github.com/kinboard-api/internal/pkg/pinhash"
)

// AccessController is the single gate in front of unmasked secret values.
// Both the verify-only and the verify-and-fetch paths go through VerifyPin,
// which consults the lockout tracker before doing any hash work.
type AccessController struct {
	store   SecretStore
	tracker *LockoutTracker
}

func NewAccessController(store SecretStore, tracker *LockoutTracker) *AccessController {
	return &AccessController{store: store, tracker: tracker}
}

// VerifyPin checks pin against the stored credential. All verification
// outcomes are states in the returned result; the error return is reserved
// for store failures.
func (c *AccessController) VerifyPin(ctx context.Context, userID, pin string) (domain.VerifyResult, error) {
	// Lockout first: a locked user gets no hash computation and no new
	// failure recorded, whatever they typed.
	st, err := c.tracker.Status(ctx, userID)
	if err != nil {
		return domain.VerifyResult{}, err
	}
	if st.Locked {
		return domain.VerifyResult{
			Locked:     true,
			UnlockTime: st.UnlockTime,
			Message:    lockedMessage(st.UnlockTime),
		}, nil
	}

	// A malformed PIN cannot match anything; reject without touching the
	// attempt budget.
	if !pinhash.ValidFormat(pin) {
		return domain.VerifyResult{}, fmt.Errorf("PIN must be 4-6 digits: %w", domain.ErrBadRequest)
	}

	raw, err := c.store.Get(ctx, userID, domain.CategorySystem, pinKey)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.VerifyResult{
			NoPinSet:     true,
			AttemptsLeft: st.AttemptsLeft,
			Message:      "no PIN has been set up",
		}, nil
	}
	if err != nil {
		return domain.VerifyResult{}, err
	}

	var rec domain.PinRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.VerifyResult{}, fmt.Errorf("corrupt pin record: %v: %w", err, domain.ErrStoreUnavailable)
	}

	if pinhash.Equal(pinhash.Derive(pin, rec.Salt), rec.Hash) {
		if err := c.tracker.Clear(ctx, userID); err != nil {
			return domain.VerifyResult{}, err
		}
		return domain.VerifyResult{
			Valid:        true,
			AttemptsLeft: c.tracker.MaxAttempts(),
		}, nil
	}

	st, err = c.tracker.RecordFailure(ctx, userID)
	if err != nil {
		return domain.VerifyResult{}, err
	}
	res := domain.VerifyResult{
		Locked:       st.Locked,
		AttemptsLeft: st.AttemptsLeft,
		UnlockTime:   st.UnlockTime,
	}
	if st.Locked {
		res.Message = lockedMessage(st.UnlockTime)
	} else {
		res.Message = fmt.Sprintf("wrong PIN, %d attempts left", st.AttemptsLeft)
	}
	return res, nil
}

// GetSecretWithPin verifies the PIN and, only on success, fetches the
// plaintext value of (category, key). A failed verification never reaches
// the secret store, so existence of the secret is not revealed.
func (c *AccessController) GetSecretWithPin(ctx context.Context, userID, pin, category, key string) (domain.SecretResult, error) {
	if !domain.ValidCategory(category) {
		return domain.SecretResult{}, fmt.Errorf("unknown category %q: %w", category, domain.ErrBadRequest)
	}

	vr, err := c.VerifyPin(ctx, userID, pin)
	if err != nil {
		return domain.SecretResult{}, err
	}
	if !vr.Valid {
		return domain.SecretResult{Success: false, Verify: vr}, nil
	}

	val, err := c.store.Get(ctx, userID, category, key)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.SecretResult{Success: false, NotFound: true, Verify: vr}, nil
	}
	if err != nil {
		return domain.SecretResult{}, err
	}
	return domain.SecretResult{Success: true, Value: val, Verify: vr}, nil
}

func lockedMessage(until time.Time) string {
	return fmt.Sprintf("too many failed attempts, locked until %s",
		until.UTC().Format("15:04:05 MST"))
}
