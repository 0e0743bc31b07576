package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kinboard-api/internal/domain"
	"github.com/kinboard-api/internal/pkg/pinhash"
)

// pinKey is the fixed key the PIN credential record is stored under,
// inside the reserved system category.
const pinKey = "pin"

// PinManager sets and checks for the presence of a user's PIN. The plaintext
// PIN is never stored: only a salted PBKDF2 hash is persisted, JSON-encoded,
// as a secret in the store.
type PinManager struct {
	store   SecretStore
	tracker *LockoutTracker
}

func NewPinManager(store SecretStore, tracker *LockoutTracker) *PinManager {
	return &PinManager{store: store, tracker: tracker}
}

// SetPin creates or replaces the user's PIN. A malformed PIN changes nothing.
// Setting a PIN clears any existing lockout: a fresh PIN implies fresh trust.
func (m *PinManager) SetPin(ctx context.Context, userID, pin string) error {
	if !pinhash.ValidFormat(pin) {
		return fmt.Errorf("PIN must be 4-6 digits: %w", domain.ErrBadRequest)
	}

	salt, err := pinhash.NewSalt()
	if err != nil {
		return err
	}
	rec := domain.PinRecord{
		Hash: pinhash.Derive(pin, salt),
		Salt: salt,
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal pin record: %w", err)
	}

	if err := m.store.Save(ctx, userID, domain.CategorySystem, pinKey, string(payload), nil); err != nil {
		return err
	}

	if err := m.tracker.Clear(ctx, userID); err != nil {
		// The new PIN is live; a leftover counter only shrinks the budget.
		slog.Warn("failed to clear lockout after PIN change", "err", err)
	}
	return nil
}

// HasPin reports whether a PIN record exists. Absence is not an error.
func (m *PinManager) HasPin(ctx context.Context, userID string) (bool, error) {
	_, err := m.store.Get(ctx, userID, domain.CategorySystem, pinKey)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
