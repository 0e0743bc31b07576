package vault

import (
	"context"
	"fmt"
	"strings"

	"github.com/kinboard-api/internal/domain"
)

// SecretService handles the PIN-free side of the vault: saving, listing and
// deleting secrets. Everything it returns is masked; the unmasked read path
// lives exclusively in AccessController.
type SecretService struct {
	store SecretStore
}

func NewSecretService(store SecretStore) *SecretService {
	return &SecretService{store: store}
}

// Save stores or overwrites a secret. The masked display form is computed
// here, once, and travels with the secret as metadata so listings never need
// the plaintext.
func (s *SecretService) Save(ctx context.Context, userID string, req domain.SaveSecretRequest) error {
	if !domain.ValidCategory(req.Category) {
		return fmt.Errorf("unknown category %q: %w", req.Category, domain.ErrBadRequest)
	}
	return s.store.Save(ctx, userID, req.Category, req.Key, req.Value, map[string]string{
		"mask": MaskValue(req.Value),
	})
}

// List returns the user's masked secret entries.
func (s *SecretService) List(ctx context.Context, userID string) ([]domain.SecretEntry, error) {
	return s.store.ListMasked(ctx, userID)
}

// Delete soft-deletes a secret. Deleting an absent secret succeeds.
func (s *SecretService) Delete(ctx context.Context, userID, category, key string) error {
	if !domain.ValidCategory(category) {
		return fmt.Errorf("unknown category %q: %w", category, domain.ErrBadRequest)
	}
	return s.store.Delete(ctx, userID, category, key)
}

// MaskValue produces the redacted display form of a secret: the last four
// characters with the rest hidden. Short values are hidden entirely.
func MaskValue(v string) string {
	r := []rune(v)
	if len(r) <= 4 {
		return "****"
	}
	hidden := len(r) - 4
	if hidden > 8 {
		hidden = 8
	}
	return strings.Repeat("*", hidden) + string(r[len(r)-4:])
}
