package vault

import (
	"context"
	"time"

	"github.com/kinboard-api/internal/domain"
)

// SecretStore is the vault's view of the external secret store. The Secrets
// Manager adapter is the production implementation; tests substitute mocks,
// and the abstraction keeps the access-control logic independent of the
// backing vault.
type SecretStore interface {
	Save(ctx context.Context, userID, category, key, value string, extra map[string]string) error
	Get(ctx context.Context, userID, category, key string) (string, error)
	Delete(ctx context.Context, userID, category, key string) error
	ListMasked(ctx context.Context, userID string) ([]domain.SecretEntry, error)
}

// LockoutStore persists failed-attempt counters. IncrementFailure must be
// atomic: two concurrent calls both count.
type LockoutStore interface {
	Get(ctx context.Context, userID string) (*domain.LockoutRecord, error)
	IncrementFailure(ctx context.Context, userID string, ttl time.Duration) (*domain.LockoutRecord, error)
	SetLockedUntil(ctx context.Context, userID string, until time.Time) error
	Delete(ctx context.Context, userID string) error
}
