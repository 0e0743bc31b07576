package vault

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kinboard-api/internal/domain"
)

// --- stateful fakes shared by the vault tests ---

type fakeSecretStore struct {
	mu       sync.Mutex
	values   map[string]string // derived name -> value
	extras   map[string]map[string]string
	getCalls map[string]int
	saveErr  error
	getErr   error // returned for every Get when set (store outage)
}

func newFakeSecretStore() *fakeSecretStore {
	return &fakeSecretStore{
		values:   make(map[string]string),
		extras:   make(map[string]map[string]string),
		getCalls: make(map[string]int),
	}
}

func skey(userID, category, key string) string {
	return fmt.Sprintf("%s/%s/%s", userID, category, key)
}

func (f *fakeSecretStore) Save(_ context.Context, userID, category, key, value string, extra map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.values[skey(userID, category, key)] = value
	f.extras[skey(userID, category, key)] = extra
	return nil
}

func (f *fakeSecretStore) Get(_ context.Context, userID, category, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls[skey(userID, category, key)]++
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.values[skey(userID, category, key)]
	if !ok {
		return "", fmt.Errorf("absent: %w", domain.ErrNotFound)
	}
	return v, nil
}

func (f *fakeSecretStore) Delete(_ context.Context, userID, category, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, skey(userID, category, key))
	return nil
}

func (f *fakeSecretStore) ListMasked(_ context.Context, userID string) ([]domain.SecretEntry, error) {
	return nil, nil
}

func (f *fakeSecretStore) gets(userID, category, key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls[skey(userID, category, key)]
}

type fakeLockoutStore struct {
	mu   sync.Mutex
	recs map[string]*domain.LockoutRecord
}

func newFakeLockoutStore() *fakeLockoutStore {
	return &fakeLockoutStore{recs: make(map[string]*domain.LockoutRecord)}
}

func (f *fakeLockoutStore) Get(_ context.Context, userID string) (*domain.LockoutRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recs[userID]
	if !ok {
		return nil, fmt.Errorf("absent: %w", domain.ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeLockoutStore) IncrementFailure(_ context.Context, userID string, ttl time.Duration) (*domain.LockoutRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recs[userID]
	if !ok {
		rec = &domain.LockoutRecord{UserID: userID}
		f.recs[userID] = rec
	}
	rec.FailedAttempts++
	rec.ExpiresAt = time.Now().Add(ttl).Unix()
	cp := *rec
	return &cp, nil
}

func (f *fakeLockoutStore) SetLockedUntil(_ context.Context, userID string, until time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recs[userID]
	if !ok {
		rec = &domain.LockoutRecord{UserID: userID}
		f.recs[userID] = rec
	}
	rec.LockedUntil = until.Unix()
	return nil
}

func (f *fakeLockoutStore) Delete(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.recs, userID)
	return nil
}

// --- builders ---

func newTestTracker(store LockoutStore) *LockoutTracker {
	return NewLockoutTracker(store, 3, 15*time.Minute)
}
