package testutil

import (
	"context"
	"sync"

	"github.com/poyrazK/domaincheck/internal/core/domain"
)

// FakeSecretStore implements ports.SecretStore from an in-memory map and
// counts calls so tests can assert no lookup reached the store.
type FakeSecretStore struct {
	mu      sync.Mutex
	Secrets map[string]string
	Err     error
	Calls   int
}

func (f *FakeSecretStore) GetSecretString(_ context.Context, secretID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return "", f.Err
	}
	payload, ok := f.Secrets[secretID]
	if !ok {
		return "", domain.ErrSecretNotFound
	}
	return payload, nil
}

// FakeRateLimiter implements ports.RateLimiter with a fixed answer.
type FakeRateLimiter struct {
	Allowed bool
	Err     error
	Keys    []string
}

func (f *FakeRateLimiter) Allow(_ context.Context, key string) (bool, error) {
	f.Keys = append(f.Keys, key)
	return f.Allowed, f.Err
}
