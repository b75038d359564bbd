// Package secrets resolves database credentials from a managed secret store.
package secrets

import (
	"context"
	"fmt"

	"github.com/poyrazK/domaincheck/internal/core/domain"
	"github.com/poyrazK/domaincheck/internal/core/ports"
)

// Provider names accepted by NewStore.
const (
	ProviderAWS   = "aws"
	ProviderVault = "vault"
)

// CredentialResolver implements ports.CredentialResolver on top of a SecretStore.
// Every Resolve call goes back to the store.
type CredentialResolver struct {
	store    ports.SecretStore
	secretID string
}

// NewCredentialResolver binds a store to the configured secret identifier.
func NewCredentialResolver(store ports.SecretStore, secretID string) (*CredentialResolver, error) {
	if secretID == "" {
		return nil, domain.ErrSecretNameRequired
	}
	if store == nil {
		return nil, fmt.Errorf("secret store is required")
	}
	return &CredentialResolver{store: store, secretID: secretID}, nil
}

// Resolve fetches and decodes the credential bundle.
func (r *CredentialResolver) Resolve(ctx context.Context) (*domain.DatabaseCredentials, error) {
	payload, err := r.store.GetSecretString(ctx, r.secretID)
	if err != nil {
		return nil, &domain.RetrievalError{SecretID: r.secretID, Err: err}
	}

	creds, err := domain.ParseCredentials(payload)
	if err != nil {
		return nil, &domain.RetrievalError{SecretID: r.secretID, Err: err}
	}
	return creds, nil
}

// StoreConfig selects and configures a secret store backend.
type StoreConfig struct {
	Provider string
	AWS      AWSConfig
	Vault    VaultConfig
}

// NewStore builds the SecretStore named by cfg.Provider.
func NewStore(ctx context.Context, cfg StoreConfig) (ports.SecretStore, error) {
	switch cfg.Provider {
	case ProviderAWS, "":
		return NewAWSSecretStore(ctx, cfg.AWS)
	case ProviderVault:
		return NewVaultSecretStore(cfg.Vault)
	default:
		return nil, fmt.Errorf("unknown secret provider %q", cfg.Provider)
	}
}
