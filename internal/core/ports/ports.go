package ports

import (
	"context"

	"github.com/poyrazK/domaincheck/internal/core/domain"
)

// SecretStore fetches a raw secret payload by identifier from a managed store.
type SecretStore interface {
	GetSecretString(ctx context.Context, secretID string) (string, error)
}

// CredentialResolver turns the configured secret into database credentials.
type CredentialResolver interface {
	Resolve(ctx context.Context) (*domain.DatabaseCredentials, error)
}

// ThreatRepository reads malicious domain records over a single connection.
type ThreatRepository interface {
	FindMaliciousDomain(ctx context.Context, name string) (*domain.MaliciousDomainRecord, error)
	Ping(ctx context.Context) error
	Close() error
}

// Connector opens one database connection per call.
type Connector interface {
	Connect(ctx context.Context, creds domain.DatabaseCredentials) (ThreatRepository, error)
}

type LookupService interface {
	Lookup(ctx context.Context, name string) (*domain.LookupResult, error)
	HealthCheck(ctx context.Context) map[string]error
}

// RateLimiter decides whether a client key may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
