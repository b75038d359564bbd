package testutil

import (
	"context"

	"github.com/poyrazK/domaincheck/internal/core/domain"
	"github.com/poyrazK/domaincheck/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// MockThreatRepository implements ports.ThreatRepository for testing.
type MockThreatRepository struct {
	mock.Mock
}

func (m *MockThreatRepository) FindMaliciousDomain(ctx context.Context, name string) (*domain.MaliciousDomainRecord, error) {
	args := m.Called(name)
	rec, _ := args.Get(0).(*domain.MaliciousDomainRecord)
	return rec, args.Error(1)
}

func (m *MockThreatRepository) Ping(ctx context.Context) error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockThreatRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockConnector implements ports.Connector for testing.
type MockConnector struct {
	mock.Mock
}

func (m *MockConnector) Connect(ctx context.Context, creds domain.DatabaseCredentials) (ports.ThreatRepository, error) {
	args := m.Called(creds)
	repo, _ := args.Get(0).(ports.ThreatRepository)
	return repo, args.Error(1)
}

// MockResolver implements ports.CredentialResolver for testing.
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context) (*domain.DatabaseCredentials, error) {
	args := m.Called()
	creds, _ := args.Get(0).(*domain.DatabaseCredentials)
	return creds, args.Error(1)
}

// MockLookupService implements ports.LookupService for testing.
type MockLookupService struct {
	mock.Mock
}

func (m *MockLookupService) Lookup(ctx context.Context, name string) (*domain.LookupResult, error) {
	args := m.Called(name)
	res, _ := args.Get(0).(*domain.LookupResult)
	return res, args.Error(1)
}

func (m *MockLookupService) HealthCheck(ctx context.Context) map[string]error {
	args := m.Called()
	checks, _ := args.Get(0).(map[string]error)
	return checks
}
