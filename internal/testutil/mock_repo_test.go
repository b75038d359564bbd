package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/poyrazK/domaincheck/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMockThreatRepository(t *testing.T) {
	ctx := context.Background()
	repo := new(MockThreatRepository)

	rec := &domain.MaliciousDomainRecord{Domain: "evil.test", ThreatLevel: "high"}
	repo.On("FindMaliciousDomain", "evil.test").Return(rec, nil).Once()
	repo.On("FindMaliciousDomain", "safe.test").Return(nil, nil).Once()
	repo.On("Ping").Return(nil).Once()
	repo.On("Close").Return(nil).Once()

	got, err := repo.FindMaliciousDomain(ctx, "evil.test")
	assert.NoError(t, err)
	assert.Equal(t, rec, got)

	got, err = repo.FindMaliciousDomain(ctx, "safe.test")
	assert.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, repo.Ping(ctx))
	assert.NoError(t, repo.Close())
	repo.AssertExpectations(t)
}

func TestMockConnectorAndResolver(t *testing.T) {
	ctx := context.Background()
	creds := &domain.DatabaseCredentials{Host: "db", Port: 5432}

	resolver := new(MockResolver)
	resolver.On("Resolve").Return(creds, nil).Once()
	resolver.On("Resolve").Return(nil, errors.New("unreachable")).Once()

	got, err := resolver.Resolve(ctx)
	assert.NoError(t, err)
	assert.Equal(t, creds, got)

	got, err = resolver.Resolve(ctx)
	assert.Error(t, err)
	assert.Nil(t, got)

	repo := new(MockThreatRepository)
	connector := new(MockConnector)
	connector.On("Connect", mock.AnythingOfType("domain.DatabaseCredentials")).Return(repo, nil).Once()
	connector.On("Connect", mock.Anything).Return(nil, errors.New("refused")).Once()

	r, err := connector.Connect(ctx, *creds)
	assert.NoError(t, err)
	assert.Same(t, repo, r)

	r, err = connector.Connect(ctx, *creds)
	assert.Error(t, err)
	assert.Nil(t, r)

	resolver.AssertExpectations(t)
	connector.AssertExpectations(t)
}

func TestMockLookupService(t *testing.T) {
	svc := new(MockLookupService)
	svc.On("Lookup", "x.test").Return(domain.CleanResult("x.test"), nil).Once()
	svc.On("HealthCheck").Return(map[string]error{"database": nil}).Once()

	res, err := svc.Lookup(context.Background(), "x.test")
	assert.NoError(t, err)
	assert.False(t, res.Malicious)

	checks := svc.HealthCheck(context.Background())
	assert.Contains(t, checks, "database")
	svc.AssertExpectations(t)
}
