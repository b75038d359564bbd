package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/poyrazK/domaincheck/internal/core/domain"
	"github.com/poyrazK/domaincheck/internal/core/ports"
	"github.com/poyrazK/domaincheck/internal/infrastructure/metrics"
)

type lookupService struct {
	resolver  ports.CredentialResolver
	connector ports.Connector
	logger    *slog.Logger
}

// NewLookupService wires a lookup service from its secret resolver and
// database connector. Credentials and connections are obtained per call.
func NewLookupService(resolver ports.CredentialResolver, connector ports.Connector, logger *slog.Logger) ports.LookupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &lookupService{resolver: resolver, connector: connector, logger: logger}
}

// Lookup runs validate, resolve, connect, query, disconnect in order and
// never retries a failed step.
func (s *lookupService) Lookup(ctx context.Context, name string) (*domain.LookupResult, error) {
	start := time.Now()
	defer func() { metrics.StageDuration.WithLabelValues(metrics.StageTotal).Observe(time.Since(start).Seconds()) }()

	if err := domain.ValidateLookupDomain(name); err != nil {
		metrics.LookupsTotal.WithLabelValues("bad_request").Inc()
		return nil, err
	}

	stageStart := time.Now()
	creds, err := s.resolver.Resolve(ctx)
	metrics.StageDuration.WithLabelValues(metrics.StageSecret).Observe(time.Since(stageStart).Seconds())
	if err != nil {
		return nil, s.fail(metrics.StageSecret, err)
	}

	stageStart = time.Now()
	repo, err := s.connector.Connect(ctx, *creds)
	metrics.StageDuration.WithLabelValues(metrics.StageConnect).Observe(time.Since(stageStart).Seconds())
	if err != nil {
		return nil, s.fail(metrics.StageConnect, &domain.ConnectionError{Host: creds.Host, Err: err})
	}
	metrics.DBConnectionsActive.Inc()
	defer s.release(repo)

	stageStart = time.Now()
	rec, err := repo.FindMaliciousDomain(ctx, name)
	metrics.StageDuration.WithLabelValues(metrics.StageQuery).Observe(time.Since(stageStart).Seconds())
	if err != nil {
		return nil, s.fail(metrics.StageQuery, &domain.QueryError{Err: err})
	}

	if rec == nil {
		metrics.LookupsTotal.WithLabelValues("clean").Inc()
		return domain.CleanResult(name), nil
	}

	metrics.LookupsTotal.WithLabelValues("malicious").Inc()
	s.logger.Debug("malicious domain matched", "domain", name, "threat_level", rec.ThreatLevel)
	return domain.MaliciousResult(name, rec), nil
}

// HealthCheck reports whether credentials resolve and the database answers a ping.
func (s *lookupService) HealthCheck(ctx context.Context) map[string]error {
	checks := make(map[string]error)

	creds, err := s.resolver.Resolve(ctx)
	checks["secrets"] = err
	if err != nil {
		checks["database"] = errors.New("skipped: credentials unavailable")
		return checks
	}

	repo, err := s.connector.Connect(ctx, *creds)
	if err != nil {
		checks["database"] = &domain.ConnectionError{Host: creds.Host, Err: err}
		return checks
	}
	metrics.DBConnectionsActive.Inc()
	defer s.release(repo)

	checks["database"] = repo.Ping(ctx)
	return checks
}

func (s *lookupService) fail(stage string, err error) error {
	metrics.LookupsTotal.WithLabelValues("error").Inc()
	metrics.FailuresTotal.WithLabelValues(stage).Inc()
	return err
}

func (s *lookupService) release(repo ports.ThreatRepository) {
	metrics.DBConnectionsActive.Dec()
	if err := repo.Close(); err != nil {
		s.logger.Warn("failed to close database connection", "error", err)
	}
}
