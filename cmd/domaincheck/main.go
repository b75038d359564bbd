package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/poyrazK/domaincheck/internal/adapters/api"
	"github.com/poyrazK/domaincheck/internal/adapters/ratelimit"
	"github.com/poyrazK/domaincheck/internal/adapters/repository"
	"github.com/poyrazK/domaincheck/internal/adapters/secrets"
	"github.com/poyrazK/domaincheck/internal/config"
	"github.com/poyrazK/domaincheck/internal/core/ports"
	"github.com/poyrazK/domaincheck/internal/core/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout); err != nil {
		log.Fatalf("domaincheck: %v", err)
	}
}

func run(ctx context.Context, logOut io.Writer) error {
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	store, err := secrets.NewStore(ctx, secrets.StoreConfig{
		Provider: cfg.SecretProvider,
		AWS: secrets.AWSConfig{
			Region:   cfg.AWSRegion,
			RoleARN:  cfg.AWSRoleARN,
			Endpoint: cfg.SecretsEndpoint,
		},
		Vault: secrets.VaultConfig{
			Address:       cfg.VaultAddr,
			AuthMethod:    cfg.VaultAuthMethod,
			Token:         cfg.VaultToken,
			KubeRole:      cfg.VaultK8sRole,
			KubeTokenPath: cfg.VaultK8sTokenPath,
			Namespace:     cfg.VaultNamespace,
		},
	})
	if err != nil {
		return fmt.Errorf("creating secret store: %w", err)
	}

	resolver, err := secrets.NewCredentialResolver(store, cfg.SecretName)
	if err != nil {
		return err
	}

	connector, err := repository.NewPostgresConnector(cfg.DBSSLMode, cfg.DBConnectTimeout)
	if err != nil {
		return fmt.Errorf("creating connector: %w", err)
	}

	svc := services.NewLookupService(resolver, connector, logger)
	apiHandler := api.NewAPIHandler(svc, logger)

	if limiter, closeLimiter := newRateLimiter(ctx, cfg, logger); limiter != nil {
		defer closeLimiter()
		apiHandler.WithRateLimiter(limiter)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           apiHandler.Handler(),
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
	}

	errCh := make(chan error, 1)
	logger.Info("domaincheck API listening", "addr", cfg.HTTPAddr, "secret_provider", cfg.SecretProvider)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newRateLimiter returns nil when rate limiting is disabled. A configured Redis
// is shared across replicas; otherwise each process keeps its own buckets.
func newRateLimiter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.RateLimiter, func()) {
	if cfg.RateLimitPerMinute <= 0 {
		return nil, func() {}
	}

	if cfg.RedisAddr != "" {
		rl := ratelimit.NewRedisLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RateLimitPerMinute)
		if err := rl.Ping(ctx); err != nil {
			logger.Warn("redis rate limiter unreachable, requests will pass until it recovers", "addr", cfg.RedisAddr, "error", err)
		}
		logger.Info("rate limiting enabled", "backend", "redis", "per_minute", cfg.RateLimitPerMinute)
		return rl, func() {
			if err := rl.Close(); err != nil {
				logger.Warn("failed to close redis client", "error", err)
			}
		}
	}

	rl := ratelimit.NewMemoryLimiter(cfg.RateLimitPerMinute)
	go rl.Run(ctx, time.Minute)
	logger.Info("rate limiting enabled", "backend", "memory", "per_minute", cfg.RateLimitPerMinute)
	return rl, func() {}
}
