package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poyrazK/domaincheck/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SECRET_NAME", "prod/domaincheck/db")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "prod/domaincheck/db", cfg.SecretName)
	assert.Equal(t, "aws", cfg.SecretProvider)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.Equal(t, "require", cfg.DBSSLMode)
	assert.Equal(t, 5*time.Second, cfg.DBConnectTimeout)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.HTTPReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.HTTPWriteTimeout)
	assert.Equal(t, 0, cfg.RateLimitPerMinute)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("SECRET_NAME", "secret/data/domaincheck/db")
	t.Setenv("SECRET_PROVIDER", "vault")
	t.Setenv("VAULT_ADDR", "https://vault.internal:8200")
	t.Setenv("VAULT_AUTH_METHOD", "kubernetes")
	t.Setenv("VAULT_K8S_ROLE", "domaincheck")
	t.Setenv("DB_SSLMODE", "verify-full")
	t.Setenv("DB_CONNECT_TIMEOUT", "2s")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "vault", cfg.SecretProvider)
	assert.Equal(t, "https://vault.internal:8200", cfg.VaultAddr)
	assert.Equal(t, "kubernetes", cfg.VaultAuthMethod)
	assert.Equal(t, "domaincheck", cfg.VaultK8sRole)
	assert.Equal(t, "verify-full", cfg.DBSSLMode)
	assert.Equal(t, 2*time.Second, cfg.DBConnectTimeout)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadConfig_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SECRET_NAME=from-file\nHTTP_ADDR=:9090\n"), 0o600))
	t.Setenv("HTTP_ADDR", ":7070")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.SecretName)
	assert.Equal(t, ":7070", cfg.HTTPAddr, "environment should override the file")
}

func TestLoadConfig_MissingEnvFileIgnored(t *testing.T) {
	t.Setenv("SECRET_NAME", "db")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret name", map[string]string{}, ""},
		{"unknown provider", map[string]string{"SECRET_NAME": "db", "SECRET_PROVIDER": "gcp"}, "SECRET_PROVIDER"},
		{"vault without address", map[string]string{"SECRET_NAME": "db", "SECRET_PROVIDER": "vault"}, "VAULT_ADDR"},
		{"plaintext database", map[string]string{"SECRET_NAME": "db", "DB_SSLMODE": "disable"}, "DB_SSLMODE"},
		{"negative rate limit", map[string]string{"SECRET_NAME": "db", "RATE_LIMIT_PER_MINUTE": "-1"}, "RATE_LIMIT_PER_MINUTE"},
		{"bad log level", map[string]string{"SECRET_NAME": "db", "LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SECRET_NAME", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig("")
			require.Error(t, err)
			if tt.want == "" {
				assert.ErrorIs(t, err, domain.ErrSecretNameRequired)
			} else {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}
