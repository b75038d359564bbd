// Package config loads domaincheck settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poyrazK/domaincheck/internal/core/domain"
	"github.com/spf13/viper"
)

type Config struct {
	SecretName      string `mapstructure:"SECRET_NAME"`
	SecretProvider  string `mapstructure:"SECRET_PROVIDER"`
	AWSRegion       string `mapstructure:"AWS_REGION"`
	AWSRoleARN      string `mapstructure:"AWS_ROLE_ARN"`
	SecretsEndpoint string `mapstructure:"SECRETS_ENDPOINT"`

	VaultAddr         string `mapstructure:"VAULT_ADDR"`
	VaultToken        string `mapstructure:"VAULT_TOKEN"`
	VaultAuthMethod   string `mapstructure:"VAULT_AUTH_METHOD"`
	VaultK8sRole      string `mapstructure:"VAULT_K8S_ROLE"`
	VaultK8sTokenPath string `mapstructure:"VAULT_K8S_TOKEN_PATH"`
	VaultNamespace    string `mapstructure:"VAULT_NAMESPACE"`

	DBSSLMode        string        `mapstructure:"DB_SSLMODE"`
	DBConnectTimeout time.Duration `mapstructure:"DB_CONNECT_TIMEOUT"`

	HTTPAddr         string        `mapstructure:"HTTP_ADDR"`
	HTTPReadTimeout  time.Duration `mapstructure:"HTTP_READ_TIMEOUT"`
	HTTPWriteTimeout time.Duration `mapstructure:"HTTP_WRITE_TIMEOUT"`

	RateLimitPerMinute int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	RedisDB            int    `mapstructure:"REDIS_DB"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

var defaults = map[string]any{
	"SECRET_NAME":           "",
	"SECRET_PROVIDER":       "aws",
	"AWS_REGION":            "us-east-1",
	"AWS_ROLE_ARN":          "",
	"SECRETS_ENDPOINT":      "",
	"VAULT_ADDR":            "",
	"VAULT_TOKEN":           "",
	"VAULT_AUTH_METHOD":     "token",
	"VAULT_K8S_ROLE":        "",
	"VAULT_K8S_TOKEN_PATH":  "",
	"VAULT_NAMESPACE":       "",
	"DB_SSLMODE":            "require",
	"DB_CONNECT_TIMEOUT":    "5s",
	"HTTP_ADDR":             ":8080",
	"HTTP_READ_TIMEOUT":     "10s",
	"HTTP_WRITE_TIMEOUT":    "30s",
	"RATE_LIMIT_PER_MINUTE": 0,
	"REDIS_ADDR":            "",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"LOG_LEVEL":             "info",
}

// LoadConfig reads settings from the environment, falling back to envFile
// (usually ".env") when it exists. Environment variables win.
func LoadConfig(envFile string) (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading %s: %w", envFile, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings a lookup cannot run without.
func (c *Config) Validate() error {
	if c.SecretName == "" {
		return domain.ErrSecretNameRequired
	}

	switch c.SecretProvider {
	case "aws":
		if c.AWSRegion == "" {
			return errors.New("AWS_REGION is required for the aws secret provider")
		}
	case "vault":
		if c.VaultAddr == "" {
			return errors.New("VAULT_ADDR is required for the vault secret provider")
		}
	default:
		return fmt.Errorf("unknown SECRET_PROVIDER %q (use aws or vault)", c.SecretProvider)
	}

	if err := domain.ValidateSSLMode(c.DBSSLMode); err != nil {
		return fmt.Errorf("DB_SSLMODE: %w", err)
	}
	if c.RateLimitPerMinute < 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE cannot be negative")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns LOG_LEVEL as a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	lvl, _ := parseLevel(c.LogLevel)
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return lvl, nil
}
