package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	vault "github.com/hashicorp/vault/api"
	auth "github.com/hashicorp/vault/api/auth/kubernetes"

	"github.com/poyrazK/domaincheck/internal/core/domain"
)

// VaultConfig configures HashiCorp Vault access.
type VaultConfig struct {
	Address       string
	AuthMethod    string // token or kubernetes
	Token         string
	KubeRole      string
	KubeTokenPath string // Defaults to the in-cluster service account token
	Namespace     string
}

// VaultSecretStore reads secrets from a Vault KV mount (v1 or v2).
type VaultSecretStore struct {
	cfg    VaultConfig
	client *vault.Client

	mu       sync.Mutex
	loggedIn bool
}

// NewVaultSecretStore creates a Vault client. Kubernetes login is deferred to
// the first read.
func NewVaultSecretStore(cfg VaultConfig) (*VaultSecretStore, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("vault address required")
	}
	if cfg.AuthMethod == "" {
		cfg.AuthMethod = "token"
	}
	if cfg.AuthMethod != "token" && cfg.AuthMethod != "kubernetes" {
		return nil, fmt.Errorf("unsupported vault auth method %q", cfg.AuthMethod)
	}
	if cfg.AuthMethod == "kubernetes" && cfg.KubeRole == "" {
		return nil, fmt.Errorf("vault kubernetes auth requires a role")
	}

	vcfg := vault.DefaultConfig()
	if vcfg.Error != nil {
		return nil, fmt.Errorf("vault default config: %w", vcfg.Error)
	}
	vcfg.Address = cfg.Address
	vcfg.MaxRetries = 0

	client, err := vault.NewClient(vcfg)
	if err != nil {
		return nil, fmt.Errorf("creating vault client: %w", err)
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}
	if cfg.AuthMethod == "token" && cfg.Token != "" {
		client.SetToken(cfg.Token)
	}

	return &VaultSecretStore{cfg: cfg, client: client}, nil
}

func (s *VaultSecretStore) ensureAuthenticated(ctx context.Context) error {
	if s.cfg.AuthMethod != "kubernetes" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loggedIn {
		return nil
	}

	var opts []auth.LoginOption
	if s.cfg.KubeTokenPath != "" {
		opts = append(opts, auth.WithServiceAccountTokenPath(s.cfg.KubeTokenPath))
	}
	k8sAuth, err := auth.NewKubernetesAuth(s.cfg.KubeRole, opts...)
	if err != nil {
		return fmt.Errorf("kubernetes auth: %w", err)
	}

	info, err := s.client.Auth().Login(ctx, k8sAuth)
	if err != nil {
		return fmt.Errorf("vault login: %w", err)
	}
	if info == nil {
		return fmt.Errorf("vault login returned no auth info")
	}
	s.loggedIn = true
	return nil
}

// invalidateLogin forgets the Kubernetes login so the next read logs in again.
// It reports whether a fresh login is worth attempting.
func (s *VaultSecretStore) invalidateLogin() bool {
	if s.cfg.AuthMethod != "kubernetes" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = false
	return true
}

func isPermissionDenied(err error) bool {
	var respErr *vault.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusForbidden
}

func (s *VaultSecretStore) read(ctx context.Context, path string) (*vault.Secret, error) {
	if err := s.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}
	return s.client.Logical().ReadWithContext(ctx, path)
}

// GetSecretString reads path and re-encodes its data map as JSON. For KV v2
// mounts the nested "data" object is unwrapped. An expired Kubernetes login
// is renewed once per call.
func (s *VaultSecretStore) GetSecretString(ctx context.Context, path string) (string, error) {
	secret, err := s.read(ctx, path)
	if err != nil && isPermissionDenied(err) && s.invalidateLogin() {
		secret, err = s.read(ctx, path)
	}
	if err != nil {
		return "", fmt.Errorf("reading vault path %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("%w: %s", domain.ErrSecretNotFound, path)
	}

	data := secret.Data
	if nested, present := data["data"]; present {
		// KV v2 reports a soft-deleted version as "data": null.
		if nested == nil {
			return "", fmt.Errorf("%w: %s", domain.ErrSecretNotFound, path)
		}
		if m, ok := nested.(map[string]interface{}); ok {
			data = m
		}
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encoding vault secret: %w", err)
	}
	return string(payload), nil
}
