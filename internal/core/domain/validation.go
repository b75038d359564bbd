package domain

import (
	"fmt"
)

// ValidateLookupDomain checks that a lookup carries a domain. Matching is
// exact, so no further normalization or format checks are applied here.
func ValidateLookupDomain(name string) error {
	if name == "" {
		return ErrMissingDomain
	}
	return nil
}

// secureSSLModes are the libpq sslmode values that require transport encryption.
var secureSSLModes = map[string]bool{
	"require":     true,
	"verify-ca":   true,
	"verify-full": true,
}

// ValidateSSLMode rejects sslmode values that allow plaintext connections.
func ValidateSSLMode(mode string) error {
	if mode == "" {
		return fmt.Errorf("sslmode cannot be empty")
	}
	if !secureSSLModes[mode] {
		return fmt.Errorf("sslmode %q does not require encryption (use require, verify-ca or verify-full)", mode)
	}
	return nil
}
