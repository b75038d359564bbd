package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingDomain is returned when a lookup is requested without a domain.
	ErrMissingDomain = errors.New("missing domain parameter")
	// ErrSecretNameRequired is returned when no secret identifier is configured.
	ErrSecretNameRequired = errors.New("secret name is required")
	// ErrSecretNotFound is returned by secret stores when the identifier does not exist.
	ErrSecretNotFound = errors.New("secret not found")
)

// RetrievalError wraps a failure to fetch or decode credentials from the secret store.
type RetrievalError struct {
	SecretID string
	Err      error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieving secret %q: %v", e.SecretID, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// ConnectionError wraps a failure to open the database connection.
type ConnectionError struct {
	Host string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connecting to database at %s: %v", e.Host, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError wraps a failure while running the lookup query.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("querying malicious domains: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
