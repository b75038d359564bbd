package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/poyrazK/domaincheck/internal/core/domain"
	"github.com/poyrazK/domaincheck/internal/core/ports"
)

// PostgresConnector opens a single dedicated connection per Connect call.
// Nothing is pooled between calls.
type PostgresConnector struct {
	sslMode        string
	connectTimeout time.Duration
	open           func(dsn string) (*sql.DB, error)
}

// NewPostgresConnector returns a connector that requires an encrypted
// transport (sslmode require, verify-ca or verify-full).
func NewPostgresConnector(sslMode string, connectTimeout time.Duration) (*PostgresConnector, error) {
	if err := domain.ValidateSSLMode(sslMode); err != nil {
		return nil, err
	}
	return &PostgresConnector{
		sslMode:        sslMode,
		connectTimeout: connectTimeout,
		open:           openPgx,
	}, nil
}

func openPgx(dsn string) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}
	return stdlib.OpenDB(*cfg), nil
}

// DSN renders creds as a postgres:// URL carrying the connector's sslmode.
func (c *PostgresConnector) DSN(creds domain.DatabaseCredentials) string {
	q := url.Values{}
	q.Set("sslmode", c.sslMode)
	if c.connectTimeout > 0 {
		secs := int(c.connectTimeout.Seconds())
		if secs < 1 {
			secs = 1
		}
		q.Set("connect_timeout", strconv.Itoa(secs))
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(creds.Username, creds.Password),
		Host:     net.JoinHostPort(creds.Host, strconv.Itoa(creds.Port)),
		Path:     "/" + creds.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Connect dials exactly one connection. The returned repository owns it and
// must be closed by the caller.
func (c *PostgresConnector) Connect(ctx context.Context, creds domain.DatabaseCredentials) (ports.ThreatRepository, error) {
	db, err := c.open(c.DSN(creds))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	dialCtx := ctx
	if c.connectTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, c.connectTimeout)
		defer cancel()
	}

	conn, err := db.Conn(dialCtx)
	if err != nil {
		if errClose := db.Close(); errClose != nil {
			err = errors.Join(err, errClose)
		}
		return nil, err
	}

	repo := NewPostgresRepository(conn)
	repo.closer = func() error {
		return errors.Join(conn.Close(), db.Close())
	}
	return repo, nil
}
