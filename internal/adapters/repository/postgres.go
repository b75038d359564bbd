package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/poyrazK/domaincheck/internal/core/domain"
)

// Schema is the reference DDL for the malicious_domains table.
//
//go:embed schema.sql
var Schema string

// DBTX is the query surface shared by *sql.DB and *sql.Conn.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	PingContext(ctx context.Context) error
}

// PostgresRepository implements ports.ThreatRepository using PostgreSQL.
type PostgresRepository struct {
	db DBTX

	closeOnce sync.Once
	closer    func() error
	closeErr  error
}

// NewPostgresRepository creates and returns a new PostgresRepository instance.
func NewPostgresRepository(db DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Exact, case-sensitive match. When a domain appears more than once the most
// recent detection wins; rows without a detection time sort last.
const findMaliciousDomainQuery = `SELECT domain, threat_level, detected_at FROM malicious_domains
	WHERE domain = $1 ORDER BY detected_at DESC NULLS LAST LIMIT 1`

func (r *PostgresRepository) FindMaliciousDomain(ctx context.Context, name string) (*domain.MaliciousDomainRecord, error) {
	var rec domain.MaliciousDomainRecord
	var level sql.NullString
	var detected sql.NullTime

	errRow := r.db.QueryRowContext(ctx, findMaliciousDomainQuery, name).Scan(&rec.Domain, &level, &detected)
	if errors.Is(errRow, sql.ErrNoRows) {
		return nil, nil
	}
	if errRow != nil {
		return nil, errRow
	}

	rec.ThreatLevel = level.String
	if detected.Valid {
		rec.DetectedAt = detected.Time.UTC()
	}
	return &rec, nil
}

// UpsertMaliciousDomains writes records in one transaction, replacing the
// threat level and detection time of domains that already exist.
func (r *PostgresRepository) UpsertMaliciousDomains(ctx context.Context, records []domain.MaliciousDomainRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, errTx := r.db.BeginTx(ctx, nil)
	if errTx != nil {
		return errTx
	}
	defer func() {
		if errRollback := tx.Rollback(); errRollback != nil && !errors.Is(errRollback, sql.ErrTxDone) {
			log.Printf("failed to rollback transaction: %v", errRollback)
		}
	}()

	query := `INSERT INTO malicious_domains (domain, threat_level, detected_at, source)
	          VALUES ($1, $2, $3, NULLIF($4, ''))
	          ON CONFLICT (domain) DO UPDATE
	          SET threat_level = EXCLUDED.threat_level, detected_at = EXCLUDED.detected_at, source = EXCLUDED.source`
	stmt, errPrep := tx.PrepareContext(ctx, query)
	if errPrep != nil {
		return errPrep
	}
	defer func() {
		if errClose := stmt.Close(); errClose != nil {
			log.Printf("failed to close statement: %v", errClose)
		}
	}()

	for _, rec := range records {
		if _, errExec := stmt.ExecContext(ctx, rec.Domain, rec.ThreatLevel, rec.DetectedAt, rec.Source); errExec != nil {
			return fmt.Errorf("upserting %s: %w", rec.Domain, errExec)
		}
	}

	return tx.Commit()
}

// CountMaliciousDomains returns the number of rows in malicious_domains.
func (r *PostgresRepository) CountMaliciousDomains(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM malicious_domains`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ApplySchema creates the malicious_domains table and index if missing.
func (r *PostgresRepository) ApplySchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, Schema)
	return err
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close releases the underlying connection when the repository owns one.
// It is safe to call more than once; only the first call closes.
func (r *PostgresRepository) Close() error {
	r.closeOnce.Do(func() {
		if r.closer != nil {
			r.closeErr = r.closer()
		}
	})
	return r.closeErr
}
