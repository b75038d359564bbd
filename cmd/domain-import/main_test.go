package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

const sampleFeed = `domain,threat_level,detected_at,source
evil.example.com,high,2024-01-01T00:00:00Z,phishtank
# comment lines are ignored
phish.example.net,medium,2024-02-01T12:00:00Z
broken-row-without-level
bad-time.example.org,low,yesterday
fresh.example.io,low
`

func TestRunImport_BadURL(t *testing.T) {
	_, err := RunImport(context.Background(), nil, ImportOptions{Source: "http://invalid.url.test"})
	if err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestRunImport_BadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := RunImport(context.Background(), nil, ImportOptions{Source: ts.URL})
	if err == nil {
		t.Error("Expected error for 404 status")
	}
}

func TestRunImport_MissingFile(t *testing.T) {
	_, err := RunImport(context.Background(), nil, ImportOptions{Source: filepath.Join(t.TempDir(), "absent.csv")})
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestRunImport_FromURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer ts.Close()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %s", err)
	}
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS malicious_domains").WillReturnResult(sqlmock.NewResult(0, 0))

	// Batch of two, then a final batch of one.
	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO malicious_domains")
	prep.ExpectExec().
		WithArgs("evil.example.com", "high", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "phishtank").
		WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().
		WithArgs("phish.example.net", "medium", time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC), "test-feed").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	prep = mock.ExpectPrepare("INSERT INTO malicious_domains")
	prep.ExpectExec().
		WithArgs("fresh.example.io", "low", sqlmock.AnyArg(), "test-feed").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM malicious_domains`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	stats, err := RunImport(context.Background(), db, ImportOptions{
		Source:    ts.URL,
		BatchSize: 2,
		Migrate:   true,
		Feed:      "test-feed",
	})
	if err != nil {
		t.Fatalf("RunImport failed: %v", err)
	}
	if stats.Imported != 3 || stats.Skipped != 2 || stats.TableSize != 42 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestRunImport_FromFileBatchFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.csv")
	if err := os.WriteFile(path, []byte("evil.example.com,high,2024-01-01T00:00:00Z\n"), 0o600); err != nil {
		t.Fatalf("failed to write feed: %v", err)
	}

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %s", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO malicious_domains").
		ExpectExec().WillReturnError(sqlmock.ErrCancelled)
	mock.ExpectRollback()

	if _, err := RunImport(context.Background(), db, ImportOptions{Source: path}); err == nil {
		t.Error("Expected error from failed batch")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestParseRecord(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	rec, err := parseRecord([]string{" evil.example.com ", "high", "2024-01-01T03:00:00+03:00", "feed-a"}, "default", now)
	if err != nil {
		t.Fatalf("parseRecord failed: %v", err)
	}
	if rec.Domain != "evil.example.com" || rec.Source != "feed-a" {
		t.Errorf("Unexpected record: %+v", rec)
	}
	if !rec.DetectedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) || rec.DetectedAt.Location() != time.UTC {
		t.Errorf("Expected UTC detection time, got %v", rec.DetectedAt)
	}

	rec, err = parseRecord([]string{"x.test", "low"}, "default", now)
	if err != nil || !rec.DetectedAt.Equal(now) || rec.Source != "default" {
		t.Errorf("Expected defaults, got %+v (%v)", rec, err)
	}

	for _, fields := range [][]string{{"only"}, {"", "high"}, {"x.test", ""}, {"x.test", "high", "not-a-time"}} {
		if _, err := parseRecord(fields, "", now); err == nil {
			t.Errorf("Expected error for %v", fields)
		}
	}
}
