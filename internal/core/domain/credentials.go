package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultPostgresPort = 5432
	DefaultDatabaseName = "postgres"
)

// DatabaseCredentials is the connection bundle stored in the secret store.
// It is held for a single request and never cached.
type DatabaseCredentials struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"-"` // Never serialized back out
	DBName   string `json:"dbname"`
}

// secretPayload mirrors the JSON layout written by RDS-attached secrets.
// Port may arrive as a number or a string depending on who wrote the secret.
type secretPayload struct {
	Host     string          `json:"host"`
	Port     json.RawMessage `json:"port"`
	Username string          `json:"username"`
	User     string          `json:"user"`
	Password string          `json:"password"`
	DBName   string          `json:"dbname"`
	Database string          `json:"database"`
}

// ParseCredentials decodes a JSON secret payload into DatabaseCredentials,
// applying the default port and database name when absent.
func ParseCredentials(payload string) (*DatabaseCredentials, error) {
	var p secretPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("decoding secret payload: %w", err)
	}

	creds := &DatabaseCredentials{
		Host:     p.Host,
		Username: firstNonEmpty(p.Username, p.User),
		Password: p.Password,
		DBName:   firstNonEmpty(p.DBName, p.Database, DefaultDatabaseName),
		Port:     DefaultPostgresPort,
	}

	if creds.Host == "" {
		return nil, fmt.Errorf("secret payload is missing host")
	}

	if len(p.Port) > 0 && string(p.Port) != "null" {
		port, err := parsePort(p.Port)
		if err != nil {
			return nil, err
		}
		creds.Port = port
	}

	return creds, nil
}

func parsePort(raw json.RawMessage) (int, error) {
	s := strings.Trim(string(raw), `"`)
	if s == "" {
		return DefaultPostgresPort, nil
	}
	port, err := strconv.Atoi(s)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid port in secret payload: %s", string(raw))
	}
	return port, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
