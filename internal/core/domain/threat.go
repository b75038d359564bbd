// Package domain contains the core entities and error types for domaincheck.
package domain

import (
	"encoding/json"
	"time"
)

// MaliciousDomainRecord is one row of the malicious_domains table.
type MaliciousDomainRecord struct {
	Domain      string    `json:"domain"`
	ThreatLevel string    `json:"threat_level"`
	DetectedAt  time.Time `json:"detected_at"`
	Source      string    `json:"source,omitempty"` // Feed the row was imported from, if known
}

// LookupResult is the response body for a single domain check.
type LookupResult struct {
	Domain      string     `json:"domain"`
	Malicious   bool       `json:"malicious"`
	ThreatLevel *string    `json:"threat_level,omitempty"`
	DetectedAt  *time.Time `json:"detected_at,omitempty"`
}

// CleanResult builds the result for a domain with no matching record.
func CleanResult(name string) *LookupResult {
	return &LookupResult{Domain: name, Malicious: false}
}

// MaliciousResult builds the result for a domain that matched rec.
// A zero DetectedAt (NULL in the table) is left out of the result.
func MaliciousResult(name string, rec *MaliciousDomainRecord) *LookupResult {
	level := rec.ThreatLevel
	res := &LookupResult{
		Domain:      name,
		Malicious:   true,
		ThreatLevel: &level,
	}
	if !rec.DetectedAt.IsZero() {
		detected := rec.DetectedAt.UTC()
		res.DetectedAt = &detected
	}
	return res
}

// MarshalJSON renders detected_at as RFC 3339 in UTC.
func (r LookupResult) MarshalJSON() ([]byte, error) {
	type alias struct {
		Domain      string  `json:"domain"`
		Malicious   bool    `json:"malicious"`
		ThreatLevel *string `json:"threat_level,omitempty"`
		DetectedAt  *string `json:"detected_at,omitempty"`
	}
	out := alias{Domain: r.Domain, Malicious: r.Malicious, ThreatLevel: r.ThreatLevel}
	if r.DetectedAt != nil {
		ts := r.DetectedAt.UTC().Format(time.RFC3339Nano)
		out.DetectedAt = &ts
	}
	return json.Marshal(out)
}
