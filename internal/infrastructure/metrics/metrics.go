package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LookupsTotal tracks domain checks by outcome (malicious, clean, bad_request, error)
	LookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "domaincheck_lookups_total",
		Help: "Total number of domain lookups processed",
	}, []string{"result"})

	// StageDuration tracks time spent in each lookup stage
	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "domaincheck_stage_duration_seconds",
		Help:    "Histogram of lookup stage duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	// FailuresTotal tracks server-side failures by stage
	FailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "domaincheck_failures_total",
		Help: "Total number of lookup failures by stage",
	}, []string{"stage"})

	// DBConnectionsActive tracks open database connections
	DBConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "domaincheck_db_connections_active",
		Help: "Number of active database connections",
	})

	// HTTPRequestsTotal tracks API requests by route and status code
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "domaincheck_http_requests_total",
		Help: "Total number of HTTP requests served",
	}, []string{"route", "code"})

	// RateLimitedTotal tracks requests rejected by the rate limiter
	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "domaincheck_rate_limited_total",
		Help: "Total number of requests rejected by the rate limiter",
	})
)

// Lookup stage labels.
const (
	StageSecret  = "secret"
	StageConnect = "connect"
	StageQuery   = "query"
	StageTotal   = "total"
)
