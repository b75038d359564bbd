package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/poyrazK/domaincheck/internal/core/domain"
	"github.com/poyrazK/domaincheck/internal/core/ports"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Response bodies for non-JSON outcomes.
const (
	msgMissingDomain   = "Missing domain parameter."
	msgInternalError   = "Internal server error"
	msgTooManyRequests = "Too many requests"
)

// APIHandler handles HTTP requests for domain checks.
type APIHandler struct {
	svc     ports.LookupService
	logger  *slog.Logger
	limiter ports.RateLimiter
}

// NewAPIHandler creates and returns a new APIHandler instance.
func NewAPIHandler(svc ports.LookupService, logger *slog.Logger) *APIHandler {
	return &APIHandler{svc: svc, logger: logger}
}

// WithRateLimiter enables per-client rate limiting on /check-domain.
func (h *APIHandler) WithRateLimiter(limiter ports.RateLimiter) *APIHandler {
	h.limiter = limiter
	return h
}

// RegisterRoutes registers the API routes with the provided ServeMux.
func (h *APIHandler) RegisterRoutes(mux *http.ServeMux) {
	check := http.Handler(http.HandlerFunc(h.CheckDomain))
	if h.limiter != nil {
		check = RateLimit(h.limiter, h.logger)(check)
	}

	mux.Handle("GET /check-domain", Instrument("/check-domain", check))
	mux.Handle("GET /health", Instrument("/health", http.HandlerFunc(h.HealthCheck)))
	mux.HandleFunc("GET /metrics", h.Metrics)
}

// Handler returns the full middleware chain around a fresh ServeMux.
func (h *APIHandler) Handler() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return RequestID(AccessLog(h.logger)(mux))
}

// Metrics handles Prometheus metrics scraping requests.
func (h *APIHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// CheckDomain reports whether the domain query parameter is listed as malicious.
func (h *APIHandler) CheckDomain(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("domain")

	res, err := h.svc.Lookup(r.Context(), name)
	if errors.Is(err, domain.ErrMissingDomain) {
		writeText(w, http.StatusBadRequest, msgMissingDomain)
		return
	}
	if err != nil {
		h.logger.Error("domain lookup failed",
			"request_id", RequestIDFrom(r.Context()),
			"domain", name,
			"error", err,
		)
		writeText(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	body, err := json.Marshal(res)
	if err != nil {
		h.logger.Error("failed to encode lookup response", "error", err)
		writeText(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// HealthCheck handles health check requests.
func (h *APIHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "UP"
	details := make(map[string]string)
	checks := h.svc.HealthCheck(r.Context())

	for name, checkErr := range checks {
		if checkErr != nil {
			status = "DEGRADED"
			details[name] = "FAIL"
			h.logger.Warn("health check failed", "check", name, "error", checkErr)
		} else {
			details[name] = "OK"
		}
	}

	resp := map[string]interface{}{
		"status":  status,
		"details": details,
	}

	w.Header().Set("Content-Type", "application/json")
	if status == "DEGRADED" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode health check response", "error", err)
	}
}

// writeText writes body verbatim; http.Error would append a newline.
func writeText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}
