package handlers

import (
	"context"
	"net/http"
	"time"
)

// ReadinessPinger probes the backing transaction store.
type ReadinessPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers serves the /healthz and /readyz endpoints.
type HealthHandlers struct {
	pinger ReadinessPinger
	clock  func() time.Time
}

// HealthOption customises the health handlers.
type HealthOption func(*HealthHandlers)

// WithHealthReadiness wires the store probe used by /readyz.
func WithHealthReadiness(p ReadinessPinger) HealthOption {
	return func(h *HealthHandlers) {
		h.pinger = p
	}
}

// WithHealthClock overrides the clock, used by tests.
func WithHealthClock(clock func() time.Time) HealthOption {
	return func(h *HealthHandlers) {
		h.clock = clock
	}
}

// NewHealthHandlers constructs health handlers with optional overrides.
func NewHealthHandlers(opts ...HealthOption) *HealthHandlers {
	h := &HealthHandlers{clock: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	if h.clock == nil {
		h.clock = time.Now
	}
	return h
}

type healthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

type readinessResponse struct {
	Status string            `json:"status"`
	Time   string            `json:"time"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz reports process liveness. It never touches downstream dependencies.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, healthResponse{
		Status: "ok",
		Time:   h.clock().UTC().Format(time.RFC3339),
	})
}

// Readyz reports whether the transaction store answers queries. Without a
// configured probe the endpoint degrades to a liveness check.
func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	resp := readinessResponse{
		Status: "ok",
		Time:   h.clock().UTC().Format(time.RFC3339),
	}
	if h.pinger == nil {
		writeJSONResponse(w, http.StatusOK, resp)
		return
	}

	if err := h.pinger.Ping(r.Context()); err != nil {
		resp.Status = "unavailable"
		resp.Checks = map[string]string{"firestore": err.Error()}
		writeJSONResponse(w, http.StatusServiceUnavailable, resp)
		return
	}

	resp.Checks = map[string]string{"firestore": "ok"}
	writeJSONResponse(w, http.StatusOK, resp)
}
