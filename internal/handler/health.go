package handler

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker defines an interface for checking dependency health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	service string
	db      HealthChecker
}

// NewHealthHandler creates a new HealthHandler for the named service.
func NewHealthHandler(service string, db HealthChecker) *HealthHandler {
	return &HealthHandler{
		service: service,
		db:      db,
	}
}

// HealthResponse is the liveness response.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// DBHealthResponse is the database health response.
type DBHealthResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Health is a liveness probe. It never touches the database.
//
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: h.service,
	})
}

// DBHealth runs a trivial query against the backing store.
//
// GET /db/health
func (h *HealthHandler) DBHealth(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusInternalServerError, DBHealthResponse{Error: "database not configured"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		writeJSON(w, http.StatusInternalServerError, DBHealthResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, DBHealthResponse{OK: true})
}
