package handlers

import (
	"context"
	"net/http"

	"github.com/DanielPopoola/ficmart-payment-ledger/internal/application"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/interfaces/rest"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HandleLive)
	mux.HandleFunc("GET /health/ready", h.HandleReady)
}

func (h *HealthHandler) HandleLive(w http.ResponseWriter, _ *http.Request) {
	rest.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleReady fails with 503 while the database is unreachable.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		rest.WriteError(w, &application.ServiceError{
			Code:       application.ErrCodeUnavailable,
			Message:    "Database unavailable",
			HTTPStatus: http.StatusServiceUnavailable,
			Err:        err,
		})
		return
	}
	rest.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
