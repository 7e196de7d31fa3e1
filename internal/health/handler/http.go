// Package handler exposes the health endpoint for Kubernetes, load
// balancers, and CI.
package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ServiceName identifies this service in health responses.
const ServiceName = "session-authz"

// Pinger reports whether the backing store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler answers readiness probes with the store's reachability.
type Handler struct {
	store Pinger
}

// New returns a health handler probing the given store.
func New(store Pinger) *Handler {
	return &Handler{store: store}
}

// Register mounts the health endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleHealth)
}

type healthResponse struct {
	Status      string `json:"status"`
	ServiceName string `json:"service_name"`
}

// HandleHealth handles GET /health requests. UP requires a successful
// round trip to the session store.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := healthResponse{Status: "UP", ServiceName: ServiceName}
	if err := h.store.PingContext(r.Context()); err != nil {
		log.Printf("health: store ping: %v", err)
		status = http.StatusServiceUnavailable
		body.Status = "DOWN"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("health: write response: %v", err)
	}
}
