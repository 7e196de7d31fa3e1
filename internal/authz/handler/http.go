// Package handler exposes the authorization service over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"session-authz/internal/authz/service"
	"session-authz/internal/telemetry"
)

// Service is the authorization operation consumed by this handler.
type Service interface {
	Authorize(ctx context.Context, rawToken string, wantDomains bool) (*service.Result, error)
}

// Handler wires the validate-user endpoint to the authorization service.
type Handler struct {
	service  Service
	emitter  telemetry.EventEmitter
	requests metric.Int64Counter
}

// New constructs an authorization handler. emitter may be nil to disable
// event emission.
func New(svc Service, emitter telemetry.EventEmitter) *Handler {
	requests, err := otel.Meter("session-authz/authz").Int64Counter(
		"authz.requests",
		metric.WithDescription("Authorization requests by outcome."),
	)
	if err != nil {
		log.Printf("authz: create request counter: %v", err)
	}
	return &Handler{service: svc, emitter: emitter, requests: requests}
}

// Register mounts the authorization endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/msapi/validateuser", h.HandleValidateUser)
}

type validateResponse struct {
	Authorized bool    `json:"authorized"`
	DomainIDs  []int64 `json:"domain_ids"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// HandleValidateUser handles GET /msapi/validateuser requests. The credential
// is read from the "token" cookie, falling back to an Authorization bearer
// header. The optional "domains" query parameter (y or n) requests the domain
// closure alongside the authorization verdict.
func (h *Handler) HandleValidateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	wantDomains, ok := parseDomainsFlag(r.URL.Query().Get("domains"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "domains must be y or n"})
		return
	}

	res, err := h.service.Authorize(ctx, extractToken(r), wantDomains)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			h.finish(ctx, telemetry.AuthEvent{Outcome: telemetry.OutcomeUnauthenticated})
			writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: "authorization failed"})
			return
		}
		log.Printf("authz: validate user: %v", err)
		h.finish(ctx, telemetry.AuthEvent{Outcome: telemetry.OutcomeError})
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: err.Error()})
		return
	}

	h.finish(ctx, telemetry.AuthEvent{
		UserID:    res.UserID,
		SessionID: res.SessionID,
		Outcome:   telemetry.OutcomeAuthorized,
	})
	writeJSON(w, http.StatusOK, validateResponse{
		Authorized: res.Authorized,
		DomainIDs:  res.DomainIDs,
	})
}

// finish records the outcome on the request counter and span and emits the
// authorization event.
func (h *Handler) finish(ctx context.Context, event telemetry.AuthEvent) {
	outcome := attribute.String("authz.outcome", string(event.Outcome))
	if h.requests != nil {
		h.requests.Add(ctx, 1, metric.WithAttributes(outcome))
	}
	trace.SpanFromContext(ctx).SetAttributes(outcome)
	event.At = time.Now().UTC()
	telemetry.EmitAsync(h.emitter, event)
}

// extractToken prefers the session cookie and falls back to a bearer header.
// A missing credential returns the empty string; the service rejects it.
func extractToken(r *http.Request) string {
	if c, err := r.Cookie("token"); err == nil && c.Value != "" {
		return c.Value
	}
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return auth[len(prefix):]
	}
	return ""
}

func parseDomainsFlag(raw string) (want bool, ok bool) {
	switch raw {
	case "":
		return false, true
	case "y", "Y":
		return true, true
	case "n", "N":
		return false, true
	default:
		return false, false
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("authz: write response: %v", err)
	}
}
