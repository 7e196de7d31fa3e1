// Package server assembles the HTTP surface of the service.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	authzhandler "session-authz/internal/authz/handler"
	healthhandler "session-authz/internal/health/handler"
)

// Deps holds the handler dependencies for the router.
type Deps struct {
	// Authz serves the validate-user endpoint.
	Authz *authzhandler.Handler
	// HealthPinger is used for readiness (e.g. *sql.DB).
	HealthPinger healthhandler.Pinger
}

// NewRouter mounts all endpoints and returns the root handler, instrumented
// for tracing.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	healthhandler.New(deps.HealthPinger).Register(r)
	deps.Authz.Register(r)

	return otelhttp.NewHandler(r, "session-authz")
}
