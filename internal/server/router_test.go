package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	authzhandler "session-authz/internal/authz/handler"
	authzservice "session-authz/internal/authz/service"
)

type stubAuthz struct{}

func (stubAuthz) Authorize(ctx context.Context, rawToken string, wantDomains bool) (*authzservice.Result, error) {
	return nil, authzservice.ErrUnauthenticated
}

type stubPinger struct{}

func (stubPinger) PingContext(ctx context.Context) error { return nil }

func TestNewRouter_Routes(t *testing.T) {
	h := NewRouter(Deps{
		Authz:        authzhandler.New(stubAuthz{}, nil),
		HealthPinger: stubPinger{},
	})

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/health", http.StatusOK},
		{"/msapi/validateuser", http.StatusUnauthorized},
		{"/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.wantStatus {
			t.Fatalf("GET %s status = %d, want %d", tt.path, rec.Code, tt.wantStatus)
		}
	}
}
