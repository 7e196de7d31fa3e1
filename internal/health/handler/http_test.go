package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) PingContext(ctx context.Context) error {
	return f.err
}

func serveHealth(pinger Pinger) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	New(pinger).Register(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	return rec
}

func TestHandleHealth_Up(t *testing.T) {
	rec := serveHealth(&fakePinger{})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body struct {
		Status      string `json:"status"`
		ServiceName string `json:"service_name"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "UP" {
		t.Fatalf("status = %q, want UP", body.Status)
	}
	if body.ServiceName != ServiceName {
		t.Fatalf("service_name = %q, want %q", body.ServiceName, ServiceName)
	}
}

func TestHandleHealth_Down(t *testing.T) {
	rec := serveHealth(&fakePinger{err: errors.New("connection refused")})

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "DOWN" {
		t.Fatalf("status = %q, want DOWN", body.Status)
	}
}
