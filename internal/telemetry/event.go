// Package telemetry defines the authorization event stream emitted by the
// service (e.g. to OTel Logs). Emission is best-effort and never blocks a
// request.
package telemetry

import (
	"context"
	"log"
	"time"
)

// Outcome classifies how an authorization attempt ended.
type Outcome string

const (
	OutcomeAuthorized      Outcome = "authorized"
	OutcomeUnauthenticated Outcome = "unauthenticated"
	OutcomeError           Outcome = "error"
)

// AuthEvent is one authorization attempt.
type AuthEvent struct {
	UserID    int64
	SessionID string
	Outcome   Outcome
	At        time.Time
}

// EventEmitter emits authorization events. Best-effort; callers log and
// ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event AuthEvent) error
}

// emitTimeout is the max time allowed for a single async emit. Used by EmitAsync and by ShutdownDrainDuration.
const emitTimeout = 5 * time.Second

// ShutdownDrainDuration is how long to wait after the HTTP server drains before
// shutting down OTel providers, so in-flight async emits have time to complete.
// Must be >= emitTimeout.
const ShutdownDrainDuration = emitTimeout

// EmitAsync runs Emit in a goroutine with a short timeout so the request is
// not blocked. The goroutine uses context.Background() so request cancellation
// does not abort an in-flight emit. A nil emitter is a no-op.
func EmitAsync(emitter EventEmitter, event AuthEvent) {
	if emitter == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		defer cancel()
		if err := emitter.Emit(ctx, event); err != nil {
			log.Printf("telemetry: async emit failed: %v", err)
		}
	}()
}
