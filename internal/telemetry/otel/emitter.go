package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"session-authz/internal/telemetry"
)

// NewEventEmitter returns an EventEmitter that sends authorization events as
// OTel log records via the given LoggerProvider. A nil provider yields a
// no-op emitter.
func NewEventEmitter(provider *sdklog.LoggerProvider) telemetry.EventEmitter {
	if provider == nil {
		return noopEmitter{}
	}
	return &logEmitter{logger: provider.Logger("session-authz.events")}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, telemetry.AuthEvent) error { return nil }

type logEmitter struct {
	logger otellog.Logger
}

func (e *logEmitter) Emit(ctx context.Context, event telemetry.AuthEvent) error {
	rec := otellog.Record{}
	rec.SetBody(otellog.StringValue("authorization attempt"))
	rec.AddAttributes(otellog.String("outcome", string(event.Outcome)))
	if event.UserID != 0 {
		rec.AddAttributes(otellog.Int64("user_id", event.UserID))
	}
	if event.SessionID != "" {
		rec.AddAttributes(otellog.String("session_id", event.SessionID))
	}
	if event.At.IsZero() {
		rec.SetTimestamp(time.Now().UTC())
	} else {
		rec.SetTimestamp(event.At)
	}
	e.logger.Emit(ctx, rec)
	return nil
}
