package telemetry

import (
	"context"
	"testing"
	"time"
)

type recordingEmitter struct {
	got  chan AuthEvent
	fail error
}

func (r *recordingEmitter) Emit(ctx context.Context, event AuthEvent) error {
	r.got <- event
	return r.fail
}

func TestEmitAsync_DeliversEvent(t *testing.T) {
	emitter := &recordingEmitter{got: make(chan AuthEvent, 1)}
	want := AuthEvent{UserID: 42, SessionID: "abc", Outcome: OutcomeAuthorized, At: time.Now().UTC()}

	EmitAsync(emitter, want)

	select {
	case got := <-emitter.got:
		if got.UserID != want.UserID || got.SessionID != want.SessionID || got.Outcome != want.Outcome {
			t.Fatalf("emitted %+v, want %+v", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event never emitted")
	}
}

func TestEmitAsync_NilEmitterIsNoop(t *testing.T) {
	EmitAsync(nil, AuthEvent{UserID: 1})
}

func TestShutdownDrainCoversEmitTimeout(t *testing.T) {
	if ShutdownDrainDuration < emitTimeout {
		t.Fatalf("drain %s shorter than emit timeout %s", ShutdownDrainDuration, emitTimeout)
	}
}
