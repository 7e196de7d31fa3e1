// Package retry wraps store operations with bounded fixed-interval retry on
// transient connectivity failures. Statement and data errors are never
// retried; after the final attempt the transient error is returned as-is.
package retry

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"log"
	"net"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	// DefaultAttempts bounds consecutive tries of one retry unit.
	DefaultAttempts = 3
	// DefaultDelay is the fixed pause between attempts.
	DefaultDelay = 200 * time.Millisecond
)

// Executor runs operations with up to Attempts tries, sleeping Delay between
// them. The zero value runs the operation exactly once with no delay.
type Executor struct {
	Attempts int
	Delay    time.Duration
}

// New returns an Executor with the given bounds, clamping attempts to at least 1.
func New(attempts int, delay time.Duration) Executor {
	if attempts < 1 {
		attempts = 1
	}
	if delay < 0 {
		delay = 0
	}
	return Executor{Attempts: attempts, Delay: delay}
}

// Do runs op until it succeeds, fails non-transiently, or exhausts the
// attempt budget. The delay is a plain synchronous sleep; an in-flight
// request is not abandoned on context cancellation (the store call itself
// observes ctx on the next attempt).
func (e Executor) Do(ctx context.Context, op func(context.Context) error) error {
	attempts := e.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; ; attempt++ {
		err = op(ctx)
		if err == nil || !IsTransient(err) {
			return err
		}
		if attempt >= attempts {
			return err
		}
		log.Printf("retry: store connection error: %v - sleeping for %s and will retry (attempt #%d of %d)",
			err, e.Delay, attempt, attempts)
		time.Sleep(e.Delay)
	}
}

// IsTransient reports whether err looks like a connectivity failure worth
// retrying. Server-reported statement errors are classified as fatal even
// when wrapped, since re-running a malformed query cannot succeed.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	for _, errno := range []syscall.Errno{syscall.ECONNRESET, syscall.ECONNREFUSED, syscall.EPIPE} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
