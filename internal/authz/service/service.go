// Package service orchestrates credential verification, session liveness,
// and domain ancestry resolution behind a single Authorize operation.
package service

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"session-authz/internal/retry"
	"session-authz/internal/security"
)

// ErrUnauthenticated covers every credential or session failure: missing or
// invalid token, missing claims, and sessions that were reaped, revoked, or
// never created. Callers cannot distinguish those cases from each other.
var ErrUnauthenticated = errors.New("authorization failed")

// DefaultLivenessWindow is how long a session may sit idle before the reaper
// removes it.
const DefaultLivenessWindow = time.Hour

// KeySource supplies the cached verification key.
type KeySource interface {
	Verification(ctx context.Context) *rsa.PublicKey
}

// SessionRepo is the minimal session repository needed by the authorization service.
type SessionRepo interface {
	DeleteStale(ctx context.Context, cutoff time.Time) error
	Exists(ctx context.Context, userID int64, tokenID string) (bool, error)
	Touch(ctx context.Context, userID int64, tokenID string, at time.Time) error
}

// DomainResolver computes the ancestry closure for a user's assigned domain.
type DomainResolver interface {
	Closure(ctx context.Context, userID int64) ([]int64, error)
}

// Result is the outcome of a successful authorization. DomainIDs is empty
// unless the caller asked for domain resolution.
type Result struct {
	Authorized bool
	UserID     int64
	SessionID  string
	DomainIDs  []int64
}

// AuthorizationService validates a bearer credential against the session
// store and optionally resolves the caller's domain closure.
type AuthorizationService struct {
	keys     KeySource
	sessions SessionRepo
	domains  DomainResolver
	window   time.Duration
	exec     retry.Executor
	now      func() time.Time
}

// NewAuthorizationService returns an AuthorizationService with the given
// dependencies. window <= 0 falls back to DefaultLivenessWindow.
func NewAuthorizationService(
	keys KeySource,
	sessions SessionRepo,
	domains DomainResolver,
	window time.Duration,
	exec retry.Executor,
) *AuthorizationService {
	if window <= 0 {
		window = DefaultLivenessWindow
	}
	return &AuthorizationService{
		keys:     keys,
		sessions: sessions,
		domains:  domains,
		window:   window,
		exec:     exec,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Authorize verifies rawToken, reaps stale sessions, checks and refreshes
// the caller's session, and resolves the domain closure when wantDomains is
// set. The whole sequence is one retry unit: a transient store failure
// anywhere restarts it from the reap step. Credential and liveness failures
// return ErrUnauthenticated and are never retried.
func (s *AuthorizationService) Authorize(ctx context.Context, rawToken string, wantDomains bool) (*Result, error) {
	var result *Result
	err := s.exec.Do(ctx, func(ctx context.Context) error {
		r, err := s.authorizeOnce(ctx, rawToken, wantDomains)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *AuthorizationService) authorizeOnce(ctx context.Context, rawToken string, wantDomains bool) (*Result, error) {
	userID, tokenID, err := security.VerifyCredential(rawToken, s.keys.Verification(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	now := s.now()
	if err := s.sessions.DeleteStale(ctx, now.Add(-s.window)); err != nil {
		return nil, fmt.Errorf("reap stale sessions: %w", err)
	}

	live, err := s.sessions.Exists(ctx, userID, tokenID)
	if err != nil {
		return nil, fmt.Errorf("session liveness check: %w", err)
	}
	if !live {
		return nil, ErrUnauthenticated
	}

	if err := s.sessions.Touch(ctx, userID, tokenID, s.now()); err != nil {
		return nil, fmt.Errorf("session refresh: %w", err)
	}

	result := &Result{Authorized: true, UserID: userID, SessionID: tokenID, DomainIDs: []int64{}}
	if wantDomains {
		ids, err := s.domains.Closure(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("domain closure: %w", err)
		}
		if ids == nil {
			ids = []int64{}
		}
		result.DomainIDs = ids
	}
	return result, nil
}
