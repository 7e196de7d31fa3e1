package security

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned when a credential is missing, malformed, or fails verification.
var ErrInvalidToken = errors.New("invalid token")

// VerifyCredential validates raw as an RS256-signed JWT against key and extracts
// the subject user id (sub, integer-valued) and session id (jti).
// A nil key fails closed: every credential is rejected until a key is available.
// Session liveness is not checked here; possession of a valid signature is
// necessary but not sufficient for authorization.
func VerifyCredential(raw string, key *rsa.PublicKey) (int64, string, error) {
	if raw == "" {
		return 0, "", fmt.Errorf("%w: no credential presented", ErrInvalidToken)
	}
	if key == nil {
		return 0, "", fmt.Errorf("%w: no verification key available", ErrInvalidToken)
	}

	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing algorithm")
		}
		return key, nil
	}, jwt.WithValidMethods([]string{"RS256"}))
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return 0, "", ErrInvalidToken
	}

	if claims.Subject == "" {
		return 0, "", fmt.Errorf("%w: missing subject claim", ErrInvalidToken)
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("%w: subject claim is not an integer", ErrInvalidToken)
	}
	if claims.ID == "" {
		return 0, "", fmt.Errorf("%w: missing session id claim", ErrInvalidToken)
	}
	return userID, claims.ID, nil
}

// Signer issues RS256-signed credentials. Login is handled elsewhere; the
// signer exists for the seed tool and tests.
type Signer struct {
	privateKey *rsa.PrivateKey
	ttl        time.Duration
}

// NewSigner returns a Signer using the given private key. ttl <= 0 means no
// expiry claim is set (liveness is the session store's job either way).
func NewSigner(privateKey *rsa.PrivateKey, ttl time.Duration) *Signer {
	return &Signer{privateKey: privateKey, ttl: ttl}
}

// Issue signs a credential for userID with a fresh session id.
// Returns the token string and its session id (jti).
func (s *Signer) Issue(userID int64) (string, string, error) {
	return s.IssueWithSessionID(userID, uuid.NewString())
}

// IssueWithSessionID signs a credential for userID carrying the given session id.
func (s *Signer) IssueWithSessionID(userID int64, sessionID string) (string, string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:  strconv.FormatInt(userID, 10),
		ID:       sessionID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	if err != nil {
		return "", "", err
	}
	return token, sessionID, nil
}
