package repository

import "context"

// Repository reads the single bootstrap verification-key record. The record
// is written once at install time; Put exists for the seed tool.
type Repository interface {
	// Key returns the base64-encoded PEM key, or "" when no record exists.
	Key(ctx context.Context) (string, error)
	Put(ctx context.Context, keyB64 string) error
}
