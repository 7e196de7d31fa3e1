package domain

import "time"

// Session is the server-side record proving a (user, token) pair is still
// logged in. Created by the login flow, refreshed on every successful
// authorization, deleted by the reaper once idle past the liveness window.
type Session struct {
	UserID   int64
	TokenID  string // jti of the credential issued at login; unique per login event
	LastSeen time.Time
}
