package domain

import "time"

// Session is the signed-in state of the client.
// It is created at login and torn down at logout.
type Session struct {
	// Token is the bearer token issued by the backend.
	Token string

	// ActiveEvent is the slug of the selected event.
	ActiveEvent string

	// User is the signed-in account, filled after the first event listing.
	User Account

	// Method is "password" or "oidc".
	Method string

	// CreatedAt is when the token was obtained.
	CreatedAt time.Time
}

// Login methods.
const (
	LoginPassword = "password"
	LoginOIDC     = "oidc"
)

// IsAuthenticated reports whether a token is held.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != ""
}

// TokenInfo is what can be read from a token without verifying it.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
}

// IsExpired returns true if the token carries an expiry in the past.
func (t TokenInfo) IsExpired() bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(t.ExpiresAt)
}
