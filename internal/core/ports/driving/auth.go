package driving

import (
	"context"

	"github.com/custodia-labs/confadmin/internal/core/domain"
)

// AuthService manages the signed-in session.
type AuthService interface {
	// Login signs in with a username and password and starts a session.
	Login(ctx context.Context, username, password string) error

	// OIDCAuthURL returns the provider URL to open and the state to expect back.
	OIDCAuthURL(redirectURI string) (authURL, state string, err error)

	// CompleteOIDC exchanges the authorization code and starts a session.
	CompleteOIDC(ctx context.Context, code string) error

	// Logout ends the session.
	Logout(ctx context.Context) error

	// Session returns the current session. Never nil.
	Session(ctx context.Context) (*domain.Session, error)

	// TokenInfo returns the claims readable from the session token.
	TokenInfo(ctx context.Context) (domain.TokenInfo, error)
}
