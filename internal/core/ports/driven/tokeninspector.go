package driven

import "github.com/custodia-labs/confadmin/internal/core/domain"

// TokenInspector reads claims from a session token without verifying it.
type TokenInspector interface {
	// Inspect returns what can be read from the token.
	// Returns domain.ErrInvalidInput if the token is not a JWT.
	Inspect(token string) (domain.TokenInfo, error)
}

// AuthURLBuilder builds the identity provider URL that starts an OIDC login.
type AuthURLBuilder interface {
	AuthCodeURL(settings domain.OIDCSettings, redirectURI, state string) string
}
