package oauth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/ports/driven"
)

// Ensure TokenInspector implements the interface.
var _ driven.TokenInspector = (*TokenInspector)(nil)

// TokenInspector reads registered claims from a JWT without verifying it.
type TokenInspector struct {
	parser *jwt.Parser
}

// NewTokenInspector creates a TokenInspector.
func NewTokenInspector() *TokenInspector {
	return &TokenInspector{parser: jwt.NewParser()}
}

// Inspect returns the subject and expiry of token.
// Opaque tokens yield domain.ErrInvalidInput.
func (i *TokenInspector) Inspect(token string) (domain.TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := i.parser.ParseUnverified(token, claims); err != nil {
		return domain.TokenInfo{}, fmt.Errorf("%w: token is not a JWT: %v", domain.ErrInvalidInput, err)
	}

	var info domain.TokenInfo
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return domain.TokenInfo{}, fmt.Errorf("%w: exp claim: %v", domain.ErrInvalidInput, err)
	}
	if exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}
