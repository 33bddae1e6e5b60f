package oauth

import (
	"strings"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/ports/driven"
)

// Ensure AuthURLBuilder implements the interface.
var _ driven.AuthURLBuilder = (*AuthURLBuilder)(nil)

// AuthURLBuilder builds authorization URLs. The provider URL is used as the
// authorization endpoint as-is.
type AuthURLBuilder struct{}

// NewAuthURLBuilder creates an AuthURLBuilder.
func NewAuthURLBuilder() *AuthURLBuilder {
	return &AuthURLBuilder{}
}

// AuthCodeURL returns the URL the user opens to sign in.
func (b *AuthURLBuilder) AuthCodeURL(settings domain.OIDCSettings, redirectURI, state string) string {
	cfg := oauth2.Config{
		ClientID:    settings.ClientID,
		Endpoint:    oauth2.Endpoint{AuthURL: settings.ProviderURL},
		RedirectURL: redirectURI,
		Scopes:      strings.Fields(settings.Scope),
	}

	var opts []oauth2.AuthCodeOption
	if rt := strings.TrimSpace(settings.ResponseType); rt != "" && rt != "code" {
		opts = append(opts, oauth2.SetAuthURLParam("response_type", rt))
	}
	return cfg.AuthCodeURL(state, opts...)
}
