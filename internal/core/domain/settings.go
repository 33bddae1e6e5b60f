package domain

import "time"

// Placeholders shipped in sample configuration. A value equal to one of
// these counts as unset.
const (
	PlaceholderProviderURL = "YOUR_OIDC_PROVIDER_URL"
	PlaceholderClientID    = "YOUR_OIDC_CLIENT_ID"
)

// APISettings configures the backend client.
type APISettings struct {
	// BaseURL is the API root, e.g. https://vote.example.org/api.
	BaseURL string

	// RateLimit is the maximum requests per second.
	RateLimit float64

	// Timeout bounds each request.
	Timeout time.Duration
}

// DefaultAPISettings returns the defaults used when nothing is configured.
func DefaultAPISettings() APISettings {
	return APISettings{
		BaseURL:   "http://localhost:8080/api",
		RateLimit: 10,
		Timeout:   30 * time.Second,
	}
}

// OIDCSettings configures single sign-on.
type OIDCSettings struct {
	ProviderURL  string
	ClientID     string
	RedirectPath string
	Scope        string
	ResponseType string
}

// DefaultOIDCSettings returns the defaults for everything but provider and client.
func DefaultOIDCSettings() OIDCSettings {
	return OIDCSettings{
		RedirectPath: "/oidc-callback.html",
		Scope:        "openid profile email",
		ResponseType: "code",
	}
}

// IsConfigured reports whether provider and client are set to real values.
func (o OIDCSettings) IsConfigured() bool {
	return o.ProviderURL != "" && o.ClientID != "" &&
		o.ProviderURL != PlaceholderProviderURL && o.ClientID != PlaceholderClientID
}

// AppSettings is the full client configuration.
type AppSettings struct {
	API  APISettings
	OIDC OIDCSettings
}
