package driving

import "github.com/custodia-labs/confadmin/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// SetAPIURL updates the backend base URL.
	SetAPIURL(url string) error

	// SetOIDC updates the OIDC provider and client.
	SetOIDC(providerURL, clientID string) error

	// IsOIDCConfigured reports whether single sign-on can be used.
	IsOIDCConfigured() bool

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
