package services

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/ports/driven"
	"github.com/custodia-labs/confadmin/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyAPIBaseURL       = "api.base_url"
	KeyAPIRateLimit     = "api.rate_limit"
	KeyAPITimeout       = "api.timeout"
	KeyOIDCProviderURL  = "oidc.provider_url"
	KeyOIDCClientID     = "oidc.client_id"
	KeyOIDCRedirectPath = "oidc.redirect_path"
	KeyOIDCScope        = "oidc.scope"
	KeyOIDCResponseType = "oidc.response_type"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings with defaults filled in.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := s.GetDefaults()
	if s.configStore == nil {
		return &defaults, nil
	}

	settings := &domain.AppSettings{
		API: domain.APISettings{
			BaseURL:   strings.TrimRight(s.getString(KeyAPIBaseURL, defaults.API.BaseURL), "/"),
			RateLimit: s.getFloat(KeyAPIRateLimit, defaults.API.RateLimit),
			Timeout:   s.getSeconds(KeyAPITimeout, defaults.API.Timeout),
		},
		OIDC: domain.OIDCSettings{
			ProviderURL:  s.configStore.GetString(KeyOIDCProviderURL),
			ClientID:     s.configStore.GetString(KeyOIDCClientID),
			RedirectPath: s.getString(KeyOIDCRedirectPath, defaults.OIDC.RedirectPath),
			Scope:        s.getString(KeyOIDCScope, defaults.OIDC.Scope),
			ResponseType: s.getString(KeyOIDCResponseType, defaults.OIDC.ResponseType),
		},
	}
	return settings, nil
}

// SetAPIURL updates the backend base URL.
func (s *SettingsService) SetAPIURL(raw string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if !isHTTPURL(raw) {
		return fmt.Errorf("%w: API URL must be an absolute http or https URL", domain.ErrInvalidInput)
	}
	return s.configStore.Set(KeyAPIBaseURL, raw)
}

// SetOIDC updates the OIDC provider and client.
func (s *SettingsService) SetOIDC(providerURL, clientID string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	providerURL = strings.TrimSpace(providerURL)
	if _, err := url.ParseRequestURI(providerURL); err != nil {
		return fmt.Errorf("%w: provider URL: %v", domain.ErrInvalidInput, err)
	}
	if strings.TrimSpace(clientID) == "" {
		return fmt.Errorf("%w: client id is required", domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(KeyOIDCProviderURL, providerURL); err != nil {
		return err
	}
	return s.configStore.Set(KeyOIDCClientID, strings.TrimSpace(clientID))
}

// IsOIDCConfigured reports whether single sign-on can be used.
func (s *SettingsService) IsOIDCConfigured() bool {
	settings, err := s.Get()
	if err != nil {
		return false
	}
	return settings.OIDC.IsConfigured()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.AppSettings{
		API:  domain.DefaultAPISettings(),
		OIDC: domain.DefaultOIDCSettings(),
	}
}

func (s *SettingsService) getString(key, def string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return def
}

func (s *SettingsService) getFloat(key string, def float64) float64 {
	if v := s.configStore.GetFloat(key); v > 0 {
		return v
	}
	return def
}

func (s *SettingsService) getSeconds(key string, def time.Duration) time.Duration {
	if v := s.configStore.GetInt(key); v > 0 {
		return time.Duration(v) * time.Second
	}
	return def
}
