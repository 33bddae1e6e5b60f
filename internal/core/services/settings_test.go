package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/confadmin/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/confadmin/internal/core/domain"
)

func TestSettingsService_Get_Defaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", settings.API.BaseURL)
	assert.InDelta(t, 10.0, settings.API.RateLimit, 0.0001)
	assert.Equal(t, 30*time.Second, settings.API.Timeout)
	assert.Equal(t, "/oidc-callback.html", settings.OIDC.RedirectPath)
	assert.Equal(t, "openid profile email", settings.OIDC.Scope)
	assert.Equal(t, "code", settings.OIDC.ResponseType)
	assert.False(t, settings.OIDC.IsConfigured())
}

func TestSettingsService_Get_NilStore(t *testing.T) {
	svc := NewSettingsService(nil)

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, svc.GetDefaults(), *settings)
	assert.ErrorIs(t, svc.SetAPIURL("http://x"), domain.ErrNotImplemented)
	assert.ErrorIs(t, svc.SetOIDC("http://x", "c"), domain.ErrNotImplemented)
}

func TestSettingsService_Get_Stored(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set(KeyAPIBaseURL, "https://vote.example.org/api/"))
	require.NoError(t, store.Set(KeyAPIRateLimit, 2.5))
	require.NoError(t, store.Set(KeyAPITimeout, 5))
	require.NoError(t, store.Set(KeyOIDCScope, "openid"))
	svc := NewSettingsService(store)

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "https://vote.example.org/api", settings.API.BaseURL)
	assert.InDelta(t, 2.5, settings.API.RateLimit, 0.0001)
	assert.Equal(t, 5*time.Second, settings.API.Timeout)
	assert.Equal(t, "openid", settings.OIDC.Scope)
}

func TestSettingsService_SetAPIURL(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)

	require.NoError(t, svc.SetAPIURL(" https://vote.example.org/api/ "))
	assert.Equal(t, "https://vote.example.org/api", store.GetString(KeyAPIBaseURL))

	for _, bad := range []string{"", "vote.example.org", "ftp://vote.example.org", "http://"} {
		assert.ErrorIs(t, svc.SetAPIURL(bad), domain.ErrInvalidInput, bad)
	}
}

func TestSettingsService_SetOIDC(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)
	assert.False(t, svc.IsOIDCConfigured())

	assert.ErrorIs(t, svc.SetOIDC("not a url", "client"), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.SetOIDC("https://sso.example.org/auth", " "), domain.ErrInvalidInput)

	require.NoError(t, svc.SetOIDC("https://sso.example.org/auth", " confadmin "))
	assert.Equal(t, "https://sso.example.org/auth", store.GetString(KeyOIDCProviderURL))
	assert.Equal(t, "confadmin", store.GetString(KeyOIDCClientID))
	assert.True(t, svc.IsOIDCConfigured())
}
