package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/ports/driven"
	"github.com/custodia-labs/confadmin/internal/core/ports/driving"
	"github.com/custodia-labs/confadmin/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// AuthService starts and ends sessions.
type AuthService struct {
	api       driven.AuthAPI
	sessions  driven.SessionStore
	settings  driving.SettingsService
	urls      driven.AuthURLBuilder
	inspector driven.TokenInspector
	now       func() time.Time
}

// NewAuthService creates a new auth service.
func NewAuthService(api driven.AuthAPI, sessions driven.SessionStore, settings driving.SettingsService) *AuthService {
	return &AuthService{
		api:      api,
		sessions: sessions,
		settings: settings,
		now:      time.Now,
	}
}

// SetOIDC sets the builder used for single sign-on URLs.
func (s *AuthService) SetOIDC(urls driven.AuthURLBuilder) {
	s.urls = urls
}

// SetTokenInspector sets the reader used by TokenInfo.
func (s *AuthService) SetTokenInspector(inspector driven.TokenInspector) {
	s.inspector = inspector
}

// Login signs in with a username and password and starts a session.
func (s *AuthService) Login(ctx context.Context, username, password string) error {
	if s.api == nil || s.sessions == nil {
		return domain.ErrNotImplemented
	}
	if strings.TrimSpace(username) == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}
	token, err := s.api.Login(ctx, username, password)
	if err != nil {
		return err
	}
	return s.start(ctx, token, domain.LoginPassword)
}

// OIDCAuthURL returns the provider URL to open and the state to expect back.
func (s *AuthService) OIDCAuthURL(redirectURI string) (string, string, error) {
	if s.settings == nil || s.urls == nil {
		return "", "", domain.ErrNotImplemented
	}
	settings, err := s.settings.Get()
	if err != nil {
		return "", "", err
	}
	if !settings.OIDC.IsConfigured() {
		return "", "", domain.ErrOIDCNotConfigured
	}
	state, err := generateState()
	if err != nil {
		return "", "", fmt.Errorf("generate state: %w", err)
	}
	return s.urls.AuthCodeURL(settings.OIDC, redirectURI, state), state, nil
}

// CompleteOIDC exchanges the authorization code and starts a session.
func (s *AuthService) CompleteOIDC(ctx context.Context, code string) error {
	if s.api == nil || s.sessions == nil {
		return domain.ErrNotImplemented
	}
	if code == "" {
		return fmt.Errorf("%w: authorization code missing", domain.ErrInvalidInput)
	}
	token, err := s.api.ExchangeCode(ctx, code)
	if err != nil {
		return err
	}
	return s.start(ctx, token, domain.LoginOIDC)
}

// start replaces any previous session. The active event does not carry over
// between accounts.
func (s *AuthService) start(ctx context.Context, token, method string) error {
	if token == "" {
		return fmt.Errorf("%w: backend returned an empty token", domain.ErrUnauthorized)
	}
	logger.Debug("Starting %s session", method)
	return s.sessions.Save(ctx, domain.Session{
		Token:     token,
		Method:    method,
		CreatedAt: s.now(),
	})
}

// Logout ends the session.
func (s *AuthService) Logout(ctx context.Context) error {
	if s.sessions == nil {
		return domain.ErrNotImplemented
	}
	return s.sessions.Clear(ctx)
}

// Session returns the current session.
func (s *AuthService) Session(ctx context.Context) (*domain.Session, error) {
	if s.sessions == nil {
		return nil, domain.ErrNotImplemented
	}
	sess, err := s.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		sess = &domain.Session{}
	}
	return sess, nil
}

// TokenInfo returns the claims readable from the session token.
func (s *AuthService) TokenInfo(ctx context.Context) (domain.TokenInfo, error) {
	if s.inspector == nil {
		return domain.TokenInfo{}, domain.ErrNotImplemented
	}
	sess, err := s.Session(ctx)
	if err != nil {
		return domain.TokenInfo{}, err
	}
	if !sess.IsAuthenticated() {
		return domain.TokenInfo{}, domain.ErrNotAuthenticated
	}
	return s.inspector.Inspect(sess.Token)
}
