package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/ports/driven"
	"github.com/custodia-labs/confadmin/internal/logger"
)

// Ensure Client implements the backend ports.
var (
	_ driven.AuthAPI       = (*Client)(nil)
	_ driven.EventAPI      = (*Client)(nil)
	_ driven.SourceAPI     = (*Client)(nil)
	_ driven.SubmissionAPI = (*Client)(nil)
	_ driven.UserAPI       = (*Client)(nil)
)

// HeaderRequestID correlates a request with backend logs.
const HeaderRequestID = "X-Request-ID"

// Paths that never carry a token and never clear the session on 401.
const (
	pathLogin    = "/login"
	pathExchange = "/exchange"
)

// Client talks to the voting backend.
type Client struct {
	baseURL  string
	plain    *http.Client
	authed   *http.Client
	limiter  *RateLimiter
	sessions driven.SessionStore
}

// New creates a client for the configured backend. The session store
// supplies the bearer token and is cleared of it on 401.
func New(settings domain.APISettings, sessions driven.SessionStore) *Client {
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultAPISettings().Timeout
	}

	plain := &http.Client{Timeout: timeout}
	authed := plain
	if sessions != nil {
		authed = &http.Client{
			Timeout: timeout,
			Transport: &oauth2.Transport{
				Source: &sessionTokenSource{sessions: sessions},
				Base:   http.DefaultTransport,
			},
		}
	}

	return &Client{
		baseURL:  strings.TrimRight(settings.BaseURL, "/"),
		plain:    plain,
		authed:   authed,
		limiter:  NewRateLimiter(settings.RateLimit),
		sessions: sessions,
	}
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends one request. in is encoded as JSON when non-nil; out is decoded
// from the response unless it is nil or the status is 204.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)

	open := isOpenPath(path)
	client := c.authed
	if open {
		client = c.plain
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	logger.Debug("%s %s -> %d in %s (request %s)", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond), requestID)

	if err := c.limiter.CheckRateLimit(resp); err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && !open {
		c.dropToken(ctx)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    domain.ErrUnauthorized.Error(),
			URL:        req.URL.String(),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp, req.URL.String())
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// dropToken clears the stored token, keeping the rest of the session.
func (c *Client) dropToken(ctx context.Context) {
	if c.sessions == nil {
		return
	}
	sess, err := c.sessions.Load(ctx)
	if err != nil || sess.Token == "" {
		return
	}
	logger.Warn("Session rejected by backend, clearing token")
	sess.Token = ""
	if err := c.sessions.Save(ctx, *sess); err != nil {
		logger.Warn("Failed to clear session token: %v", err)
	}
}

// resolve turns a server-relative path into an absolute URL on the backend host.
func (c *Client) resolve(ref string) string {
	if !strings.HasPrefix(ref, "/") {
		return ref
	}
	base, err := url.Parse(c.baseURL)
	if err != nil || base.Host == "" {
		return ref
	}
	rel, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(rel).String()
}

func isOpenPath(path string) bool {
	return path == pathLogin || path == pathExchange
}

// segment escapes one path segment.
func segment(s string) string {
	return url.PathEscape(s)
}

// sessionTokenSource reads the bearer token from the session store on
// every request.
type sessionTokenSource struct {
	sessions driven.SessionStore
}

func (s *sessionTokenSource) Token() (*oauth2.Token, error) {
	sess, err := s.sessions.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !sess.IsAuthenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: sess.Token, TokenType: "Bearer"}, nil
}
