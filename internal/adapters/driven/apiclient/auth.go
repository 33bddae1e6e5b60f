package apiclient

import (
	"context"
	"net/http"
)

type tokenResponse struct {
	Token string `json:"token"`
}

// Login exchanges a username and password for a token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	in := map[string]string{"username": username, "password": password}
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, pathLogin, in, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// ExchangeCode exchanges an OIDC authorization code for a token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	in := map[string]string{"code": code}
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, pathExchange, in, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}
