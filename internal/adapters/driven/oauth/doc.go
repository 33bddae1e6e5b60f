// Package oauth implements the OIDC-facing driven ports.
//
// AuthURLBuilder turns the configured provider into an authorization URL
// with golang.org/x/oauth2. TokenInspector reads the subject and expiry of a
// backend-issued JWT without verifying its signature; the backend remains the
// only authority on whether a token is valid.
package oauth
