// Package apiclient implements the driven backend ports over the voting
// backend's JSON REST API.
//
// # Authentication
//
// Every request except /login and /exchange carries the session token as a
// Bearer header. The token is read from the [driven.SessionStore] on each
// request through an oauth2 token source, so a login in another process is
// picked up without restarting.
//
// A 401 on an authenticated request clears the stored token and returns an
// [*APIError] that matches [domain.ErrUnauthorized]. The active event is kept.
//
// # Errors
//
// Non-2xx responses become [*APIError]. The message is taken from the
// response's "message" field, then "detail", then falls back to
// "API Error: <status> <text>". Status codes map onto domain sentinels:
//
//   - 400: [domain.ErrInvalidInput]
//   - 401: [domain.ErrUnauthorized]
//   - 403: [domain.ErrForbidden]
//   - 404: [domain.ErrNotFound]
//   - 409: [domain.ErrConflict]
//   - 429: [domain.ErrRateLimited]
//
// # Rate Limiting
//
// Requests pass through a token bucket sized from the configured rate limit.
// A 429 with Retry-After blocks further requests until the deadline passes.
package apiclient
