// Package mcp provides an MCP (Model Context Protocol) server adapter for confadmin.
// It lets AI assistants read events, sources, submissions and vote analytics.
package mcp

import "errors"

// ErrMissingEventService is returned when the event service is not provided.
var ErrMissingEventService = errors.New("mcp: event service is required")

// ErrServiceUnavailable is returned by a tool whose port was not provided.
var ErrServiceUnavailable = errors.New("mcp: service not available")
