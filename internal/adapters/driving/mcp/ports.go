package mcp

import (
	"github.com/custodia-labs/confadmin/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Event lists events and resolves the active one.
	Event driving.EventService

	// Source reads source configuration.
	Source driving.SourceService

	// Submission reads submissions, votes and conflicts.
	Submission driving.SubmissionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Event == nil {
		return ErrMissingEventService
	}
	// Source and Submission tools report an error when their port is missing.
	return nil
}
