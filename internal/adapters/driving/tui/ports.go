// Package tui provides an interactive terminal user interface for confadmin.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/confadmin/internal/adapters/driven/notify"
	"github.com/custodia-labs/confadmin/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Event lists events and tracks the active one.
	Event driving.EventService

	// Source edits the active event's sources.
	Source driving.SourceService

	// Submission provides votes and conflicts.
	Submission driving.SubmissionService

	// User manages event access.
	User driving.UserService

	// Settings manages application settings.
	Settings driving.SettingsService

	// Notices delivers service notifications to the status bar.
	Notices <-chan notify.Notification
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(event driving.EventService, source driving.SourceService) *Ports {
	return &Ports{
		Event:  event,
		Source: source,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Event == nil {
		return ErrMissingEventService
	}
	if p.Source == nil {
		return ErrMissingSourceService
	}
	return nil
}
