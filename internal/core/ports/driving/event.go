package driving

import (
	"context"

	"github.com/custodia-labs/confadmin/internal/core/domain"
)

// EventService manages events and the active event.
type EventService interface {
	// List returns the visible events and remembers the signed-in account.
	List(ctx context.Context) (*domain.EventList, error)

	// Get returns one event by slug.
	Get(ctx context.Context, slug string) (*domain.Event, error)

	// Create creates an event.
	Create(ctx context.Context, name, slug string) (*domain.Event, error)

	// Use makes the event the active one.
	Use(ctx context.Context, slug string) error

	// Active returns the active event slug.
	Active(ctx context.Context) (string, error)

	// Resolve returns slug if set, else the active event.
	// Returns domain.ErrNoActiveEvent if neither exists.
	Resolve(ctx context.Context, slug string) (string, error)

	// Overview returns the headline counters of an event.
	Overview(ctx context.Context, slug string) (*domain.Overview, error)

	// UpdateDetails saves the edited fields of the general settings form.
	UpdateDetails(ctx context.Context, form domain.GeneralSettings) error
}
