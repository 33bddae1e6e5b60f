package driving

import (
	"context"

	"github.com/custodia-labs/confadmin/internal/core/domain"
)

// UserService manages who may access an event.
type UserService interface {
	// List returns the event's users with the signed-in user first.
	List(ctx context.Context, event string) ([]domain.EventUser, error)

	// Search finds users not yet assigned to the event.
	Search(ctx context.Context, event, query string) ([]domain.UserSummary, error)

	// SetPermission assigns a settable permission.
	SetPermission(ctx context.Context, event, userID string, perm domain.Permission) error

	// Remove takes the user off the event.
	Remove(ctx context.Context, event, userID string) error
}
