package driven

import (
	"context"

	"github.com/custodia-labs/confadmin/internal/core/domain"
)

// SessionStore persists the signed-in session between invocations.
type SessionStore interface {
	// Load returns the stored session. Returns an empty session if none is stored.
	Load(ctx context.Context) (*domain.Session, error)

	// Save stores the session, replacing any previous one.
	Save(ctx context.Context, session domain.Session) error

	// Clear removes the stored session.
	Clear(ctx context.Context) error
}
