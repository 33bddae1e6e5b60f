package driven

import (
	"context"

	"github.com/custodia-labs/confadmin/internal/core/domain"
)

// AuthAPI obtains session tokens from the backend.
type AuthAPI interface {
	// Login exchanges a username and password for a token.
	Login(ctx context.Context, username, password string) (string, error)

	// ExchangeCode exchanges an OIDC authorization code for a token.
	ExchangeCode(ctx context.Context, code string) (string, error)
}

// EventAPI manages events.
type EventAPI interface {
	// ListEvents returns the events visible to the signed-in user.
	ListEvents(ctx context.Context) (*domain.EventList, error)

	// CreateEvent creates an event. Returns domain.ErrConflict if the slug is taken.
	CreateEvent(ctx context.Context, name, slug string) (*domain.Event, error)

	// UpdateEvent changes an event's name or voting switch.
	UpdateEvent(ctx context.Context, slug string, patch domain.EventDetailsPatch) error

	// Overview returns the headline counters of an event.
	Overview(ctx context.Context, slug string) (*domain.Overview, error)
}

// SourceAPI manages the sources of an event.
type SourceAPI interface {
	// FetchSources returns the full source set keyed by id.
	FetchSources(ctx context.Context, event string) (map[string]domain.SourceRecord, error)

	// UpsertSource creates or updates a source and returns the stored record.
	// The patch must carry an apikey when it sets url or eventSlug.
	UpsertSource(ctx context.Context, event, id string, patch domain.SourcePatch) (*domain.SourceRecord, error)

	// DeleteSource removes a source. Returns domain.ErrNotFound if it does not exist.
	DeleteSource(ctx context.Context, event, id string) error

	// SourceUpdateURLs returns the push webhook of each source.
	SourceUpdateURLs(ctx context.Context, event string) ([]domain.SourceUpdateURL, error)

	// ScheduleUpdate asks the backend to pull the source now.
	ScheduleUpdate(ctx context.Context, event, id string) error
}

// SubmissionAPI reads submissions and the server-side analytics over them.
type SubmissionAPI interface {
	// Submissions returns the submissions of an event.
	Submissions(ctx context.Context, event string) ([]domain.Submission, error)

	// Ratings returns the vote counters keyed by submission id.
	Ratings(ctx context.Context, event string) (map[string]domain.Rating, error)

	// Conflicts returns the n most correlated submission pairs.
	Conflicts(ctx context.Context, event string, kind domain.ConflictType, n int) ([]domain.Conflict, error)

	// Similar returns the n submissions most similar to submissionID.
	Similar(ctx context.Context, event, submissionID string, kind domain.ConflictType, n int) ([]domain.Similarity, error)
}

// UserAPI manages per-event user permissions.
type UserAPI interface {
	// EventUsers lists the users assigned to an event.
	EventUsers(ctx context.Context, event string) ([]domain.EventUser, error)

	// SetUserPermission assigns a permission. domain.PermissionNone removes the user.
	SetUserPermission(ctx context.Context, event, userID string, perm domain.Permission) error

	// SearchUsers finds users by name or email.
	SearchUsers(ctx context.Context, event, query string, n int) ([]domain.UserSummary, error)
}
