package driving

import (
	"context"

	"github.com/custodia-labs/confadmin/internal/core/domain"
)

// SubmissionService lists submissions and the analytics derived from them.
type SubmissionService interface {
	// List returns the event's submissions ordered by code.
	List(ctx context.Context, event string) ([]domain.Submission, error)

	// Votes returns one row per submission with derived ratios.
	Votes(ctx context.Context, event string) ([]domain.VoteRow, error)

	// Conflicts returns correlated pairs joined with their submissions.
	Conflicts(ctx context.Context, event string, kind domain.ConflictType, n int) ([]domain.ConflictRow, error)

	// Similar returns submissions similar to submissionID.
	Similar(ctx context.Context, event, submissionID string, kind domain.ConflictType, n int) ([]domain.SimilarRow, error)
}
