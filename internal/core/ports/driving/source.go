package driving

import (
	"context"

	"github.com/custodia-labs/confadmin/internal/core/domain"
)

// SourceService reconciles the server's sources with a locally edited copy.
// One instance owns the editable list and the draft of one event.
type SourceService interface {
	// Refresh fetches the event's sources and replaces the editable list.
	// On error the list is left untouched.
	Refresh(ctx context.Context, event string) error

	// Load replaces the editable list with records. Pending edits are dropped.
	Load(event string, records map[string]domain.SourceRecord)

	// Event returns the slug of the loaded event.
	Event() string

	// List returns a snapshot of the editable list ordered by id.
	List() []domain.EditableSource

	// Get returns a snapshot of one source.
	Get(id string) (domain.EditableSource, error)

	// EditField sets one current field (or the API key) and revalidates.
	EditField(id string, field domain.SourceField, value any) error

	// Discard resets current to original and clears the API key.
	Discard(id string) error

	// IsDirty reports whether the source has unsaved changes.
	IsDirty(id string) (bool, error)

	// BuildSavePayload returns the patch a save would send.
	BuildSavePayload(id string) (domain.SourcePatch, error)

	// Save validates and sends the changed fields.
	// Returns *domain.ValidationError, domain.ErrNothingToSave or domain.ErrInFlight
	// without a network call.
	Save(ctx context.Context, id string) error

	// BeginSave moves the source to saving and returns the operation to run.
	BeginSave(id string) (domain.SourceOp, error)

	// RunSave sends the operation's patch. It does not touch local state.
	RunSave(ctx context.Context, op domain.SourceOp) (*domain.SourceRecord, error)

	// CompleteSave applies the outcome of RunSave. Stale operations are ignored.
	CompleteSave(op domain.SourceOp, record *domain.SourceRecord, err error)

	// Delete removes the source on the server and then locally.
	Delete(ctx context.Context, id string) error

	// BeginDelete moves the source to deleting and returns the operation to run.
	BeginDelete(id string) (domain.SourceOp, error)

	// RunDelete sends the delete. It does not touch local state.
	RunDelete(ctx context.Context, op domain.SourceOp) error

	// CompleteDelete applies the outcome of RunDelete. Stale operations are ignored.
	CompleteDelete(op domain.SourceOp, err error)

	// Draft returns a snapshot of the new-source draft.
	Draft() domain.SourceDraft

	// EditDraft sets one draft field and revalidates the draft.
	EditDraft(field domain.SourceField, value any) error

	// ResetDraft clears the draft.
	ResetDraft()

	// CreateNew validates the draft, creates the source and appends it.
	CreateNew(ctx context.Context) (domain.EditableSource, error)

	// UpdateURLs returns the push webhook of each source.
	UpdateURLs(ctx context.Context) ([]domain.SourceUpdateURL, error)

	// ScheduleUpdate asks the backend to pull the source now.
	ScheduleUpdate(ctx context.Context, id string) error

	// Apply refreshes the event and reconciles it with the manifest,
	// creating or updating each declared source.
	Apply(ctx context.Context, event string, manifest domain.SourceManifest) (domain.ApplyReport, error)
}
