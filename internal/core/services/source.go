package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/ports/driven"
	"github.com/custodia-labs/confadmin/internal/core/ports/driving"
	"github.com/custodia-labs/confadmin/internal/logger"
)

// Ensure SourceService implements the interface.
var _ driving.SourceService = (*SourceService)(nil)

// SourceService is the source reconciliation engine. It keeps an editable
// copy of each server-side source, validates edits and sends minimal patches.
//
// State is guarded by mu. Network calls never run under the lock, so saves
// and deletes for different sources may overlap. A reload bumps generation,
// which turns completions of operations started before it into no-ops.
type SourceService struct {
	api      driven.SourceAPI
	notifier driven.Notifier

	mu         sync.Mutex
	event      string
	generation uint64
	sources    []*domain.EditableSource
	draft      domain.SourceDraft
	creating   map[string]struct{}
}

// NewSourceService creates a new source service.
func NewSourceService(api driven.SourceAPI, notifier driven.Notifier) *SourceService {
	return &SourceService{
		api:      api,
		notifier: notifier,
		draft:    domain.NewSourceDraft(),
		creating: make(map[string]struct{}),
	}
}

// Refresh fetches the event's sources and replaces the editable list.
func (s *SourceService) Refresh(ctx context.Context, event string) error {
	if s.api == nil {
		return domain.ErrNotImplemented
	}
	if event == "" {
		return domain.ErrNoActiveEvent
	}
	records, err := s.api.FetchSources(ctx, event)
	if err != nil {
		return fmt.Errorf("fetch sources: %w", err)
	}
	s.Load(event, records)
	return nil
}

// Load replaces the editable list with records. Pending edits are dropped.
func (s *SourceService) Load(event string, records map[string]domain.SourceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event != s.event {
		s.draft = domain.NewSourceDraft()
	}
	s.event = event
	s.generation++

	s.sources = make([]*domain.EditableSource, 0, len(records))
	for id, r := range records {
		r.ID = id
		src := domain.NewEditableSource(r)
		src.Errors = ValidateSource(src)
		s.sources = append(s.sources, src)
	}
	sort.Slice(s.sources, func(i, j int) bool { return s.sources[i].ID < s.sources[j].ID })

	if !s.draftIsEmpty() {
		s.draft.Errors = ValidateDraft(&s.draft, s.idsLocked())
	}
	logger.Debug("Loaded %d sources for %s (generation %d)", len(s.sources), event, s.generation)
}

// Event returns the slug of the loaded event.
func (s *SourceService) Event() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.event
}

// List returns a snapshot of the editable list ordered by id.
func (s *SourceService) List() []domain.EditableSource {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.EditableSource, 0, len(s.sources))
	for _, src := range s.sources {
		out = append(out, src.Clone())
	}
	return out
}

// Get returns a snapshot of one source.
func (s *SourceService) Get(id string) (domain.EditableSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, _ := s.findLocked(id)
	if src == nil {
		return domain.EditableSource{}, domain.ErrSourceNotFound
	}
	return src.Clone(), nil
}

// EditField sets one current field (or the API key) and revalidates.
func (s *SourceService) EditField(id string, field domain.SourceField, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, _ := s.findLocked(id)
	if src == nil {
		return domain.ErrSourceNotFound
	}
	if src.InFlight() {
		return domain.ErrInFlight
	}
	if err := applySourceField(src, field, value); err != nil {
		return err
	}
	src.Errors = ValidateSource(src)
	if src.State != domain.StateEditing {
		src.State = domain.StateEditing
		src.LastError = nil
	}
	return nil
}

// Discard resets current to original and clears the API key.
func (s *SourceService) Discard(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, _ := s.findLocked(id)
	if src == nil {
		return domain.ErrSourceNotFound
	}
	if src.InFlight() {
		return domain.ErrInFlight
	}
	src.Current = src.Original
	src.APIKey = ""
	src.Errors = ValidateSource(src)
	src.State = domain.StateEditing
	src.LastError = nil
	return nil
}

// IsDirty reports whether the source has unsaved changes.
func (s *SourceService) IsDirty(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, _ := s.findLocked(id)
	if src == nil {
		return false, domain.ErrSourceNotFound
	}
	return IsDirty(src), nil
}

// BuildSavePayload returns the patch a save would send.
func (s *SourceService) BuildSavePayload(id string) (domain.SourcePatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, _ := s.findLocked(id)
	if src == nil {
		return domain.SourcePatch{}, domain.ErrSourceNotFound
	}
	return BuildSavePayload(src), nil
}

// Save validates and sends the changed fields of one source.
func (s *SourceService) Save(ctx context.Context, id string) error {
	op, err := s.BeginSave(id)
	if err != nil {
		return err
	}
	record, err := s.RunSave(ctx, op)
	s.CompleteSave(op, record, err)
	return err
}

// BeginSave validates the source, builds its patch and moves it to saving.
func (s *SourceService) BeginSave(id string) (domain.SourceOp, error) {
	if s.api == nil {
		return domain.SourceOp{}, domain.ErrNotImplemented
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	src, _ := s.findLocked(id)
	if src == nil {
		return domain.SourceOp{}, domain.ErrSourceNotFound
	}
	if src.InFlight() {
		return domain.SourceOp{}, domain.ErrInFlight
	}

	src.Errors = ValidateSource(src)
	if !src.Errors.Empty() {
		s.notifyError(fmt.Sprintf("Source %q has validation errors.", id))
		return domain.SourceOp{}, &domain.ValidationError{Fields: src.Clone().Errors}
	}

	patch := BuildSavePayload(src)
	if patch.IsEmpty() {
		// A key typed without a url or eventSlug change authorises nothing.
		src.APIKey = ""
		src.Errors = ValidateSource(src)
		s.notifyInfo(fmt.Sprintf("No changes to save for source %q.", id))
		return domain.SourceOp{}, domain.ErrNothingToSave
	}

	src.State = domain.StateSaving
	src.LastError = nil
	return domain.SourceOp{Event: s.event, ID: id, Generation: s.generation, Patch: patch}, nil
}

// RunSave sends the operation's patch. It does not touch local state.
func (s *SourceService) RunSave(ctx context.Context, op domain.SourceOp) (*domain.SourceRecord, error) {
	if s.api == nil {
		return nil, domain.ErrNotImplemented
	}
	logger.Debug("Saving source %s/%s", op.Event, op.ID)
	return s.api.UpsertSource(ctx, op.Event, op.ID, op.Patch)
}

// CompleteSave applies the outcome of RunSave. On success both snapshots take
// the server's returned fields. On failure the edits are kept for a retry.
func (s *SourceService) CompleteSave(op domain.SourceOp, record *domain.SourceRecord, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.liveLocked(op)
	if err != nil {
		s.notifyError(fmt.Sprintf("Failed to save source %q: %v", op.ID, err))
		if src != nil {
			src.State = domain.StateFailed
			src.LastError = err
		}
		return
	}
	s.notifySuccess(fmt.Sprintf("Source %q saved successfully.", op.ID))
	if src == nil {
		return
	}

	confirmed := src.Current
	if record != nil {
		confirmed = record.Fields()
	}
	src.Original = confirmed
	src.Current = confirmed
	src.APIKey = ""
	src.State = domain.StateConfirmed
	src.LastError = nil
	src.Errors = ValidateSource(src)
}

// Delete removes the source on the server and then locally.
func (s *SourceService) Delete(ctx context.Context, id string) error {
	op, err := s.BeginDelete(id)
	if err != nil {
		return err
	}
	err = s.RunDelete(ctx, op)
	s.CompleteDelete(op, err)
	return err
}

// BeginDelete moves the source to deleting.
func (s *SourceService) BeginDelete(id string) (domain.SourceOp, error) {
	if s.api == nil {
		return domain.SourceOp{}, domain.ErrNotImplemented
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	src, _ := s.findLocked(id)
	if src == nil {
		return domain.SourceOp{}, domain.ErrSourceNotFound
	}
	if src.InFlight() {
		return domain.SourceOp{}, domain.ErrInFlight
	}
	src.State = domain.StateDeleting
	src.LastError = nil
	return domain.SourceOp{Event: s.event, ID: id, Generation: s.generation}, nil
}

// RunDelete sends the delete. It does not touch local state.
func (s *SourceService) RunDelete(ctx context.Context, op domain.SourceOp) error {
	if s.api == nil {
		return domain.ErrNotImplemented
	}
	logger.Debug("Deleting source %s/%s", op.Event, op.ID)
	return s.api.DeleteSource(ctx, op.Event, op.ID)
}

// CompleteDelete applies the outcome of RunDelete.
func (s *SourceService) CompleteDelete(op domain.SourceOp, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.notifyError(fmt.Sprintf("Failed to delete source %q: %v", op.ID, err))
		if src := s.liveLocked(op); src != nil {
			src.State = domain.StateFailed
			src.LastError = err
		}
		return
	}
	s.notifySuccess(fmt.Sprintf("Source %q deleted.", op.ID))
	if src := s.liveLocked(op); src != nil {
		_, idx := s.findLocked(op.ID)
		s.sources = append(s.sources[:idx], s.sources[idx+1:]...)
	}
}

// Draft returns a snapshot of the new-source draft.
func (s *SourceService) Draft() domain.SourceDraft {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.draft
	d.Errors = make(domain.FieldErrors, len(s.draft.Errors))
	for k, v := range s.draft.Errors {
		d.Errors[k] = v
	}
	return d
}

// EditDraft sets one draft field and revalidates the draft.
func (s *SourceService) EditDraft(field domain.SourceField, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := applyDraftField(&s.draft, field, value); err != nil {
		return err
	}
	s.draft.Errors = ValidateDraft(&s.draft, s.idsLocked())
	return nil
}

// ResetDraft clears the draft.
func (s *SourceService) ResetDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = domain.NewSourceDraft()
}

// CreateNew validates the draft, creates the source and appends it to the list.
func (s *SourceService) CreateNew(ctx context.Context) (domain.EditableSource, error) {
	if s.api == nil {
		return domain.EditableSource{}, domain.ErrNotImplemented
	}

	s.mu.Lock()
	if s.event == "" {
		s.mu.Unlock()
		return domain.EditableSource{}, domain.ErrNoActiveEvent
	}
	draft := s.draft
	s.draft.Errors = ValidateDraft(&s.draft, s.idsLocked())
	if !s.draft.Errors.Empty() {
		fields := make(domain.FieldErrors, len(s.draft.Errors))
		for k, v := range s.draft.Errors {
			fields[k] = v
		}
		s.mu.Unlock()
		s.notifyError("Please fix errors in the new source form before creating.")
		return domain.EditableSource{}, &domain.ValidationError{Fields: fields}
	}
	if _, busy := s.creating[draft.Slug]; busy {
		s.mu.Unlock()
		return domain.EditableSource{}, domain.ErrInFlight
	}
	s.creating[draft.Slug] = struct{}{}
	event := s.event
	s.mu.Unlock()

	record, err := s.api.UpsertSource(ctx, event, draft.Slug, BuildCreatePayload(draft))

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creating, draft.Slug)

	if err != nil {
		s.notifyError(fmt.Sprintf("Failed to create source %q: %v", draft.Slug, err))
		return domain.EditableSource{}, err
	}
	s.notifySuccess(fmt.Sprintf("Source %q created successfully.", draft.Slug))

	if record == nil {
		rec := domain.SourceRecord{
			URL:        draft.URL,
			EventSlug:  draft.EventSlug,
			Autoupdate: draft.Autoupdate,
			Interval:   draft.Interval,
			Filter:     draft.Filter,
		}
		record = &rec
	}
	record.ID = draft.Slug
	created := domain.NewEditableSource(*record)
	created.Errors = ValidateSource(created)

	if s.event == event {
		s.draft = domain.NewSourceDraft()
		if existing, _ := s.findLocked(created.ID); existing == nil {
			s.insertLocked(created)
		}
	}
	return created.Clone(), nil
}

// UpdateURLs returns the push webhook of each source of the loaded event.
func (s *SourceService) UpdateURLs(ctx context.Context) ([]domain.SourceUpdateURL, error) {
	if s.api == nil {
		return nil, domain.ErrNotImplemented
	}
	event := s.Event()
	if event == "" {
		return nil, domain.ErrNoActiveEvent
	}
	urls, err := s.api.SourceUpdateURLs(ctx, event)
	if err != nil {
		return nil, err
	}
	sort.Slice(urls, func(i, j int) bool { return urls[i].SourceID < urls[j].SourceID })
	return urls, nil
}

// ScheduleUpdate asks the backend to pull the source now.
func (s *SourceService) ScheduleUpdate(ctx context.Context, id string) error {
	if s.api == nil {
		return domain.ErrNotImplemented
	}
	event := s.Event()
	if event == "" {
		return domain.ErrNoActiveEvent
	}
	if err := s.api.ScheduleUpdate(ctx, event, id); err != nil {
		s.notifyError(fmt.Sprintf("Failed to schedule update for source %q: %v", id, err))
		return err
	}
	s.notifySuccess(fmt.Sprintf("Update scheduled for source %q.", id))
	return nil
}

// findLocked returns the source and its index, or nil and -1.
func (s *SourceService) findLocked(id string) (*domain.EditableSource, int) {
	for i, src := range s.sources {
		if src.ID == id {
			return src, i
		}
	}
	return nil, -1
}

// liveLocked returns the op's target if the list has not been reloaded since
// the op began and the source still exists.
func (s *SourceService) liveLocked(op domain.SourceOp) *domain.EditableSource {
	if op.Generation != s.generation || op.Event != s.event {
		logger.Debug("Ignoring completion for %s: list reloaded", op.ID)
		return nil
	}
	src, _ := s.findLocked(op.ID)
	return src
}

func (s *SourceService) insertLocked(src *domain.EditableSource) {
	idx := sort.Search(len(s.sources), func(i int) bool { return s.sources[i].ID >= src.ID })
	s.sources = append(s.sources, nil)
	copy(s.sources[idx+1:], s.sources[idx:])
	s.sources[idx] = src
}

func (s *SourceService) idsLocked() map[string]struct{} {
	ids := make(map[string]struct{}, len(s.sources))
	for _, src := range s.sources {
		ids[src.ID] = struct{}{}
	}
	return ids
}

func (s *SourceService) draftIsEmpty() bool {
	d := s.draft
	return d.Slug == "" && d.URL == "" && d.EventSlug == "" && d.APIKey == ""
}

func (s *SourceService) notifySuccess(msg string) {
	if s.notifier != nil {
		s.notifier.Success(msg)
	}
}

func (s *SourceService) notifyInfo(msg string) {
	if s.notifier != nil {
		s.notifier.Info(msg)
	}
}

func (s *SourceService) notifyError(msg string) {
	if s.notifier != nil {
		s.notifier.Error(msg)
	}
}
